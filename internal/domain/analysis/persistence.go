package analysis

import (
	"regexp"
	"strings"

	"github.com/abdidvp/kodeguard/internal/domain"
)

var (
	sqlStart       = regexp.MustCompile(`(?i)"\s*(SELECT|INSERT|UPDATE|DELETE|REPLACE)\b`)
	sqlTemplate    = regexp.MustCompile(`\$\{?[A-Za-z_]`)
	sqlConcat      = regexp.MustCompile(`"\s*\+\s*[^"\s]|[^"\s]\s*\+\s*"`)
	sqlNamedBind   = regexp.MustCompile(`(^|[^:\w]):[A-Za-z_]\w*`)
	daoAnnotation  = regexp.MustCompile(`@(Query|Insert|Update|Delete|Upsert|RawQuery)\b`)
	daoReturnAsync = regexp.MustCompile(`\b(Flow|LiveData|PagingSource|Flowable|Observable|Single|Maybe|Completable)\s*<|:\s*(Flow|LiveData|PagingSource|Completable)\b`)
	mainThread     = regexp.MustCompile(`\.allowMainThreadQueries\s*\(`)
	destructive    = regexp.MustCompile(`\.fallbackToDestructiveMigration\w*\s*\(`)
)

var (
	ruleSQLInjection = rule{
		ID:             "sql-injection",
		Title:          "SQL query built from untrusted input",
		Priority:       domain.PriorityCritical,
		Effort:         domain.EffortSmall,
		Recommendation: "Use bind parameters (:name or ?) and pass values as arguments instead of concatenating or interpolating them.",
		Before:         `db.rawQuery("SELECT * FROM users WHERE name = '" + name + "'", null)`,
		After:          `db.rawQuery("SELECT * FROM users WHERE name = ?", arrayOf(name))`,
		References:     []string{"https://owasp.org/www-community/attacks/SQL_Injection", "https://developer.android.com/training/data-storage/room/accessing-data#query-params"},
	}
	ruleBlockingDao = rule{
		ID:             "dao-blocking-call",
		Title:          "DAO function blocks its caller",
		Priority:       domain.PriorityMedium,
		Effort:         domain.EffortSmall,
		Recommendation: "Mark one-shot DAO functions suspend, or return Flow for observable queries.",
		Before:         `@Query("SELECT * FROM users") fun getAll(): List<User>`,
		After:          `@Query("SELECT * FROM users") suspend fun getAll(): List<User>`,
		References:     []string{"https://developer.android.com/training/data-storage/room/async-queries"},
	}
	ruleMainThreadQueries = rule{
		ID:             "main-thread-queries",
		Title:          "Database queries allowed on the main thread",
		Priority:       domain.PriorityHigh,
		Effort:         domain.EffortSmall,
		Recommendation: "Remove allowMainThreadQueries() and move database work to a background dispatcher.",
	}
	ruleDestructiveMigration = rule{
		ID:             "destructive-migration",
		Title:          "Schema changes wipe user data",
		Priority:       domain.PriorityMedium,
		Effort:         domain.EffortMedium,
		Recommendation: "Provide Migration objects or AutoMigrations so upgrades keep existing data.",
		References:     []string{"https://developer.android.com/training/data-storage/room/migrating-db-versions"},
	}
)

// PersistenceAnalyzer checks database access code.
type PersistenceAnalyzer struct{ base }

func NewPersistenceAnalyzer() *PersistenceAnalyzer {
	return &PersistenceAnalyzer{base{id: "persistence", name: "Database access", category: domain.CategoryPersistence}}
}

func (a *PersistenceAnalyzer) AppliesTo(f domain.FileInfo) bool {
	if !isKotlin(f) || f.IsTest() {
		return false
	}
	return f.Layer == domain.LayerData || nameContainsAny(f, "Dao", "Database", "Repository", "Db")
}

func (a *PersistenceAnalyzer) Analyze(f domain.FileInfo, content []byte) ([]domain.Finding, error) {
	src := newSource(f, content)
	findings := a.sqlInjection(src)

	isDao := strings.Contains(string(content), "@Dao")
	for i, code := range src.codes {
		switch {
		case mainThread.MatchString(code):
			findings = append(findings, withFix(a.emit(src, ruleMainThreadQueries, i+1, 0, ""), "remove-call", ""))
		case destructive.MatchString(code):
			findings = append(findings, a.emit(src, ruleDestructiveMigration, i+1, 0, ""))
		}
		if isDao {
			if fd := a.blockingDao(src, i); fd != nil {
				findings = append(findings, *fd)
			}
		}
	}
	return findings, nil
}

// sqlInjection flags SQL literals assembled with + or string templates. A statement
// may continue across lines ending or starting with '+'.
func (a *PersistenceAnalyzer) sqlInjection(src *source) []domain.Finding {
	var findings []domain.Finding
	for i := 0; i < len(src.lines); i++ {
		raw := src.lines[i]
		if isCommentLine(strings.TrimSpace(raw)) || !sqlStart.MatchString(raw) {
			continue
		}
		stmt := raw
		j := i
		for j+1 < len(src.lines) && j-i < 8 {
			cur := strings.TrimSpace(src.lines[j])
			next := strings.TrimSpace(src.lines[j+1])
			if !strings.HasSuffix(cur, "+") && !strings.HasPrefix(next, "+") {
				break
			}
			j++
			stmt += " " + next
		}
		if unsafeSQL(stmt) {
			findings = append(findings, a.emit(src, ruleSQLInjection, i+1, 0,
				"A query string is assembled from runtime values, so input can change the statement."))
		}
		i = j
	}
	return findings
}

// unsafeSQL reports whether a statement assembles SQL from values. Named binds mark
// the query as parameterised regardless of the rest of the text.
func unsafeSQL(stmt string) bool {
	for _, lit := range stringLiterals(stmt) {
		if sqlNamedBind.MatchString(lit) {
			return false
		}
	}
	return sqlConcat.MatchString(stmt) || sqlTemplateInLiteral(stmt)
}

func sqlTemplateInLiteral(stmt string) bool {
	for _, lit := range stringLiterals(stmt) {
		if sqlTemplate.MatchString(lit) {
			return true
		}
	}
	return false
}

// stringLiterals returns the contents of the double-quoted literals on a line.
func stringLiterals(line string) []string {
	var out []string
	for i := 0; i < len(line); i++ {
		if line[i] != '"' {
			continue
		}
		j := i + 1
		for j < len(line) && line[j] != '"' {
			if line[j] == '\\' {
				j++
			}
			j++
		}
		if j > len(line) {
			j = len(line)
		}
		out = append(out, line[i+1:j])
		i = j
	}
	return out
}

// blockingDao flags a DAO function declared on line idx that is neither suspend nor
// returning an observable type.
func (a *PersistenceAnalyzer) blockingDao(src *source, idx int) *domain.Finding {
	loc := funDecl.FindStringSubmatchIndex(src.codes[idx])
	if loc == nil {
		return nil
	}
	annotated := daoAnnotation.MatchString(src.codes[idx])
	for j := idx - 1; j >= 0 && j >= idx-3 && !annotated; j-- {
		if daoAnnotation.MatchString(src.lines[j]) {
			annotated = true
		}
	}
	mods := src.codes[idx][loc[2]:loc[3]]
	if !annotated || hasWord(mods, "suspend") || daoReturnAsync.MatchString(src.codes[idx]) {
		return nil
	}
	f := withFix(a.emit(src, ruleBlockingDao, idx+1, 0, ""), "insert-modifier", "suspend fun")
	return &f
}
