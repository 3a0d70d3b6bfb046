package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abdidvp/kodeguard/internal/application"
	"github.com/abdidvp/kodeguard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVCS struct {
	hash string
	err  error
}

func (v fakeVCS) CommitHash(string) (string, error)     { return v.hash, v.err }
func (v fakeVCS) ChangedFiles(string) ([]string, error) { return nil, v.err }

func finding(analyzer, rule, file string, line int, snippet string) domain.Finding {
	fp := domain.Fingerprint(analyzer, rule, file, domain.LocationKey(snippet, line, 0))
	return domain.Finding{
		ID: fp[:16], Analyzer: analyzer, Rule: rule, File: file, Line: line, CodeSnippet: snippet,
		Category: domain.CategorySecurity, Priority: domain.PriorityHigh, Effort: domain.EffortSmall,
		Title: rule, Fingerprint: fp,
	}
}

func TestBaselineManager_LoadEmpty(t *testing.T) {
	m := application.NewBaselineManager(&memStore{})
	b, err := m.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestBaselineManager_SaveLoadRoundTrip(t *testing.T) {
	now := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	store := &memStore{}
	m := application.NewBaselineManager(store,
		application.WithClock(func() time.Time { return now }),
		application.WithVersionControl(fakeVCS{hash: "c0ffee"}, "/proj"),
	)

	findings := []domain.Finding{
		finding("security", "hardcoded-secret", "a.kt", 3, `val key = "x"`),
		finding("naming", "class-name-case", "b.kt", 1, "class foo"),
	}
	res := application.Aggregate(findings)
	saved, err := m.Save(context.Background(), res.Metrics, res.Findings)
	require.NoError(t, err)

	loaded, err := m.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, saved, *loaded)
	assert.Equal(t, now, loaded.Timestamp)
	assert.Equal(t, "c0ffee", loaded.CommitHash)
	assert.Equal(t, 2, loaded.Metrics.Total)
	assert.Len(t, loaded.Findings, 2)

	d := application.Diff(loaded, findings)
	assert.Empty(t, d.New, "saving then loading reproduces the same identities")
	assert.Empty(t, d.Resolved)
}

func TestBaselineManager_SaveReplaces(t *testing.T) {
	store := &memStore{}
	m := application.NewBaselineManager(store)
	ctx := context.Background()

	_, err := m.Save(ctx, domain.NewMetrics(), []domain.Finding{finding("a", "r", "x.kt", 1, "one")})
	require.NoError(t, err)
	_, err = m.Save(ctx, domain.NewMetrics(), []domain.Finding{finding("a", "r", "y.kt", 1, "two")})
	require.NoError(t, err)

	b, err := m.Load(ctx)
	require.NoError(t, err)
	require.Len(t, b.Findings, 1)
	assert.Equal(t, "y.kt", b.Findings[0].File)
}

func TestBaselineManager_CommitHashFailureIsIgnored(t *testing.T) {
	m := application.NewBaselineManager(&memStore{}, application.WithVersionControl(fakeVCS{err: errors.New("not a repo")}, "/proj"))
	b, err := m.Save(context.Background(), domain.NewMetrics(), nil)
	require.NoError(t, err)
	assert.Empty(t, b.CommitHash)
	assert.NotNil(t, b.Findings)
}

func TestBaselineManager_History(t *testing.T) {
	store := &memStore{}
	m := application.NewBaselineManager(store, application.WithClock(fixedClock()))
	ctx := context.Background()

	require.NoError(t, m.AppendHistory(ctx, application.Aggregate(nil), 3))
	require.NoError(t, m.AppendHistory(ctx, application.Aggregate([]domain.Finding{finding("a", "r", "x.kt", 1, "x")}), 4))

	entries, err := m.History(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 3, entries[0].FilesAnalyzed)
	assert.Equal(t, 1, entries[1].Result.Metrics.Total)
	assert.True(t, entries[1].Timestamp.After(entries[0].Timestamp))
}

func TestBaselineManager_StoreErrors(t *testing.T) {
	store := &memStore{err: domain.ErrBaselineStore}
	m := application.NewBaselineManager(store)
	ctx := context.Background()

	_, err := m.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrBaselineStore)
	_, err = m.Save(ctx, domain.NewMetrics(), nil)
	assert.ErrorIs(t, err, domain.ErrBaselineStore)
	assert.ErrorIs(t, m.AppendHistory(ctx, application.Aggregate(nil), 0), domain.ErrBaselineStore)
	_, err = m.History(ctx)
	assert.ErrorIs(t, err, domain.ErrBaselineStore)
}

func TestDiff(t *testing.T) {
	kept := finding("security", "hardcoded-secret", "a.kt", 3, `val key = "x"`)
	fixed := finding("naming", "class-name-case", "b.kt", 1, "class foo")
	added := finding("performance", "global-scope", "c.kt", 7, "GlobalScope.launch {}")

	baseline := &domain.Baseline{Findings: []domain.BaselineFinding{
		domain.NewBaselineFinding(kept),
		domain.NewBaselineFinding(fixed),
	}}

	d := application.Diff(baseline, []domain.Finding{kept, added})
	require.Len(t, d.New, 1)
	assert.Equal(t, added.Fingerprint, d.New[0].Fingerprint)
	require.Len(t, d.Resolved, 1)
	assert.Equal(t, fixed.Fingerprint, d.Resolved[0].Identity)
}

func TestDiff_ShiftedLineKeepsIdentity(t *testing.T) {
	before := finding("security", "hardcoded-secret", "a.kt", 3, `val key = "x"`)
	after := finding("security", "hardcoded-secret", "a.kt", 10, `    val key  =  "x"`)

	baseline := &domain.Baseline{Findings: []domain.BaselineFinding{domain.NewBaselineFinding(before)}}
	d := application.Diff(baseline, []domain.Finding{after})
	assert.Empty(t, d.New)
	assert.Empty(t, d.Resolved)
}

func TestDiff_NilBaseline(t *testing.T) {
	f := finding("a", "r", "x.kt", 1, "x")
	d := application.Diff(nil, []domain.Finding{f})
	assert.Len(t, d.New, 1)
	assert.Empty(t, d.Resolved)
}
