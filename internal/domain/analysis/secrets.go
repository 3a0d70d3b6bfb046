package analysis

import (
	"math"
	"regexp"
	"strings"
)

// secretPattern is one entry of the secret catalogue. Group selects the capture group
// holding the secret value; 0 means the whole match.
type secretPattern struct {
	ID          string
	Description string
	re          *regexp.Regexp
	Group       int
	MinLen      int
	MinEntropy  float64
	// PlainOnly restricts the pattern to non-Kotlin files such as .properties.
	PlainOnly bool
}

// secretCatalogue is ordered most specific first; the first match on a line wins.
var secretCatalogue = []secretPattern{
	{ID: "private-key", Description: "PEM private key", re: regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA |OPENSSH |PGP |ENCRYPTED )?PRIVATE KEY`), MinLen: 10},
	{ID: "aws-access-key-id", Description: "AWS access key id", re: regexp.MustCompile(`\b((?:AKIA|ASIA)[0-9A-Z]{16})\b`), Group: 1, MinLen: 20},
	{ID: "aws-secret-access-key", Description: "AWS secret access key", re: regexp.MustCompile(`(?i)aws.{0,20}secret.{0,20}[:=]\s*"([0-9A-Za-z/+]{40})"`), Group: 1, MinLen: 40},
	{ID: "google-api-key", Description: "Google API key", re: regexp.MustCompile(`\b(AIza[0-9A-Za-z_\-]{35})`), Group: 1, MinLen: 39},
	{ID: "stripe-live-key", Description: "Stripe live key", re: regexp.MustCompile(`\b((?:sk|rk|pk)_live_[0-9A-Za-z]{16,})`), Group: 1, MinLen: 24},
	{ID: "slack-token", Description: "Slack token", re: regexp.MustCompile(`\b(xox[baprs]-[0-9A-Za-z-]{10,})`), Group: 1, MinLen: 15},
	{ID: "github-token", Description: "GitHub token", re: regexp.MustCompile(`\b(gh[pousr]_[0-9A-Za-z]{36,})`), Group: 1, MinLen: 40},
	{ID: "bearer-token", Description: "bearer token", re: regexp.MustCompile(`(?i)\bbearer\s+([0-9A-Za-z_\-.=]{20,})`), Group: 1, MinLen: 20},
	{ID: "connection-string-credentials", Description: "credentials in a connection string", re: regexp.MustCompile(`(?i)\b[a-z][a-z0-9+.\-]*://[^\s:/@"']+:([^\s@/"']{4,})@`), Group: 1, MinLen: 4},
	{ID: "api-key-assignment", Description: "hardcoded API key or token", re: regexp.MustCompile(`(?i)\b\w*(?:api[_-]?key|api[_-]?secret|client[_-]?secret|secret[_-]?key|access[_-]?key|auth[_-]?token|access[_-]?token|refresh[_-]?token|private[_-]?key)\w*\s*[:=]\s*"([^"\s]+)"`), Group: 1, MinLen: 8},
	{ID: "password-assignment", Description: "hardcoded password", re: regexp.MustCompile(`(?i)\b\w*(?:password|passwd|pwd)\w*\s*[:=]\s*"([^"\s]+)"`), Group: 1, MinLen: 6},
	{ID: "high-entropy-secret", Description: "high-entropy literal assigned to a secret", re: regexp.MustCompile(`(?i)\b\w*(?:secret|token|key|credential)\w*\s*[:=]\s*"([0-9A-Za-z+/_\-=]+)"`), Group: 1, MinLen: 32, MinEntropy: 3.5},
	{ID: "properties-secret", Description: "secret in a properties entry", re: regexp.MustCompile(`(?i)^\s*[\w.\-]*(?:api[_.\-]?key|secret|token|password)[\w.\-]*\s*[=:]\s*([^\s"'$]{8,})\s*$`), Group: 1, MinLen: 8, PlainOnly: true},
}

var (
	buildConfigRef = regexp.MustCompile(`[:=]\s*BuildConfig\.`)
	placeholders   = []string{"example", "test", "dummy", "sample", "placeholder", "changeme", "change_me", "your_", "your-", "xxx", "<", "${", "fake", "mock", "redacted"}
)

// secretMatch is a detected secret on one line.
type secretMatch struct {
	Pattern secretPattern
	Column  int
}

// detectSecret returns the first catalogue entry matching line, skipping comments,
// BuildConfig references and placeholder values.
func detectSecret(line string, kotlin bool) (secretMatch, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || isCommentLine(trimmed) || buildConfigRef.MatchString(line) {
		return secretMatch{}, false
	}
	for _, p := range secretCatalogue {
		if p.PlainOnly && kotlin {
			continue
		}
		for _, loc := range p.re.FindAllStringSubmatchIndex(line, -1) {
			start, end := loc[0], loc[1]
			if p.Group > 0 && len(loc) > 2*p.Group+1 && loc[2*p.Group] >= 0 {
				start, end = loc[2*p.Group], loc[2*p.Group+1]
			}
			value := line[start:end]
			if len(value) < p.MinLen || isPlaceholder(value) {
				continue
			}
			if p.MinEntropy > 0 && shannonEntropy(value) < p.MinEntropy {
				continue
			}
			return secretMatch{Pattern: p, Column: loc[0] + 1}, true
		}
	}
	return secretMatch{}, false
}

// isPlaceholder reports whether a value is obviously not a real secret. The repeated
// character check applies to the whole value, so a provider prefix keeps a key real.
func isPlaceholder(value string) bool {
	lower := strings.ToLower(value)
	for _, p := range placeholders {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return singleRune(value)
}

func singleRune(s string) bool {
	if s == "" {
		return true
	}
	first := []rune(s)[0]
	for _, r := range s {
		if r != first {
			return false
		}
	}
	return true
}

// shannonEntropy returns bits per character.
func shannonEntropy(s string) float64 {
	if s == "" {
		return 0
	}
	freq := make(map[rune]int)
	n := 0
	for _, r := range s {
		freq[r]++
		n++
	}
	total := float64(n)
	entropy := 0.0
	for _, count := range freq {
		p := float64(count) / total
		entropy -= p * math.Log2(p)
	}
	return entropy
}
