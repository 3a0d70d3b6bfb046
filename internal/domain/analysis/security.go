package analysis

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/abdidvp/kodeguard/internal/domain"
)

var (
	cleartextURL      = regexp.MustCompile(`"http://([^"/:\s]+)`)
	cleartextManifest = regexp.MustCompile(`android:usesCleartextTraffic\s*=\s*"true"`)
	logCall           = regexp.MustCompile(`\b(?:Log\.[vdiwe]|Timber\.[vdiwe]|println|print)\s*\(`)
	sensitiveWord     = regexp.MustCompile(`(?i)password|passwd|token|secret|api_?key|credential|ssn|credit_?card`)
	worldAccessible   = regexp.MustCompile(`\bMODE_WORLD_(?:READABLE|WRITEABLE)\b`)
	trustAll          = regexp.MustCompile(`(?i)\btrust_?all\w*|ALLOW_ALL_HOSTNAME_VERIFIER|hostnameVerifier\s*(?:=\s*HostnameVerifier\s*)?\{\s*_\s*,\s*_\s*->\s*true\s*\}|setHostnameVerifier\s*\{\s*_\s*,\s*_\s*->\s*true`)
)

var localHosts = map[string]bool{
	"localhost": true, "127.0.0.1": true, "10.0.2.2": true, "0.0.0.0": true,
	"schemas.android.com": true, "www.w3.org": true, "xmlpull.org": true, "ns.adobe.com": true,
}

var securityExtensions = map[string]bool{".kt": true, ".kts": true, ".properties": true, ".xml": true, ".json": true}

var (
	ruleHardcodedSecret = rule{
		ID:             "hardcoded-secret",
		Title:          "Hardcoded secret",
		Priority:       domain.PriorityCritical,
		Effort:         domain.EffortSmall,
		Recommendation: "Move the secret out of source control: inject it through local.properties and BuildConfig, or fetch it from a backend. Rotate the exposed value.",
		Before:         `const val API_KEY = "sk_live_..."`,
		After:          "val apiKey = BuildConfig.API_KEY",
		References:     []string{"https://owasp.org/www-project-mobile-top-10/2023-risks/m1-improper-credential-usage", "https://cwe.mitre.org/data/definitions/798.html"},
	}
	ruleCleartextTraffic = rule{
		ID:             "cleartext-traffic",
		Title:          "Cleartext HTTP traffic",
		Priority:       domain.PriorityHigh,
		Effort:         domain.EffortSmall,
		Recommendation: "Use https:// endpoints and keep cleartext traffic disabled in the network security config.",
		References:     []string{"https://developer.android.com/privacy-and-security/security-config"},
	}
	ruleSensitiveLogging = rule{
		ID:             "sensitive-logging",
		Title:          "Sensitive value written to the log",
		Priority:       domain.PriorityMedium,
		Effort:         domain.EffortTrivial,
		Recommendation: "Never log credentials or tokens. Remove the statement or log a redacted form.",
		References:     []string{"https://cwe.mitre.org/data/definitions/532.html"},
	}
	ruleWorldAccessible = rule{
		ID:             "world-readable-mode",
		Title:          "File created world-accessible",
		Priority:       domain.PriorityHigh,
		Effort:         domain.EffortSmall,
		Recommendation: "Use MODE_PRIVATE and share data through a ContentProvider or FileProvider.",
	}
	ruleInsecureTLS = rule{
		ID:             "insecure-tls",
		Title:          "TLS verification disabled",
		Priority:       domain.PriorityCritical,
		Effort:         domain.EffortMedium,
		Recommendation: "Remove trust-all managers and permissive hostname verifiers. Use certificate pinning if custom trust is needed.",
		References:     []string{"https://developer.android.com/privacy-and-security/security-ssl"},
	}
)

// SecurityAnalyzer looks for secrets and insecure platform usage.
type SecurityAnalyzer struct{ base }

func NewSecurityAnalyzer() *SecurityAnalyzer {
	return &SecurityAnalyzer{base{id: "security", name: "Security", category: domain.CategorySecurity}}
}

func (a *SecurityAnalyzer) AppliesTo(f domain.FileInfo) bool {
	return securityExtensions[f.Ext()]
}

func (a *SecurityAnalyzer) Analyze(f domain.FileInfo, content []byte) ([]domain.Finding, error) {
	src := newSource(f, content)
	kotlin := f.Ext() == ".kt" || f.Ext() == ".kts"

	// Kotlin lines are matched with comment text blanked out, so block comment
	// interiors and trailing comments never count.
	visible := src.lines
	if kotlin {
		visible = uncommentAll(src.lines)
	}

	var findings []domain.Finding
	for i, raw := range visible {
		n := i + 1
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || isCommentLine(trimmed) {
			continue
		}

		if m, ok := detectSecret(raw, kotlin); ok {
			findings = append(findings, a.emit(src, ruleHardcodedSecret, n, m.Column,
				fmt.Sprintf("Line contains a %s.", m.Pattern.Description)))
		}

		for _, m := range cleartextURL.FindAllStringSubmatch(raw, -1) {
			if !localHosts[strings.ToLower(m[1])] {
				findings = append(findings, withFix(
					a.emit(src, ruleCleartextTraffic, n, 0, fmt.Sprintf("Request to %s is sent unencrypted.", m[1])),
					"replace-scheme", "https://"+m[1]))
				break
			}
		}
		if cleartextManifest.MatchString(raw) {
			findings = append(findings, a.emit(src, ruleCleartextTraffic, n, 0, "The manifest allows cleartext traffic for the whole app."))
		}

		if !kotlin {
			continue
		}
		code := src.codes[i]
		if logCall.MatchString(code) && sensitiveWord.MatchString(raw) {
			findings = append(findings, a.emit(src, ruleSensitiveLogging, n, 0, ""))
		}
		if worldAccessible.MatchString(code) {
			findings = append(findings, withFix(a.emit(src, ruleWorldAccessible, n, 0, ""), "replace-constant", "MODE_PRIVATE"))
		}
		if trustAll.MatchString(code) {
			findings = append(findings, a.emit(src, ruleInsecureTLS, n, 0, ""))
		}
	}
	return findings, nil
}
