package report

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/abdidvp/kodeguard/internal/domain"
)

const sarifSchema = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name,omitempty"`
	ShortDescription sarifMessage `json:"shortDescription"`
	Help             sarifMessage `json:"help"`
	HelpURI          string       `json:"helpUri,omitempty"`
}

type sarifResult struct {
	RuleID              string            `json:"ruleId"`
	Message             sarifMessage      `json:"message"`
	Level               string            `json:"level"` // error, warning, note
	Locations           []sarifLocation   `json:"locations"`
	PartialFingerprints map[string]string `json:"partialFingerprints,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
}

// RenderSARIF writes the report's findings as a SARIF 2.1.0 log. Rule ids are
// "<analyzer>/<rule>" and the finding fingerprint is carried so code scanning
// services can track results across runs.
func RenderSARIF(w io.Writer, r *domain.Report, version string) error {
	rules := []sarifRule{}
	ruleSeen := map[string]bool{}
	results := []sarifResult{}

	for _, g := range r.Groups {
		for _, cg := range g.Categories {
			for _, f := range cg.Findings {
				id := f.Analyzer + "/" + f.Rule
				if !ruleSeen[id] {
					ruleSeen[id] = true
					rule := sarifRule{
						ID:               id,
						Name:             f.Rule,
						ShortDescription: sarifMessage{Text: f.Title},
						Help:             sarifMessage{Text: f.Recommendation},
					}
					if len(f.References) > 0 {
						rule.HelpURI = f.References[0]
					}
					rules = append(rules, rule)
				}
				results = append(results, sarifResult{
					RuleID:  id,
					Level:   priorityToLevel(f.Priority),
					Message: sarifMessage{Text: strings.TrimSpace(f.Description)},
					Locations: []sarifLocation{{
						PhysicalLocation: sarifPhysicalLocation{
							ArtifactLocation: sarifArtifactLocation{URI: toURI(f.File)},
							Region:           sarifRegion{StartLine: max(f.Line, 1), StartColumn: f.Column},
						},
					}},
					PartialFingerprints: map[string]string{"kodeguard/v1": f.Identity()},
				})
			}
		}
	}

	log := sarifLog{
		Version: "2.1.0",
		Schema:  sarifSchema,
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:    "kodeguard",
				Version: version,
				Rules:   rules,
			}},
			Results: results,
		}},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}

func priorityToLevel(p domain.Priority) string {
	switch p {
	case domain.PriorityCritical, domain.PriorityHigh:
		return "error"
	case domain.PriorityMedium:
		return "warning"
	default:
		return "note"
	}
}

func toURI(p string) string {
	p = strings.TrimSpace(p)
	for strings.HasPrefix(p, "../") {
		p = strings.TrimPrefix(p, "../")
	}
	p = strings.TrimPrefix(p, "./")
	if p == "" {
		return "UNKNOWN"
	}
	return p
}
