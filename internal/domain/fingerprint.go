package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Fingerprint derives the identity of a finding from its analyzer, rule, file
// and location key. The fields are joined with NUL so no field can bleed into
// its neighbour.
func Fingerprint(analyzer, rule, file, locationKey string) string {
	h := sha256.New()
	h.Write([]byte(analyzer))
	h.Write([]byte{0})
	h.Write([]byte(rule))
	h.Write([]byte{0})
	h.Write([]byte(file))
	h.Write([]byte{0})
	h.Write([]byte(locationKey))
	return hex.EncodeToString(h.Sum(nil))
}

// LocationKey identifies a position by the normalized text found there rather
// than by line number, so a finding keeps its identity when code above it
// moves. occurrence separates repeated identical lines within one file.
// An empty line falls back to the line number.
func LocationKey(lineText string, line, occurrence int) string {
	norm := NormalizeLine(lineText)
	if norm == "" {
		return fmt.Sprintf("L%d", line)
	}
	return fmt.Sprintf("%s#%d", norm, occurrence)
}

// NormalizeLine collapses runs of whitespace and trims the ends.
func NormalizeLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
