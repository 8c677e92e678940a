package parser

import (
	"regexp"
	"strings"
)

var (
	currencyRe   = regexp.MustCompile(`[\x{20B9}$]`)
	whitespaceRe = regexp.MustCompile(`[\s\t]+`)

	// Fixed OCR misread corrections, applied after uppercasing.
	// This is deliberately indiscriminate: it fixes digits misread as
	// letters in amounts at the cost of corrupting legitimate O/S/B in
	// names. All downstream keyword patterns are written over this
	// substituted alphabet.
	ocrSubstitutions = strings.NewReplacer(
		"O", "0",
		"S", "0",
		"B", "8",
	)
)

// Normalize canonicalizes raw OCR text for pattern matching: uppercase,
// currency glyph variants folded to "₹", whitespace runs collapsed to
// single spaces, and the fixed OCR character corrections applied.
// Always returns a string, possibly empty.
func Normalize(raw string) string {
	text := strings.ToUpper(raw)
	text = currencyRe.ReplaceAllString(text, "₹")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = whitespaceRe.ReplaceAllString(line, " ")
		line = ocrSubstitutions.Replace(line)
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// splitLines returns the trimmed, non-empty lines of normalized text
// in their original order.
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' }) {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
