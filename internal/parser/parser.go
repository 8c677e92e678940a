// Package parser turns noisy OCR text from a restaurant receipt into a
// structured receipt: line items, taxes and fees, totals, and header
// metadata. Parsing is total over its input; malformed or empty text
// degrades to an empty receipt, never an error.
package parser

import (
	"math"
	"strings"

	"github.com/mmynk/billscan/internal/models"
)

// merchantMaxLen caps the merchant name heuristic.
const merchantMaxLen = 60

// Parse extracts a structured receipt from raw OCR text.
//
// The text is normalized, split into lines, and each line is classified
// by the ordered rule cascade in rules.go. Missing subtotal and total
// values are derived afterwards: subtotal from the item sum, total from
// subtotal plus all non-round-off charges. Item and charge identifiers
// are positional, so parsing the same text twice yields identical
// results.
func Parse(raw string) *models.ReceiptData {
	lines := splitLines(Normalize(raw))

	sc := &scan{}
	for _, line := range lines {
		sc.classifyLine(line)
	}

	receipt := &models.ReceiptData{
		Items:    sc.items,
		Charges:  sc.charges,
		Subtotal: sc.subtotal,
		Total:    sc.total,
		Meta: models.ReceiptMeta{
			Merchant: merchantName(lines),
			GSTIN:    sc.gstin,
			Date:     sc.date,
		},
	}
	if receipt.Items == nil {
		receipt.Items = []models.LineItem{}
	}
	if receipt.Charges == nil {
		receipt.Charges = []models.ChargeLine{}
	}

	assemble(receipt)
	return receipt
}

// assemble applies the fallback rules for values the scan never saw.
func assemble(r *models.ReceiptData) {
	if r.Subtotal == nil && len(r.Items) > 0 {
		var sum float64
		for _, it := range r.Items {
			sum += it.TotalPrice
		}
		sum = round2(sum)
		r.Subtotal = &sum
	}
	if r.Total == nil {
		var total float64
		if r.Subtotal != nil {
			total = *r.Subtotal
		}
		for _, c := range r.Charges {
			if c.Type != models.ChargeRoundOff {
				total += c.Amount
			}
		}
		total = round2(total)
		r.Total = &total
	}
}

// merchantName joins the first up to three normalized lines, truncates
// at the tax-id keyword, and caps the result. Best effort only.
func merchantName(lines []string) string {
	n := len(lines)
	if n > 3 {
		n = 3
	}
	name := strings.Join(lines[:n], " ")
	if loc := gstinKeywordRe.FindStringIndex(name); loc != nil {
		name = name[:loc[0]]
	}
	if runes := []rune(name); len(runes) > merchantMaxLen {
		name = string(runes[:merchantMaxLen])
	}
	return strings.TrimSpace(name)
}

// round2 rounds to the currency minor unit (2 decimal places).
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
