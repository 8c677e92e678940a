package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mmynk/billscan/internal/models"
)

// Classification patterns. These match the output of Normalize, so every
// keyword is written over the post-substitution alphabet: O and S appear
// as 0, B as 8. Character classes keep them readable and tolerate both
// forms.
var (
	amountRe = regexp.MustCompile(`₹?\s*(-?\d+(?:\.\d{1,2})?)`)

	gstinRe        = regexp.MustCompile(`G[S0]TIN\s*[:\-]?\s*([0-9A-Z]{15})`)
	gstinKeywordRe = regexp.MustCompile(`\s*G[S0]TIN`)
	dateRe         = regexp.MustCompile(`(\d{1,2}[\-/.]\d{1,2}[\-/.]\d{2,4})`)
	totalRe        = regexp.MustCompile(`(?:GRAND\s*)?T[O0]TAL\s*[:\-]?\s*(₹?\s*\d+(?:\.\d{1,2})?)`)
	subtotalRe     = regexp.MustCompile(`([S0]U[B8]\s*T[O0]TAL|AM[O0]UNT)\s*[:\-]?\s*(₹?\s*\d+(?:\.\d{1,2})?)`)
	// The percentage is optional but must end in "%" (or follow "@") so
	// that a bare "CGST 7.50" reads 7.50 as the amount, not the rate.
	taxRe      = regexp.MustCompile(`(CG[S0]T|[S0]G[S0]T|IG[S0]T|G[S0]T)\s*@?\s*(?:\d+(?:\.\d+)?\s*%\s*)?[:\-]?\s*(₹?\s*\d+(?:\.\d{1,2})?)`)
	feeRe      = regexp.MustCompile(`([S0]ERVICE\s*CHARGE|PACKING|DELIVERY)\s*[:\-]?\s*(₹?\s*\d+(?:\.\d{1,2})?)`)
	// No dash separator here: it would swallow the sign of a negative
	// round-off amount.
	roundOffRe = regexp.MustCompile(`R[O0]UND[\s\-]*[O0]FF\s*:?\s*(₹?\s*[-+]?\d+(?:\.\d{1,2})?)`)

	// Lines that mention a charge or total keyword but carried no
	// parseable amount are noise, never items.
	keywordRe = regexp.MustCompile(`T[O0]TAL|G[S0]TIN|R[O0]UND|CG[S0]T|[S0]G[S0]T|IG[S0]T|G[S0]T|[S0]ERVICE|PACKING|DELIVERY|AM[O0]UNT`)

	// Item line: optional leading quantity (with an optional OCR'd "X"),
	// item name, trailing unsigned amount.
	itemRe = regexp.MustCompile(`^(?:(\d+)\s*X?\s+)?(.+?)\s+₹?\s*(\d+(?:\.\d{1,2})?)$`)
)

// parseAmount extracts the first monetary amount from a token.
// The bool result is false when no amount is present.
func parseAmount(token string) (float64, bool) {
	m := amountRe.FindStringSubmatch(token)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// scan accumulates receipt fragments while lines are classified.
type scan struct {
	items    []models.LineItem
	charges  []models.ChargeLine
	subtotal *float64
	total    *float64
	gstin    string
	date     string
}

// classifyLine runs the ordered rule cascade on one normalized line.
// Metadata captures (tax id, date) do not consume the line; the first
// consuming rule that matches wins and later rules are not tried.
func (s *scan) classifyLine(line string) {
	if m := gstinRe.FindStringSubmatch(line); m != nil && s.gstin == "" {
		s.gstin = m[1]
	}
	if m := dateRe.FindStringSubmatch(line); m != nil && s.date == "" {
		s.date = m[1]
	}

	// Subtotal is checked before the bare total keyword so a
	// "SUB TOTAL" line never records as the grand total. Later
	// occurrences overwrite earlier ones.
	if m := subtotalRe.FindStringSubmatch(line); m != nil {
		if v, ok := parseAmount(m[2]); ok {
			s.subtotal = &v
			return
		}
	} else if m := totalRe.FindStringSubmatch(line); m != nil {
		if v, ok := parseAmount(m[1]); ok {
			s.total = &v
			return
		}
	}

	if m := taxRe.FindStringSubmatch(line); m != nil {
		if v, ok := parseAmount(m[2]); ok {
			typ := taxType(m[1])
			s.addCharge(typ, string(typ), v)
			return
		}
	}
	if m := feeRe.FindStringSubmatch(line); m != nil {
		if v, ok := parseAmount(m[2]); ok {
			typ := feeType(m[1])
			s.addCharge(typ, string(typ), v)
			return
		}
	}
	if m := roundOffRe.FindStringSubmatch(line); m != nil {
		if v, ok := parseAmount(m[1]); ok {
			s.addCharge(models.ChargeRoundOff, "ROUND OFF", v)
			return
		}
	}

	// Keyword without a parseable amount: noise, not an item.
	if keywordRe.MatchString(line) {
		return
	}

	if m := itemRe.FindStringSubmatch(line); m != nil {
		s.addItem(m[1], m[2], m[3])
		return
	}
	// Anything else is silently dropped.
}

func (s *scan) addCharge(typ models.ChargeType, label string, amount float64) {
	s.charges = append(s.charges, models.ChargeLine{
		ID:     fmt.Sprintf("%s-%d", typ, len(s.charges)),
		Type:   typ,
		Label:  label,
		Amount: amount,
	})
}

func (s *scan) addItem(qtyTok, name, priceTok string) {
	qty := 1
	if qtyTok != "" {
		if n, err := strconv.Atoi(qtyTok); err == nil && n != 0 {
			qty = n
		}
	}
	price, err := strconv.ParseFloat(priceTok, 64)
	if err != nil {
		return
	}
	// Unit price is derived from the line total; a non-positive
	// quantity divides by 1 instead.
	div := qty
	if div <= 0 {
		div = 1
	}
	s.items = append(s.items, models.LineItem{
		ID:         fmt.Sprintf("item-%d", len(s.items)),
		Name:       strings.TrimSpace(name),
		Quantity:   qty,
		UnitPrice:  round2(price / float64(div)),
		TotalPrice: round2(price),
		Include:    true,
		Owners:     []string{},
	})
}

// taxType maps a matched tax keyword (post-substitution form) to its
// charge type.
func taxType(keyword string) models.ChargeType {
	switch {
	case strings.HasPrefix(keyword, "C"):
		return models.ChargeCGST
	case strings.HasPrefix(keyword, "I"):
		return models.ChargeIGST
	case len(keyword) == 4:
		// SGST with its leading S substituted to 0.
		return models.ChargeSGST
	default:
		return models.ChargeGST
	}
}

// feeType maps a matched fee keyword to its charge type by substring.
func feeType(keyword string) models.ChargeType {
	switch {
	case strings.Contains(keyword, "ERVICE"):
		return models.ChargeServiceCharge
	case strings.Contains(keyword, "PACKING"):
		return models.ChargePacking
	case strings.Contains(keyword, "DELIVERY"):
		return models.ChargeDelivery
	default:
		return models.ChargeOther
	}
}
