// Package upi builds UPI payment deep links and QR codes.
package upi

import (
	"errors"
	"fmt"
	"net/url"
)

// Deep link notes longer than this get rejected by some UPI apps.
const maxNoteLength = 70

// LinkParams describe a single collect request.
type LinkParams struct {
	// VPA is the payee's virtual payment address, e.g. "alice@upi".
	VPA string
	// Name is the payee's display name.
	Name string
	// Amount in rupees. Must be positive.
	Amount float64
	// Note is the transaction note shown to the payer.
	Note string
}

// BuildDeepLink renders a upi://pay link for the given payment.
// The amount is fixed to two decimals and the note truncated to 70
// characters.
func BuildDeepLink(p LinkParams) (string, error) {
	if p.VPA == "" {
		return "", errors.New("payee VPA is required")
	}
	if p.Amount <= 0 {
		return "", fmt.Errorf("amount must be positive, got %.2f", p.Amount)
	}

	q := url.Values{}
	q.Set("pa", p.VPA)
	q.Set("pn", p.Name)
	q.Set("am", fmt.Sprintf("%.2f", p.Amount))
	q.Set("cu", "INR")
	q.Set("tn", truncate(p.Note, maxNoteLength))

	return "upi://pay?" + q.Encode(), nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
