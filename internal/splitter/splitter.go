// Package splitter computes a per-person split of a parsed receipt:
// pre-tax shares from item ownership, proportional distribution of
// taxes and fees, and a final rounding pass that reconciles the sum of
// rounded shares exactly against the receipt total.
//
// Every function is pure and total: no I/O, no shared state, and no
// error returns. Degenerate inputs (no participants, no owned items,
// zero pre-tax basis) produce zero-valued allocations.
package splitter

import (
	"math"

	"github.com/mmynk/billscan/internal/models"
)

// PretaxShares computes each participant's share of item costs before
// any charges are distributed.
//
// Each included item with at least one owner is divided equally among
// its owners (equal split, not quantity-weighted). Owners that are not
// in participantIDs still accumulate a share; the map is keyed by
// whatever identifiers appear as owners. Shares are rounded to 2
// decimals at the end.
func PretaxShares(receipt *models.ReceiptData, participantIDs []string) models.Allocation {
	pretax := models.Allocation{}
	for _, pid := range participantIDs {
		pretax[pid] = 0
	}
	for _, item := range receipt.Items {
		if !item.Include || len(item.Owners) == 0 {
			continue
		}
		share := item.TotalPrice / float64(len(item.Owners))
		for _, owner := range item.Owners {
			pretax[owner] += share
		}
	}
	for pid, v := range pretax {
		pretax[pid] = round2(v)
	}
	return pretax
}

// AllocateProportionally distributes an aggregate charge to
// participants in proportion to their pre-tax shares. Each share is
// rounded independently; the per-bucket sum may drift from total by a
// few minor units, which the final reconciliation absorbs.
//
// A non-positive pre-tax basis yields an all-zero allocation: no fees
// are charged when no items are assigned, and no division fault occurs.
func AllocateProportionally(total float64, pretax models.Allocation) models.Allocation {
	alloc := models.Allocation{}
	basis := pretax.Sum()
	if basis <= 0 {
		for pid := range pretax {
			alloc[pid] = 0
		}
		return alloc
	}
	for pid, share := range pretax {
		alloc[pid] = round2(total * share / basis)
	}
	return alloc
}

// ComputeAllocations runs the full allocation pipeline for a receipt
// and an ordered list of participant identifiers.
//
// Charges are bucketed by type (taxes, fees, round-off), each bucket is
// distributed proportionally to pre-tax shares, and the raw per-person
// totals are rounded with LargestRemainder so that the rounded amounts
// sum exactly to the receipt total (or the raw sum when no total is
// present).
func ComputeAllocations(receipt *models.ReceiptData, participantIDs []string) *models.AllocationResult {
	pretax := PretaxShares(receipt, participantIDs)

	var totalTax, totalService, totalRoundOff float64
	for _, c := range receipt.Charges {
		switch {
		case c.Type.IsTax():
			totalTax += c.Amount
		case c.Type == models.ChargeRoundOff:
			totalRoundOff += c.Amount
		default:
			totalService += c.Amount
		}
	}

	tax := AllocateProportionally(totalTax, pretax)
	service := AllocateProportionally(totalService, pretax)
	roundOff := AllocateProportionally(totalRoundOff, pretax)

	raw := models.Allocation{}
	for _, pid := range participantIDs {
		raw[pid] = pretax[pid] + tax[pid] + service[pid] + roundOff[pid]
	}

	rounded := LargestRemainder(raw, receipt.Total)

	return &models.AllocationResult{
		Pretax:       pretax,
		Tax:          tax,
		Service:      service,
		RoundOff:     roundOff,
		RawFinal:     raw,
		RoundedFinal: rounded,
	}
}

// round2 rounds to the currency minor unit (2 decimal places).
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
