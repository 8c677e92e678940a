package splitter

import (
	"math"
	"sort"

	"github.com/mmynk/billscan/internal/models"
)

// LargestRemainder rounds raw amounts down to the minor unit and then
// redistributes the leftover minor units so the rounded sum equals the
// target exactly (or the raw sum when target is nil).
//
// Missing minor units are handed out one at a time to the participants
// with the largest truncated remainders; surplus units are taken back
// from those with the smallest remainders first. The walk is cyclic, so
// a discrepancy larger than the participant count still reconciles. No
// single step moves any value by more than one minor unit.
func LargestRemainder(raw models.Allocation, target *float64) models.Allocation {
	rounded := models.Allocation{}
	var sumFloor float64
	for pid, v := range raw {
		rounded[pid] = floorCents(v)
		sumFloor += rounded[pid]
	}

	desired := raw.Sum()
	if target != nil {
		desired = *target
	}
	cents := int(math.Round((desired - sumFloor) * 100))
	if cents == 0 || len(rounded) == 0 {
		return rounded
	}

	remainders := make(map[string]float64, len(raw))
	for pid, v := range raw {
		remainders[pid] = v - floorCents(v)
	}
	order := raw.Keys()
	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if remainders[a] != remainders[b] {
			if cents > 0 {
				return remainders[a] > remainders[b]
			}
			return remainders[a] < remainders[b]
		}
		return a < b // deterministic tie-break
	})

	for idx := 0; cents != 0; idx = (idx + 1) % len(order) {
		pid := order[idx]
		if cents > 0 {
			rounded[pid] = round2(rounded[pid] + 0.01)
			cents--
		} else {
			rounded[pid] = round2(rounded[pid] - 0.01)
			cents++
		}
	}
	return rounded
}

// floorCents truncates a value down to the minor unit.
func floorCents(v float64) float64 {
	return math.Floor(v*100) / 100
}
