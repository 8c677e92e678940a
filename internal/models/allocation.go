package models

// Allocation maps a person identifier to a monetary amount.
// Keys are unique; reading a missing key yields zero, which is the
// contract every stage of the split pipeline relies on.
type Allocation map[string]float64

// Sum returns the total of all amounts in the allocation.
func (a Allocation) Sum() float64 {
	var s float64
	for _, v := range a {
		s += v
	}
	return s
}

// Keys returns the person identifiers present in the allocation,
// in unspecified order.
func (a Allocation) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	return keys
}

// AllocationResult is the full output of one split computation.
// Each map is an independent snapshot; none share backing state.
//
// Pretax and the three charge maps may contain identifiers that were
// not in the participant list if items referenced them as owners.
// RawFinal and RoundedFinal are keyed by the participant list only.
type AllocationResult struct {
	Pretax       Allocation `json:"pretax"`
	Tax          Allocation `json:"tax"`
	Service      Allocation `json:"service"`
	RoundOff     Allocation `json:"round_off"`
	RawFinal     Allocation `json:"raw_final"`
	RoundedFinal Allocation `json:"rounded_final"`
}
