package splitter

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mmynk/billscan/internal/models"
)

func fptr(v float64) *float64 { return &v }

func TestPretaxShares(t *testing.T) {
	tests := []struct {
		name         string
		receipt      *models.ReceiptData
		participants []string
		want         map[string]float64
	}{
		{
			name: "equal split among owners",
			receipt: &models.ReceiptData{
				Items: []models.LineItem{
					{ID: "item-0", Name: "D00AI", Quantity: 2, TotalPrice: 240, Include: true, Owners: []string{"a", "b"}},
					{ID: "item-1", Name: "IDLI", Quantity: 1, TotalPrice: 60, Include: true, Owners: []string{"a"}},
				},
			},
			participants: []string{"a", "b"},
			want:         map[string]float64{"a": 180, "b": 120},
		},
		{
			name: "excluded item contributes nothing",
			receipt: &models.ReceiptData{
				Items: []models.LineItem{
					{ID: "item-0", TotalPrice: 100, Include: false, Owners: []string{"a"}},
					{ID: "item-1", TotalPrice: 50, Include: true, Owners: []string{"a"}},
				},
			},
			participants: []string{"a"},
			want:         map[string]float64{"a": 50},
		},
		{
			name: "unowned item contributes nothing",
			receipt: &models.ReceiptData{
				Items: []models.LineItem{
					{ID: "item-0", TotalPrice: 100, Include: true, Owners: []string{}},
				},
			},
			participants: []string{"a", "b"},
			want:         map[string]float64{"a": 0, "b": 0},
		},
		{
			name: "owner outside participant list still accumulates",
			receipt: &models.ReceiptData{
				Items: []models.LineItem{
					{ID: "item-0", TotalPrice: 90, Include: true, Owners: []string{"a", "ghost"}},
				},
			},
			participants: []string{"a"},
			want:         map[string]float64{"a": 45, "ghost": 45},
		},
		{
			name:         "zero participants and no items",
			receipt:      &models.ReceiptData{},
			participants: nil,
			want:         map[string]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PretaxShares(tt.receipt, tt.participants)
			if len(got) != len(tt.want) {
				t.Fatalf("PretaxShares() has %d keys, want %d", len(got), len(tt.want))
			}
			for pid, want := range tt.want {
				if math.Abs(got[pid]-want) > 0.001 {
					t.Errorf("PretaxShares()[%s] = %v, want %v", pid, got[pid], want)
				}
			}
		})
	}
}

func TestAllocateProportionally(t *testing.T) {
	tests := []struct {
		name   string
		total  float64
		pretax models.Allocation
		want   map[string]float64
	}{
		{
			name:   "2:1 pretax ratio",
			total:  30,
			pretax: models.Allocation{"a": 100, "b": 50},
			want:   map[string]float64{"a": 20, "b": 10},
		},
		{
			name:   "zero basis yields zero shares",
			total:  42.5,
			pretax: models.Allocation{"a": 0, "b": 0},
			want:   map[string]float64{"a": 0, "b": 0},
		},
		{
			name:   "negative charge distributes proportionally",
			total:  -0.04,
			pretax: models.Allocation{"a": 180, "b": 120},
			want:   map[string]float64{"a": -0.02, "b": -0.02},
		},
		{
			name:   "empty basis",
			total:  10,
			pretax: models.Allocation{},
			want:   map[string]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AllocateProportionally(tt.total, tt.pretax)
			if len(got) != len(tt.want) {
				t.Fatalf("AllocateProportionally() has %d keys, want %d", len(got), len(tt.want))
			}
			for pid, want := range tt.want {
				if math.Abs(got[pid]-want) > 0.001 {
					t.Errorf("AllocateProportionally()[%s] = %v, want %v", pid, got[pid], want)
				}
			}
		})
	}
}

func TestLargestRemainder(t *testing.T) {
	t.Run("no target reconciles against raw sum", func(t *testing.T) {
		raw := models.Allocation{"a": 10.335, "b": 10.334, "c": 10.331}
		rounded := LargestRemainder(raw, nil)

		if math.Abs(rounded.Sum()-raw.Sum()) > 0.005 {
			t.Errorf("rounded sum = %v, want %v", rounded.Sum(), raw.Sum())
		}
		// No value may move more than one minor unit from its floor.
		for pid, v := range rounded {
			floor := math.Floor(raw[pid]*100) / 100
			if diff := math.Abs(v - floor); diff > 0.0101 {
				t.Errorf("%s moved %v from its floor, want at most one minor unit", pid, diff)
			}
		}
	})

	t.Run("explicit target is hit exactly", func(t *testing.T) {
		raw := models.Allocation{"a": 108.33, "b": 108.33, "c": 108.33}
		rounded := LargestRemainder(raw, fptr(325.00))

		if math.Abs(rounded.Sum()-325.00) > 0.005 {
			t.Errorf("rounded sum = %v, want 325.00", rounded.Sum())
		}
	})

	t.Run("negative delta takes cents back", func(t *testing.T) {
		raw := models.Allocation{"a": 10.34, "b": 10.34}
		rounded := LargestRemainder(raw, fptr(20.66))

		if math.Abs(rounded.Sum()-20.66) > 0.005 {
			t.Errorf("rounded sum = %v, want 20.66", rounded.Sum())
		}
	})

	t.Run("zero delta returns floored amounts", func(t *testing.T) {
		raw := models.Allocation{"a": 10.00, "b": 5.50}
		rounded := LargestRemainder(raw, fptr(15.50))

		if rounded["a"] != 10.00 || rounded["b"] != 5.50 {
			t.Errorf("rounded = %v, want amounts unchanged", rounded)
		}
	})

	t.Run("empty allocation", func(t *testing.T) {
		rounded := LargestRemainder(models.Allocation{}, fptr(10))
		if len(rounded) != 0 {
			t.Errorf("rounded = %v, want empty", rounded)
		}
	})
}

func TestComputeAllocations(t *testing.T) {
	t.Run("end-to-end dosa scenario", func(t *testing.T) {
		receipt := &models.ReceiptData{
			Items: []models.LineItem{
				{ID: "item-0", Name: "D00AI", Quantity: 2, UnitPrice: 120, TotalPrice: 240, Include: true, Owners: []string{"a", "b"}},
				{ID: "item-1", Name: "IDLI", Quantity: 1, UnitPrice: 60, TotalPrice: 60, Include: true, Owners: []string{"a"}},
			},
			Charges: []models.ChargeLine{
				{ID: "CGST-0", Type: models.ChargeCGST, Label: "CGST", Amount: 7.5},
				{ID: "SGST-1", Type: models.ChargeSGST, Label: "SGST", Amount: 7.5},
				{ID: "SERVICE_CHARGE-2", Type: models.ChargeServiceCharge, Label: "SERVICE_CHARGE", Amount: 10},
				{ID: "ROUND_OFF-3", Type: models.ChargeRoundOff, Label: "ROUND OFF", Amount: -0.04},
			},
			Subtotal: fptr(300),
			Total:    fptr(325.00),
		}

		result := ComputeAllocations(receipt, []string{"a", "b"})

		if math.Abs(result.Pretax["a"]-180) > 0.001 || math.Abs(result.Pretax["b"]-120) > 0.001 {
			t.Errorf("pretax = %v, want a=180 b=120", result.Pretax)
		}
		if math.Abs(result.RoundedFinal.Sum()-325.00) > 0.005 {
			t.Errorf("rounded sum = %v, want 325.00", result.RoundedFinal.Sum())
		}
		// Shares track the 3:2 pretax ratio within rounding.
		ratio := result.RoundedFinal["a"] / result.RoundedFinal["b"]
		if math.Abs(ratio-1.5) > 0.01 {
			t.Errorf("a:b ratio = %v, want ~1.5", ratio)
		}
	})

	t.Run("zero participants", func(t *testing.T) {
		receipt := &models.ReceiptData{
			Items: []models.LineItem{
				{ID: "item-0", TotalPrice: 100, Include: true, Owners: []string{}},
			},
			Total: fptr(100),
		}

		result := ComputeAllocations(receipt, nil)

		if len(result.RawFinal) != 0 || len(result.RoundedFinal) != 0 {
			t.Errorf("expected empty final maps, got raw=%v rounded=%v", result.RawFinal, result.RoundedFinal)
		}
	})

	t.Run("no charges still reconciles", func(t *testing.T) {
		receipt := &models.ReceiptData{
			Items: []models.LineItem{
				{ID: "item-0", TotalPrice: 100, Include: true, Owners: []string{"a", "b", "c"}},
			},
			Total: fptr(100),
		}

		result := ComputeAllocations(receipt, []string{"a", "b", "c"})

		if math.Abs(result.RoundedFinal.Sum()-100) > 0.005 {
			t.Errorf("rounded sum = %v, want 100", result.RoundedFinal.Sum())
		}
	})
}

// TestReconciliation checks the sum-to-total invariant across random
// item, owner, and charge combinations.
func TestReconciliation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	people := []string{"a", "b", "c", "d", "e"}

	for trial := 0; trial < 200; trial++ {
		nItems := 1 + rng.Intn(8)
		receipt := &models.ReceiptData{}
		for i := 0; i < nItems; i++ {
			owners := []string{}
			for _, p := range people {
				if rng.Intn(2) == 0 {
					owners = append(owners, p)
				}
			}
			if i == 0 && len(owners) == 0 {
				owners = []string{"a"} // at least one owned item
			}
			receipt.Items = append(receipt.Items, models.LineItem{
				ID:         "item-" + string(rune('0'+i)),
				Quantity:   1 + rng.Intn(3),
				TotalPrice: math.Round(rng.Float64()*50000) / 100,
				Include:    rng.Intn(10) != 0,
				Owners:     owners,
			})
		}
		receipt.Items[0].Include = true

		types := []models.ChargeType{
			models.ChargeCGST, models.ChargeSGST, models.ChargeGST,
			models.ChargeServiceCharge, models.ChargePacking, models.ChargeDelivery,
			models.ChargeRoundOff,
		}
		for i := 0; i < rng.Intn(5); i++ {
			typ := types[rng.Intn(len(types))]
			amount := math.Round(rng.Float64()*5000) / 100
			if typ == models.ChargeRoundOff && rng.Intn(2) == 0 {
				amount = -amount
			}
			receipt.Charges = append(receipt.Charges, models.ChargeLine{Type: typ, Amount: amount})
		}

		total := math.Round(rng.Float64()*100000) / 100
		receipt.Total = &total

		result := ComputeAllocations(receipt, people)
		if math.Abs(result.RoundedFinal.Sum()-total) > 0.005 {
			t.Fatalf("trial %d: rounded sum = %v, want %v (receipt %+v)",
				trial, result.RoundedFinal.Sum(), total, receipt)
		}
	}
}
