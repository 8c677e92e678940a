package models

// ChargeType classifies a receipt-level charge beyond item prices.
// The set is closed; a charge never changes type after extraction.
type ChargeType string

const (
	ChargeCGST          ChargeType = "CGST"
	ChargeSGST          ChargeType = "SGST"
	ChargeIGST          ChargeType = "IGST"
	ChargeGST           ChargeType = "GST"
	ChargeServiceCharge ChargeType = "SERVICE_CHARGE"
	ChargePacking       ChargeType = "PACKING"
	ChargeDelivery      ChargeType = "DELIVERY"
	ChargeRoundOff      ChargeType = "ROUND_OFF"
	ChargeOther         ChargeType = "OTHER"
)

// IsTax reports whether the charge is a GST-family tax.
func (t ChargeType) IsTax() bool {
	switch t {
	case ChargeCGST, ChargeSGST, ChargeIGST, ChargeGST:
		return true
	}
	return false
}

// IsFee reports whether the charge is a service-style fee
// (everything that is neither a tax nor a round-off).
func (t ChargeType) IsFee() bool {
	switch t {
	case ChargeServiceCharge, ChargePacking, ChargeDelivery, ChargeOther:
		return true
	}
	return false
}

// ChargeLine is one matched charge occurrence on a receipt.
// Round-off amounts may be negative.
type ChargeLine struct {
	ID     string     `json:"id"`
	Type   ChargeType `json:"type"`
	Label  string     `json:"label"`
	Amount float64    `json:"amount"`
}

// LineItem is a single billed item on a receipt.
//
// UnitPrice is always derived from TotalPrice / Quantity by the parser,
// never the other way around. Owners starts empty and is filled in by
// the assignment step; an item with no owners or Include == false is
// excluded from all allocation math.
type LineItem struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Quantity   int      `json:"quantity"`
	UnitPrice  float64  `json:"unit_price"`
	TotalPrice float64  `json:"total_price"`
	Include    bool     `json:"include"`
	Owners     []string `json:"owners"`
}

// ReceiptMeta holds best-effort metadata scraped from the receipt header.
// Empty strings mean "not found"; absence never blocks assembly.
type ReceiptMeta struct {
	Merchant string `json:"merchant,omitempty"`
	GSTIN    string `json:"gstin,omitempty"`
	Date     string `json:"date,omitempty"`
}

// ReceiptData is the structured form of one parsed receipt.
//
// Subtotal and Total are nil when the receipt text never stated them and
// the assembler could not derive them. Consumers must treat nil as
// "unknown", not zero.
type ReceiptData struct {
	Items    []LineItem   `json:"items"`
	Charges  []ChargeLine `json:"charges"`
	Subtotal *float64     `json:"subtotal,omitempty"`
	Total    *float64     `json:"total,omitempty"`
	Meta     ReceiptMeta  `json:"meta"`
}

// Item returns the item with the given ID, or nil.
func (r *ReceiptData) Item(id string) *LineItem {
	for i := range r.Items {
		if r.Items[i].ID == id {
			return &r.Items[i]
		}
	}
	return nil
}
