package entity

// ReceiptOrderLine summarizes one order on an account receipt.
type ReceiptOrderLine struct {
	OrderID    string  `json:"order_id"`
	SequenceNo *int    `json:"sequence_no,omitempty"`
	Subtotal   float64 `json:"subtotal"`
	Tip        float64 `json:"tip"`
	Products   int     `json:"products"`
}

// AccountReceipt is a value object aggregating the orders and payments of a
// tab. It is NOT a database entity — it is composed at read time and trusted
// as ground truth by the close invariant. All totals are derived from int64
// cents and rendered as decimals only here.
type AccountReceipt struct {
	AccountID     string             `json:"account_id"`
	Description   string             `json:"description"`
	CustomerName  string             `json:"customer_name,omitempty"`
	Orders        []ReceiptOrderLine `json:"orders"`
	TotalOrder    float64            `json:"total_order"`
	TotalPayment  float64            `json:"total_payment"`
	TotalTip      float64            `json:"total_tip"`
	TotalProducts int                `json:"total_products"`
	SubTotal      float64            `json:"sub_total"`
	AllTipped     bool               `json:"all_tipped"`

	// Cents totals retained for exact comparisons; excluded from JSON.
	TotalOrderCents   int64 `json:"-"`
	TotalPaymentCents int64 `json:"-"`
	TotalTipCents     int64 `json:"-"`
}

// Balanced reports whether payments exactly cover orders, compared in
// integer cents. The account close invariant.
func (r *AccountReceipt) Balanced() bool {
	return r.TotalPaymentCents == r.TotalOrderCents
}
