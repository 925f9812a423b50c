package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentForm represents the settlement form of a ledger entry
type PaymentForm int

const (
	PaymentFormCash   PaymentForm = 0
	PaymentFormDebit  PaymentForm = 1
	PaymentFormCredit PaymentForm = 2
	PaymentFormPix    PaymentForm = 3
)

func (f PaymentForm) String() string {
	return [...]string{"cash", "debit", "credit", "pix"}[f]
}

// ParsePaymentForm converts a form name to its enum value
func ParsePaymentForm(s string) (PaymentForm, error) {
	switch s {
	case "cash":
		return PaymentFormCash, nil
	case "debit":
		return PaymentFormDebit, nil
	case "credit":
		return PaymentFormCredit, nil
	case "pix":
		return PaymentFormPix, nil
	}
	return PaymentFormCash, fmt.Errorf("unknown payment form %q", s)
}

func (f PaymentForm) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

func (f *PaymentForm) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*f = PaymentForm(i)
		return nil
	}
	switch str {
	case "cash":
		*f = PaymentFormCash
	case "debit":
		*f = PaymentFormDebit
	case "credit":
		*f = PaymentFormCredit
	case "pix":
		*f = PaymentFormPix
	}
	return nil
}

func (f PaymentForm) Value() (driver.Value, error) {
	return int64(f), nil
}

func (f *PaymentForm) Scan(value interface{}) error {
	if value == nil {
		*f = PaymentFormCash
		return nil
	}
	switch v := value.(type) {
	case int64:
		*f = PaymentForm(v)
	case int:
		*f = PaymentForm(v)
	}
	return nil
}
