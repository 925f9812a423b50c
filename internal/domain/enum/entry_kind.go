package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// EntryKind tags a ledger entry as an original payment or the negated
// compensating entry written by a refund. The ledger is append-only:
// summing both kinds yields the true net balance.
type EntryKind int

const (
	EntryOriginal     EntryKind = 0
	EntryCompensating EntryKind = 1
)

func (k EntryKind) String() string {
	return [...]string{"original", "compensating"}[k]
}

func (k EntryKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *EntryKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*k = EntryKind(i)
		return nil
	}
	switch str {
	case "original":
		*k = EntryOriginal
	case "compensating":
		*k = EntryCompensating
	}
	return nil
}

func (k EntryKind) Value() (driver.Value, error) {
	return int64(k), nil
}

func (k *EntryKind) Scan(value interface{}) error {
	if value == nil {
		*k = EntryOriginal
		return nil
	}
	switch v := value.(type) {
	case int64:
		*k = EntryKind(v)
	case int:
		*k = EntryKind(v)
	}
	return nil
}
