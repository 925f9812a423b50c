package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ChargeStatus represents the state of an asynchronously confirmed charge.
// Both finished and cancelled are terminal.
type ChargeStatus int

const (
	ChargeStatusProcessing ChargeStatus = 0
	ChargeStatusFinished   ChargeStatus = 1
	ChargeStatusCancelled  ChargeStatus = 2
)

// ParseChargeStatus parses a charge status name
func ParseChargeStatus(s string) (ChargeStatus, error) {
	switch s {
	case "processing":
		return ChargeStatusProcessing, nil
	case "finished":
		return ChargeStatusFinished, nil
	case "cancelled":
		return ChargeStatusCancelled, nil
	default:
		return 0, fmt.Errorf("invalid charge status: %s", s)
	}
}

func (s ChargeStatus) String() string {
	return [...]string{"processing", "finished", "cancelled"}[s]
}

// Terminal reports whether no further transitions are allowed from s.
func (s ChargeStatus) Terminal() bool {
	return s != ChargeStatusProcessing
}

func (s ChargeStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ChargeStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ChargeStatus(i)
		return nil
	}
	switch str {
	case "processing":
		*s = ChargeStatusProcessing
	case "finished":
		*s = ChargeStatusFinished
	case "cancelled":
		*s = ChargeStatusCancelled
	}
	return nil
}

func (s ChargeStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ChargeStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ChargeStatusProcessing
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = ChargeStatus(v)
	case int:
		*s = ChargeStatus(v)
	}
	return nil
}
