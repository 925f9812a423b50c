package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// MovementType represents a manual cash session movement
type MovementType int

const (
	MovementSupply   MovementType = 0
	MovementWithdraw MovementType = 1
)

// ParseMovementType parses a movement type name
func ParseMovementType(s string) (MovementType, error) {
	switch s {
	case "supply":
		return MovementSupply, nil
	case "withdraw":
		return MovementWithdraw, nil
	default:
		return 0, fmt.Errorf("invalid movement type: %s", s)
	}
}

func (t MovementType) String() string {
	return [...]string{"supply", "withdraw"}[t]
}

func (t MovementType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *MovementType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = MovementType(i)
		return nil
	}
	switch str {
	case "supply":
		*t = MovementSupply
	case "withdraw":
		*t = MovementWithdraw
	}
	return nil
}

func (t MovementType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *MovementType) Scan(value interface{}) error {
	if value == nil {
		*t = MovementSupply
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = MovementType(v)
	case int:
		*t = MovementType(v)
	}
	return nil
}
