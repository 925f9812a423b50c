package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// AccountStatus represents the lifecycle state of a customer tab
type AccountStatus int

const (
	AccountStatusOpen        AccountStatus = 0
	AccountStatusClosed      AccountStatus = 1
	AccountStatusUnderReview AccountStatus = 2
)

func (s AccountStatus) String() string {
	return [...]string{"open", "closed", "under-review"}[s]
}

func (s AccountStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *AccountStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = AccountStatus(i)
		return nil
	}
	switch str {
	case "open":
		*s = AccountStatusOpen
	case "closed":
		*s = AccountStatusClosed
	case "under-review":
		*s = AccountStatusUnderReview
	}
	return nil
}

func (s AccountStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *AccountStatus) Scan(value interface{}) error {
	if value == nil {
		*s = AccountStatusOpen
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = AccountStatus(v)
	case int:
		*s = AccountStatus(v)
	}
	return nil
}
