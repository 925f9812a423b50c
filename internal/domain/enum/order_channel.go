package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// OrderChannel represents the sales context an order is placed through
type OrderChannel int

const (
	ChannelCounter  OrderChannel = 0
	ChannelAccount  OrderChannel = 1
	ChannelDelivery OrderChannel = 2
	ChannelPickup   OrderChannel = 3
)

func (ch OrderChannel) String() string {
	return [...]string{"counter", "account", "delivery", "pickup"}[ch]
}

// ParseOrderChannel converts a channel name to its enum value
func ParseOrderChannel(s string) (OrderChannel, error) {
	switch s {
	case "counter":
		return ChannelCounter, nil
	case "account":
		return ChannelAccount, nil
	case "delivery":
		return ChannelDelivery, nil
	case "pickup":
		return ChannelPickup, nil
	}
	return ChannelCounter, fmt.Errorf("unknown order channel %q", s)
}

func (ch OrderChannel) MarshalJSON() ([]byte, error) {
	return json.Marshal(ch.String())
}

func (ch *OrderChannel) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*ch = OrderChannel(i)
		return nil
	}
	switch str {
	case "counter":
		*ch = ChannelCounter
	case "account":
		*ch = ChannelAccount
	case "delivery":
		*ch = ChannelDelivery
	case "pickup":
		*ch = ChannelPickup
	}
	return nil
}

func (ch OrderChannel) Value() (driver.Value, error) {
	return int64(ch), nil
}

func (ch *OrderChannel) Scan(value interface{}) error {
	if value == nil {
		*ch = ChannelCounter
		return nil
	}
	switch v := value.(type) {
	case int64:
		*ch = OrderChannel(v)
	case int:
		*ch = OrderChannel(v)
	}
	return nil
}
