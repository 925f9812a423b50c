package pixgw

import (
	"context"
	"time"
)

// ChargeRequest is a request to create an instant-transfer charge
type ChargeRequest struct {
	LocalID       string // our charge id, sent as the provider correlation id
	Amount        int64  // cents
	Key           string // receiving PIX key
	PayerName     string
	PayerDocument string
	ExpiresIn     time.Duration
}

// ChargeResponse carries the provider-assigned identifiers for a charge
type ChargeResponse struct {
	TxID      string
	QRPayload string
}

// Callback is the confirmation payload delivered out-of-band by the
// provider. It must be authenticated by the shared webhook secret before
// being trusted.
type Callback struct {
	TxID       string    `json:"txid"`
	EndToEndID string    `json:"end_to_end_id"`
	Amount     int64     `json:"amount"`
	Timestamp  time.Time `json:"timestamp"`
}

// Gateway is the provider-agnostic interface the charge reconciler talks
// to. To add a new provider, implement this interface.
type Gateway interface {
	// CreateCharge registers a charge with the provider and returns its
	// external transaction id and copy-paste QR payload.
	CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error)
	// CancelRefund asks the provider to return the funds of a confirmed
	// transaction.
	CancelRefund(ctx context.Context, txID, localID string, amount int64) error
}
