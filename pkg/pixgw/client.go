package pixgw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/balcaohq/balcao-api/pkg/apperror"
)

// Config holds the provider credentials and endpoints
type Config struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// Client is an HTTP implementation of Gateway. OAuth tokens are cached with
// expiry by the injected client-credentials TokenSource; there is no
// package-level token state.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a gateway client with its own token source
func NewClient(cfg Config) *Client {
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}

	httpClient := cc.Client(context.Background())
	if cfg.Timeout > 0 {
		httpClient.Timeout = cfg.Timeout
	} else {
		httpClient.Timeout = 10 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		http:    httpClient,
	}
}

type chargeBody struct {
	Calendar struct {
		Expiration int `json:"expiracao"`
	} `json:"calendario"`
	Debtor struct {
		Name     string `json:"nome"`
		Document string `json:"cpf,omitempty"`
	} `json:"devedor"`
	Value struct {
		Original string `json:"original"`
	} `json:"valor"`
	Key           string `json:"chave"`
	CorrelationID string `json:"identificadorLocal,omitempty"`
}

type chargeReply struct {
	TxID      string `json:"txid"`
	QRPayload string `json:"pixCopiaECola"`
}

// CreateCharge registers an immediate charge with the provider
func (c *Client) CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error) {
	body := chargeBody{Key: req.Key, CorrelationID: req.LocalID}
	expiration := req.ExpiresIn
	if expiration == 0 {
		expiration = time.Hour
	}
	body.Calendar.Expiration = int(expiration.Seconds())
	body.Debtor.Name = req.PayerName
	body.Debtor.Document = req.PayerDocument
	body.Value.Original = formatAmount(req.Amount)

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/cob", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, apperror.NewUpstreamError(fmt.Sprintf("pix gateway unreachable: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apperror.NewUpstreamError(fmt.Sprintf("pix gateway returned %d: %s", resp.StatusCode, msg))
	}

	var reply chargeReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, apperror.NewUpstreamError("pix gateway returned malformed charge response")
	}
	if reply.TxID == "" {
		return nil, apperror.NewUpstreamError("pix gateway returned empty transaction id")
	}

	return &ChargeResponse{TxID: reply.TxID, QRPayload: reply.QRPayload}, nil
}

// CancelRefund requests the return of funds for a confirmed transaction
func (c *Client) CancelRefund(ctx context.Context, txID, localID string, amount int64) error {
	body, err := json.Marshal(map[string]string{"valor": formatAmount(amount)})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/v2/pix/%s/devolucao/%s", c.baseURL, txID, localID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return apperror.NewUpstreamError(fmt.Sprintf("pix gateway unreachable: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apperror.NewUpstreamError(fmt.Sprintf("pix refund returned %d: %s", resp.StatusCode, msg))
	}
	return nil
}

// formatAmount renders cents as the provider's decimal string, e.g. 2550 -> "25.50"
func formatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
