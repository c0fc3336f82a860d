// Package razorpay is a client of the payment gateway used for payment links,
// route transfers and linked accounts.
package razorpay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/rookgm/marketplace/internal/logger"
	"github.com/rookgm/marketplace/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 10 * time.Second
	// maxResponseSize limits gateway response bodies
	maxResponseSize = 1 << 20

	idempotencyHeader = "X-Transfer-Idempotency"
)

// Client talks to the gateway REST API
type Client struct {
	client    *http.Client
	baseURL   string
	keyID     string
	keySecret string
}

// NewClient creates new Client instance
func NewClient(baseURL, keyID, keySecret string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
	}
}

// ToPaise converts an amount in rupees to the smallest currency unit
func ToPaise(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// FromPaise converts an amount in the smallest currency unit to rupees
func FromPaise(paise int64) decimal.Decimal {
	return decimal.New(paise, -2)
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
		Reason      string `json:"reason"`
	} `json:"error"`
}

// do performs request and decodes response body into out.
// 4xx answers are returned as *models.GatewayError.
func (c *Client) do(ctx context.Context, method string, in any, out any, header http.Header, elem ...string) ([]byte, error) {
	u, err := url.JoinPath(c.baseURL, elem...)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("razorpay %s %s: %w: %w", method, u, models.ErrGatewayUnavailable, err)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, err
	}

	logger.Log.Debug("razorpay response",
		zap.String("method", method),
		zap.String("url", u),
		zap.Int("status", resp.StatusCode))

	switch {
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		if out != nil {
			if err := json.Unmarshal(raw, out); err != nil {
				return nil, fmt.Errorf("decode razorpay response: %w", err)
			}
		}
		return raw, nil
	case resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError:
		gwErr := &models.GatewayError{StatusCode: resp.StatusCode}
		var errResp errorResponse
		if err := json.Unmarshal(raw, &errResp); err == nil {
			gwErr.Code = errResp.Error.Code
			gwErr.Description = errResp.Error.Description
		}
		if gwErr.Description == "" {
			gwErr.Description = http.StatusText(resp.StatusCode)
		}
		return nil, gwErr
	default:
		return nil, fmt.Errorf("razorpay %s %s: %w: unexpected status %d", method, u, models.ErrGatewayUnavailable, resp.StatusCode)
	}
}

type transferItem struct {
	Account  string            `json:"account"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Notes    map[string]string `json:"notes,omitempty"`
	OnHold   bool              `json:"on_hold"`
}

type transferEntity struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Status    string `json:"status"`
}

func (te transferEntity) toModel(raw []byte) *models.Transfer {
	return &models.Transfer{
		ID:        te.ID,
		Source:    te.Source,
		Recipient: te.Recipient,
		Amount:    FromPaise(te.Amount),
		Currency:  te.Currency,
		Status:    te.Status,
		Raw:       raw,
	}
}

// CreateTransfer transfers funds of captured payment to linked account
// POST /v1/payments/{payment_id}/transfers
func (c *Client) CreateTransfer(ctx context.Context, tr models.TransferRequest) (*models.Transfer, error) {
	in := struct {
		Transfers []transferItem `json:"transfers"`
	}{
		Transfers: []transferItem{{
			Account:  tr.Account,
			Amount:   ToPaise(tr.Amount),
			Currency: tr.Currency,
			Notes:    tr.Notes,
		}},
	}

	header := http.Header{}
	if tr.IdempotencyKey != "" {
		header.Set(idempotencyHeader, tr.IdempotencyKey)
	}

	var out struct {
		Items []json.RawMessage `json:"items"`
	}
	if _, err := c.do(ctx, http.MethodPost, in, &out, header, "v1", "payments", tr.PaymentID, "transfers"); err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("razorpay: transfer response has no items")
	}

	var te transferEntity
	if err := json.Unmarshal(out.Items[0], &te); err != nil {
		return nil, err
	}

	return te.toModel(out.Items[0]), nil
}

// ReverseTransfer reverses transfer. A nil amount reverses the full transfer.
// POST /v1/transfers/{id}/reversals
func (c *Client) ReverseTransfer(ctx context.Context, transferID string, amount *decimal.Decimal) (*models.Reversal, error) {
	in := map[string]any{}
	if amount != nil {
		in["amount"] = ToPaise(*amount)
	}

	var out struct {
		ID         string `json:"id"`
		TransferID string `json:"transfer_id"`
		Amount     int64  `json:"amount"`
		Currency   string `json:"currency"`
	}
	raw, err := c.do(ctx, http.MethodPost, in, &out, nil, "v1", "transfers", transferID, "reversals")
	if err != nil {
		return nil, err
	}

	return &models.Reversal{
		ID:         out.ID,
		TransferID: out.TransferID,
		Amount:     FromPaise(out.Amount),
		Currency:   out.Currency,
		Raw:        raw,
	}, nil
}

// GetTransfer returns transfer
// GET /v1/transfers/{id}
func (c *Client) GetTransfer(ctx context.Context, transferID string) (*models.Transfer, error) {
	var te transferEntity
	raw, err := c.do(ctx, http.MethodGet, nil, &te, nil, "v1", "transfers", transferID)
	if err != nil {
		return nil, err
	}
	return te.toModel(raw), nil
}

// CreateLinkedAccount registers vendor as route linked account
// POST /v2/accounts
func (c *Client) CreateLinkedAccount(ctx context.Context, ar models.LinkedAccountRequest) (*models.LinkedAccount, error) {
	in := map[string]any{
		"email":               ar.Email,
		"phone":               ar.Phone,
		"type":                "route",
		"reference_id":        ar.ReferenceID,
		"legal_business_name": ar.LegalBusinessName,
		"business_type":       ar.BusinessType,
		"contact_name":        ar.LegalBusinessName,
	}

	var out models.LinkedAccount
	if _, err := c.do(ctx, http.MethodPost, in, &out, nil, "v2", "accounts"); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateLinkedAccount sends KYC details of linked account
// PATCH /v2/accounts/{id}
func (c *Client) UpdateLinkedAccount(ctx context.Context, accountID string, kyc models.KYCDetails) (*models.LinkedAccount, error) {
	legal := map[string]string{"pan": kyc.PAN}
	if kyc.GSTIN != "" {
		legal["gst"] = kyc.GSTIN
	}

	var out models.LinkedAccount
	if _, err := c.do(ctx, http.MethodPatch, map[string]any{"legal_info": legal}, &out, nil, "v2", "accounts", accountID); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePaymentLink creates hosted payment page
// POST /v1/payment_links
func (c *Client) CreatePaymentLink(ctx context.Context, pr models.PaymentLinkRequest) (*models.PaymentLink, error) {
	in := map[string]any{
		"amount":       ToPaise(pr.Amount),
		"currency":     pr.Currency,
		"description":  pr.Description,
		"reference_id": pr.ReferenceID,
		"notes":        pr.Notes,
	}
	if pr.CallbackURL != "" {
		in["callback_url"] = pr.CallbackURL
		in["callback_method"] = "get"
	}

	var out models.PaymentLink
	if _, err := c.do(ctx, http.MethodPost, in, &out, nil, "v1", "payment_links"); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPayment returns payment
// GET /v1/payments/{id}
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	var out struct {
		ID      string         `json:"id"`
		OrderID string         `json:"order_id"`
		Status  string         `json:"status"`
		Amount  int64          `json:"amount"`
		Notes   map[string]any `json:"notes"`
	}
	if _, err := c.do(ctx, http.MethodGet, nil, &out, nil, "v1", "payments", paymentID); err != nil {
		return nil, err
	}

	return &models.Payment{
		ID:      out.ID,
		OrderID: out.OrderID,
		Status:  out.Status,
		Amount:  FromPaise(out.Amount),
		Notes:   out.Notes,
	}, nil
}

// OrderIDFromNotes extracts the internal order id stored in payment notes
func OrderIDFromNotes(notes map[string]any) (uint64, bool) {
	v, ok := notes["order_id"]
	if !ok {
		return 0, false
	}
	switch id := v.(type) {
	case string:
		n, err := strconv.ParseUint(id, 10, 64)
		return n, err == nil
	case float64:
		return uint64(id), id > 0
	}
	return 0, false
}
