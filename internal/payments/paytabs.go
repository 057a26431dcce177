// Package payments talks to the PayTabs hosted payment page API.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"brightscope/internal/config"
)

// ApprovedStatus is the response_status PayTabs reports for an authorised transaction.
const ApprovedStatus = "A"

// ErrNotConfigured is returned when gateway credentials are missing.
var ErrNotConfigured = errors.New("payment gateway not configured")

// SessionRequest describes the payment page to open.
type SessionRequest struct {
	OrderID       string
	Amount        decimal.Decimal
	Currency      string
	CustomerName  string
	CustomerEmail string
}

// Session is an opened payment page.
type Session struct {
	TranRef     string `json:"tran_ref"`
	RedirectURL string `json:"redirect_url"`
}

// Result is the authoritative state of a transaction as reported by the gateway.
type Result struct {
	TranRef         string
	CartID          string
	ResponseStatus  string
	ResponseCode    string
	ResponseMessage string
	TransactionTime time.Time
}

// Approved reports whether the gateway approved the transaction.
func (r Result) Approved() bool {
	return r.ResponseStatus == ApprovedStatus
}

// EventSeq orders gateway reports for one transaction. It is the gateway's
// transaction timestamp in milliseconds, or zero when the gateway omits it.
func (r Result) EventSeq() int64 {
	if r.TransactionTime.IsZero() {
		return 0
	}
	return r.TransactionTime.UnixMilli()
}

// Gateway opens payment sessions and queries transaction outcomes.
type Gateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	Query(ctx context.Context, tranRef string) (*Result, error)
}

// PayTabs is the HTTP client for the PayTabs PT2 API.
type PayTabs struct {
	cfg        config.PayTabsConfig
	profileID  int64
	httpClient *http.Client
}

// NewPayTabs creates a gateway client. A nil httpClient uses one with the configured timeout.
func NewPayTabs(cfg config.PayTabsConfig, httpClient *http.Client) *PayTabs {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout()}
	}
	profileID, _ := strconv.ParseInt(strings.TrimSpace(cfg.ProfileID), 10, 64)
	return &PayTabs{
		cfg:        cfg,
		profileID:  profileID,
		httpClient: httpClient,
	}
}

type customerDetails struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Street1 string `json:"street1"`
	City    string `json:"city"`
	Country string `json:"country"`
	IP      string `json:"ip"`
}

type paymentRequest struct {
	ProfileID       int64           `json:"profile_id"`
	TranType        string          `json:"tran_type"`
	TranClass       string          `json:"tran_class"`
	CartID          string          `json:"cart_id"`
	CartCurrency    string          `json:"cart_currency"`
	CartAmount      decimal.Decimal `json:"cart_amount"`
	CartDescription string          `json:"cart_description"`
	Callback        string          `json:"callback,omitempty"`
	Return          string          `json:"return,omitempty"`
	CustomerDetails customerDetails `json:"customer_details"`
}

type queryRequest struct {
	ProfileID int64  `json:"profile_id"`
	TranRef   string `json:"tran_ref"`
}

type queryResponse struct {
	TranRef       string `json:"tran_ref"`
	CartID        string `json:"cart_id"`
	PaymentResult struct {
		ResponseStatus  string `json:"response_status"`
		ResponseCode    string `json:"response_code"`
		ResponseMessage string `json:"response_message"`
		TransactionTime string `json:"transaction_time"`
	} `json:"payment_result"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreateSession opens a hosted payment page for the order.
func (p *PayTabs) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	body := paymentRequest{
		ProfileID:       p.profileID,
		TranType:        "sale",
		TranClass:       "ecom",
		CartID:          req.OrderID,
		CartCurrency:    req.Currency,
		CartAmount:      req.Amount,
		CartDescription: fmt.Sprintf("Payment for order %s", req.OrderID),
		Callback:        p.cfg.CallbackURL,
		Return:          p.cfg.ReturnURL,
		CustomerDetails: customerDetails{
			Name:    req.CustomerName,
			Email:   req.CustomerEmail,
			Street1: "Not Provided",
			City:    "Dubai",
			Country: "AE",
			IP:      "0.0.0.0",
		},
	}

	var session Session
	if err := p.post(ctx, "/payment/request", body, &session); err != nil {
		return nil, err
	}
	if session.TranRef == "" || session.RedirectURL == "" {
		return nil, errors.New("paytabs response missing tran_ref or redirect_url")
	}
	return &session, nil
}

// Query fetches the current state of a transaction.
func (p *PayTabs) Query(ctx context.Context, tranRef string) (*Result, error) {
	var resp queryResponse
	if err := p.post(ctx, "/payment/query", queryRequest{ProfileID: p.profileID, TranRef: tranRef}, &resp); err != nil {
		return nil, err
	}

	result := &Result{
		TranRef:         resp.TranRef,
		CartID:          resp.CartID,
		ResponseStatus:  resp.PaymentResult.ResponseStatus,
		ResponseCode:    resp.PaymentResult.ResponseCode,
		ResponseMessage: resp.PaymentResult.ResponseMessage,
	}
	if result.TranRef == "" {
		result.TranRef = tranRef
	}
	if ts := resp.PaymentResult.TransactionTime; ts != "" {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			result.TransactionTime = t
		}
	}
	return result, nil
}

func (p *PayTabs) post(ctx context.Context, path string, payload, out any) error {
	if p.cfg.ServerKey == "" || p.profileID == 0 {
		return ErrNotConfigured
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "failed to marshal request data")
	}

	url := strings.TrimRight(p.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Authorization", p.cfg.ServerKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "paytabs request %s failed", path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return errors.Wrap(err, "failed to read paytabs response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		_ = json.Unmarshal(raw, &apiErr)
		return errors.Errorf("paytabs API error (status %d, code %d): %s", resp.StatusCode, apiErr.Code, apiErr.Message)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrap(err, "failed to decode paytabs response")
	}
	return nil
}
