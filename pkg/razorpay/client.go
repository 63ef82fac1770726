// Package razorpay talks to the Razorpay orders API and verifies checkout signatures.
package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "https://api.razorpay.com"

type Order struct {
	ID       string `json:"id"`
	Entity   string `json:"entity"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type OrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

type Options struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Timeout   time.Duration
}

type Client struct {
	http   *resty.Client
	secret string
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 15 * time.Second
	}

	rc := resty.New().
		SetBaseURL(opts.BaseURL).
		SetBasicAuth(opts.KeyID, opts.KeySecret).
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{http: rc, secret: opts.KeySecret}
}

func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	var (
		order  Order
		failed apiError
	)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&order).
		SetError(&failed).
		Post("/v1/orders")
	if err != nil {
		return nil, fmt.Errorf("razorpay create order: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("razorpay create order: status %d: %s", resp.StatusCode(), failed.Error.Description)
	}
	return &order, nil
}

func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(orderID, paymentID, signature, c.secret)
}

// Signature is the hex HMAC-SHA256 of "orderID|paymentID" keyed with the API secret.
func Signature(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func VerifySignature(orderID, paymentID, signature, secret string) bool {
	expected := Signature(orderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
