package resend

import (
	"TourPay/internal/domain/callback"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.resend.com"

var _ callback.ReceiptSender = (*Client)(nil)

var ErrNoRecipient = errors.New("receipt has no recipient")

// Client sends booking receipts through the Resend email API. The customer
// gets the receipt; the operator address, if set, always gets a copy.
type Client struct {
	BaseURL  string
	APIKey   string
	From     string
	Operator string
	HTTP     *http.Client
}

func New(baseURL, apiKey, from, operator string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		APIKey:   apiKey,
		From:     from,
		Operator: operator,
		HTTP:     httpClient,
	}
}

type sendReq struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Bcc     []string `json:"bcc,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendResp struct {
	ID string `json:"id,omitempty"`
}

func (c *Client) Name() string {
	return "resend"
}

func (c *Client) recipients(r callback.Receipt) (to, bcc []string) {
	if r.Order.Customer.Email != "" {
		to = append(to, r.Order.Customer.Email)
		if c.Operator != "" && c.Operator != r.Order.Customer.Email {
			bcc = append(bcc, c.Operator)
		}
		return to, bcc
	}
	if c.Operator != "" {
		to = append(to, c.Operator)
	}
	return to, nil
}

func (c *Client) SendReceipt(ctx context.Context, r callback.Receipt) error {
	to, bcc := c.recipients(r)
	if len(to) == 0 {
		return fmt.Errorf("order %s: %w", r.Order.ID, ErrNoRecipient)
	}

	html, err := RenderReceipt(r)
	if err != nil {
		return err
	}

	j, err := json.Marshal(sendReq{
		From:    c.From,
		To:      to,
		Bcc:     bcc,
		Subject: Subject(r),
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/emails", bytes.NewReader(j))
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	httpReq.Header.Set("Idempotency-Key", "receipt/"+r.Order.ID)

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("provider %s: %s", resp.Status, string(raw))
	}

	var out sendResp
	_ = json.Unmarshal(raw, &out)
	slog.DebugContext(ctx, "Receipt email accepted", "provider_id", out.ID)
	return nil
}
