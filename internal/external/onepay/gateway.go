package onepay

import (
	"TourPay/internal/domain/gateway"
	"context"
	"errors"
	"fmt"
	"net/url"
)

// Config holds merchant credentials and request defaults.
type Config struct {
	Merchant   string
	AccessCode string
	HashSecret string
	BaseURL    string
	Locale     string
	Currency   string
	Version    string
}

// Gateway implements gateway.Provider for OnePay. A Gateway built from an
// incomplete Config is still usable: every signing operation reports
// gateway.ErrConfiguration and every callback is treated as unverified.
type Gateway struct {
	cfg       Config
	signer    Signer
	configErr error
}

var _ gateway.Provider = (*Gateway)(nil)

func NewGateway(cfg Config) *Gateway {
	if cfg.Locale == "" {
		cfg.Locale = DefaultLocale
	}
	if cfg.Currency == "" {
		cfg.Currency = DefaultCurrency
	}
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}

	g := &Gateway{cfg: cfg}
	g.configErr = g.validate()
	return g
}

func (g *Gateway) validate() error {
	var missing []string
	if g.cfg.Merchant == "" {
		missing = append(missing, "merchant")
	}
	if g.cfg.AccessCode == "" {
		missing = append(missing, "access code")
	}
	if g.cfg.BaseURL == "" {
		missing = append(missing, "payment URL")
	}
	if g.cfg.HashSecret == "" {
		missing = append(missing, "hash secret")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %v", gateway.ErrConfiguration, missing)
	}

	if u, err := url.Parse(g.cfg.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %w", gateway.ErrConfiguration, ErrInvalidBaseURL)
	}

	signer, err := NewSigner(g.cfg.HashSecret)
	if err != nil {
		return fmt.Errorf("%w: %w", gateway.ErrConfiguration, err)
	}
	g.signer = signer
	return nil
}

func (g *Gateway) CheckConfig() error {
	return g.configErr
}

func (g *Gateway) PaymentURL(_ context.Context, req gateway.PaymentRequest) (string, error) {
	if g.configErr != nil {
		return "", g.configErr
	}

	wire := PaymentRequest{
		Version:       g.cfg.Version,
		Command:       DefaultCommand,
		Merchant:      g.cfg.Merchant,
		AccessCode:    g.cfg.AccessCode,
		MerchTxnRef:   req.OrderID,
		OrderInfo:     req.OrderInfo,
		Amount:        req.Amount * 100,
		Currency:      g.cfg.Currency,
		Locale:        g.cfg.Locale,
		ReturnURL:     req.ReturnURL,
		TicketNo:      req.ClientIP,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
	}

	params, err := wire.Params()
	if err != nil {
		return "", errors.Join(gateway.ErrInvalidRequest, err)
	}

	paymentURL, err := g.signer.PaymentURL(params, g.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", gateway.ErrConfiguration, err)
	}
	return paymentURL, nil
}

func (g *Gateway) ParseCallback(raw map[string]string) (gateway.Callback, error) {
	params := Params(raw)
	n := ParseCallbackNotification(params)

	cb := gateway.Callback{
		OrderID:       n.MerchTxnRef,
		ResponseCode:  n.ResponseCode,
		Amount:        n.Amount / 100,
		TransactionNo: n.TransactionNo,
		Message:       n.Message,
		OrderInfo:     n.OrderInfo,
		CustomerEmail: n.CustomerEmail,
		CustomerPhone: n.CustomerPhone,
		SecureHash:    n.SecureHash,
	}

	if g.configErr != nil {
		return cb, g.configErr
	}
	cb.Verified = g.signer.Verify(params)
	return cb, nil
}
