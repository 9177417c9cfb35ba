package onepay

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrInvalidBaseURL = errors.New("onepay: invalid payment base URL")

// BuildPaymentURL signs params and appends them, plus vpc_SecureHash, to
// baseURL as a query string.
func BuildPaymentURL(params Params, baseURL, secretHex string) (string, error) {
	s, err := NewSigner(secretHex)
	if err != nil {
		return "", err
	}
	return s.PaymentURL(params, baseURL)
}

func (s Signer) PaymentURL(params Params, baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	values := make(url.Values, len(params)+1)
	for k, v := range params {
		if k == FieldSecureHash {
			continue
		}
		values.Set(k, v)
	}
	values.Set(FieldSecureHash, s.Sign(params))

	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
		if strings.HasSuffix(baseURL, "?") || strings.HasSuffix(baseURL, "&") {
			sep = ""
		}
	}
	return baseURL + sep + values.Encode(), nil
}

// ParamsFromValues flattens a parsed query or form. For repeated keys the
// first value wins.
func ParamsFromValues(values url.Values) Params {
	out := make(Params, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out
}
