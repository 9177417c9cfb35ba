// Package onepay implements the OnePay "vpc" wire format: canonical
// parameter signing, payment URL construction and callback parsing.
package onepay

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
)

const (
	FieldSecureHash     = "vpc_SecureHash"
	FieldSecureHashType = "vpc_SecureHashType"

	prefixVPC  = "vpc_"
	prefixUser = "user_"
)

var ErrInvalidSecret = errors.New("onepay: hash secret must be a non-empty even-length hex string")

// Params is the flat key/value set exchanged with the gateway.
type Params map[string]string

// Clone returns a shallow copy.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

func isSigned(key, value string) bool {
	if value == "" {
		return false
	}
	if key == FieldSecureHash || key == FieldSecureHashType {
		return false
	}
	return strings.HasPrefix(key, prefixVPC) || strings.HasPrefix(key, prefixUser)
}

// Canonicalize builds the string the signature is computed over: signed
// keys in byte order, joined as key=value with '&', values unescaped.
func Canonicalize(params Params) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if isSigned(k, v) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}

// Sign returns the uppercase hex HMAC-SHA256 of Canonicalize(params).
func Sign(params Params, secretHex string) (string, error) {
	s, err := NewSigner(secretHex)
	if err != nil {
		return "", err
	}
	return s.Sign(params), nil
}

// Verify reports whether params carry a signature matching their content.
// A missing signature is never valid.
func Verify(params Params, secretHex string) (bool, error) {
	s, err := NewSigner(secretHex)
	if err != nil {
		return false, err
	}
	return s.Verify(params), nil
}

// Signer holds a decoded merchant key.
type Signer struct {
	key []byte
}

func NewSigner(secretHex string) (Signer, error) {
	if secretHex == "" || len(secretHex)%2 != 0 {
		return Signer{}, ErrInvalidSecret
	}
	key, err := hex.DecodeString(secretHex)
	if err != nil || len(key) == 0 {
		return Signer{}, ErrInvalidSecret
	}
	return Signer{key: key}, nil
}

func (s Signer) Sign(params Params) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(Canonicalize(params)))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}

func (s Signer) Verify(params Params) bool {
	if len(s.key) == 0 {
		return false
	}
	got, ok := params[FieldSecureHash]
	if !ok || got == "" {
		return false
	}
	want := s.Sign(params)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
