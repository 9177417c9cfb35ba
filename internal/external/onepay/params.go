package onepay

import (
	"TourPay/internal/domain/gateway"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/go-querystring/query"
)

const (
	DefaultVersion  = "2"
	DefaultCommand  = "pay"
	DefaultCurrency = "VND"
	DefaultLocale   = "vn"
)

var (
	ErrNamespace    = errors.New("onepay: parameter outside the vpc_/user_ namespace")
	ErrAmount       = errors.New("onepay: amount must be a positive integer of minor units")
	ErrMerchTxnRef  = errors.New("onepay: merchant transaction reference must match ^[A-Za-z0-9-]{1,40}$")
	ErrMissingField = errors.New("onepay: required field missing")
)

// ValidMerchTxnRef reports whether ref is acceptable as vpc_MerchTxnRef.
func ValidMerchTxnRef(ref string) bool {
	return gateway.ValidOrderID(ref)
}

// PaymentRequest is the outbound redirect payload. Amount is in minor
// units (VND x 100).
type PaymentRequest struct {
	Version     string `url:"vpc_Version"`
	Command     string `url:"vpc_Command"`
	Merchant    string `url:"vpc_Merchant"`
	AccessCode  string `url:"vpc_AccessCode"`
	MerchTxnRef string `url:"vpc_MerchTxnRef"`
	OrderInfo   string `url:"vpc_OrderInfo"`
	Amount      int64  `url:"vpc_Amount"`
	Currency    string `url:"vpc_Currency"`
	Locale      string `url:"vpc_Locale"`
	ReturnURL   string `url:"vpc_ReturnURL"`
	TicketNo    string `url:"vpc_TicketNo,omitempty"`

	CustomerEmail string `url:"vpc_Customer_Email,omitempty"`
	CustomerPhone string `url:"vpc_Customer_Phone,omitempty"`
}

// Params encodes the request and checks the result against the wire rules.
func (r PaymentRequest) Params() (Params, error) {
	values, err := query.Values(r)
	if err != nil {
		return nil, fmt.Errorf("encode payment request: %w", err)
	}
	params := ParamsFromValues(values)
	if err := ValidateParams(params); err != nil {
		return nil, err
	}
	return params, nil
}

// ValidateParams enforces the invariants every outbound parameter set must
// satisfy before it is signed.
func ValidateParams(params Params) error {
	for k := range params {
		if !strings.HasPrefix(k, prefixVPC) && !strings.HasPrefix(k, prefixUser) {
			return fmt.Errorf("%w: %s", ErrNamespace, k)
		}
	}

	for _, k := range []string{"vpc_Merchant", "vpc_AccessCode", "vpc_ReturnURL", "vpc_OrderInfo"} {
		if params[k] == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, k)
		}
	}

	amount := params["vpc_Amount"]
	n, err := strconv.ParseInt(amount, 10, 64)
	if err != nil || n <= 0 || strings.ContainsAny(amount, ".+-") {
		return fmt.Errorf("%w: %q", ErrAmount, amount)
	}

	if !ValidMerchTxnRef(params["vpc_MerchTxnRef"]) {
		return fmt.Errorf("%w: %q", ErrMerchTxnRef, params["vpc_MerchTxnRef"])
	}
	return nil
}

// CallbackNotification is a typed view over an inbound notification.
type CallbackNotification struct {
	MerchTxnRef   string
	ResponseCode  string
	Amount        int64 // minor units; 0 when absent or malformed
	TransactionNo string
	Message       string
	OrderInfo     string
	CustomerEmail string
	CustomerPhone string
	SecureHash    string
}

func ParseCallbackNotification(params Params) CallbackNotification {
	amount, err := strconv.ParseInt(params["vpc_Amount"], 10, 64)
	if err != nil || amount < 0 {
		amount = 0
	}
	return CallbackNotification{
		MerchTxnRef:   params["vpc_MerchTxnRef"],
		ResponseCode:  params["vpc_TxnResponseCode"],
		Amount:        amount,
		TransactionNo: params["vpc_TransactionNo"],
		Message:       params["vpc_Message"],
		OrderInfo:     params["vpc_OrderInfo"],
		CustomerEmail: params["vpc_Customer_Email"],
		CustomerPhone: params["vpc_Customer_Phone"],
		SecureHash:    params[FieldSecureHash],
	}
}
