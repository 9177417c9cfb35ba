package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	AuditOpenSearch = "opensearch"

	ReceiptLog    = "log"
	ReceiptResend = "resend"
	ReceiptKafka  = "kafka"
)

type OnePay struct {
	Merchant   string `env:"MERCHANT"`
	AccessCode string `env:"ACCESS_CODE"`
	HashSecret string `env:"HASH_SECRET"`
	URL        string `env:"URL" envDefault:"https://mtf.onepay.vn/paygate/vpcpay.op"`
	Locale     string `env:"LOCALE" envDefault:"vn"`
	Currency   string `env:"CURRENCY" envDefault:"VND"`
	Version    string `env:"VERSION" envDefault:"2"`
}

type Config struct {
	Port      int    `env:"PORT" envDefault:"3000"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Storage is "postgres" or "memory".
	Storage   string `env:"STORAGE" envDefault:"postgres"`
	PgURL     string `env:"PG_URL"`
	PgPoolMax int    `env:"PG_POOL_MAX" envDefault:"10"`

	// TrustedProxies are the IPs or CIDRs whose X-Forwarded-For is believed
	// when resolving the client IP. Empty trusts no proxy.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
	// OperatorToken guards the /internal order reads. Empty locks them.
	OperatorToken string `env:"OPERATOR_TOKEN"`

	PublicBaseURL string `env:"PUBLIC_BASE_URL,required"`
	SuccessPath   string `env:"SUCCESS_PATH" envDefault:"/booking/success"`
	FailedPath    string `env:"FAILED_PATH" envDefault:"/booking/failed"`

	OnePay OnePay `envPrefix:"ONEPAY_"`

	StoreTimeout    time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`
	ReceiptTimeout  time.Duration `env:"RECEIPT_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	TourCacheTTL      time.Duration `env:"TOUR_CACHE_TTL" envDefault:"5m"`
	TourCacheMaxStale time.Duration `env:"TOUR_CACHE_MAX_STALE" envDefault:"1h"`

	// ReceiptMode is "log", "resend" or "kafka".
	ReceiptMode             string        `env:"RECEIPT_MODE" envDefault:"log"`
	ResendAPIKey            string        `env:"RESEND_API_KEY"`
	ResendBaseURL           string        `env:"RESEND_BASE_URL" envDefault:"https://api.resend.com"`
	HTTPResendClientTimeout time.Duration `env:"HTTP_RESEND_CLIENT_TIMEOUT" envDefault:"10s"`
	ReceiptFrom             string        `env:"RECEIPT_FROM" envDefault:"onboarding@resend.dev"`
	AdminEmail              string        `env:"ADMIN_EMAIL"`

	KafkaBrokers       []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaReceiptsTopic string   `env:"KAFKA_RECEIPTS_TOPIC" envDefault:"booking.receipts"`

	// AuditSink is "postgres", "opensearch" or "memory"; empty follows Storage.
	AuditSink                string   `env:"AUDIT_SINK"`
	OpensearchUrls           []string `env:"OPENSEARCH_URLS" envSeparator:","`
	OpensearchIndexCallbacks string   `env:"OPENSEARCH_INDEX_CALLBACKS" envDefault:"callback-events"`
}

func New() (Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}
	if c.AuditSink == "" {
		c.AuditSink = c.Storage
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate checks the combinations env tags cannot express. Gateway
// credentials are not checked here: a missing secret is reported by
// readiness and by every checkout, not at startup.
func (c Config) Validate() error {
	var errs []error

	switch c.Storage {
	case StoragePostgres:
		if c.PgURL == "" {
			errs = append(errs, errors.New("PG_URL is required when STORAGE=postgres"))
		}
	case StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE %q", c.Storage))
	}

	switch c.AuditSink {
	case StoragePostgres:
		if c.Storage != StoragePostgres {
			errs = append(errs, errors.New("AUDIT_SINK=postgres requires STORAGE=postgres"))
		}
	case AuditOpenSearch:
		if len(c.OpensearchUrls) == 0 {
			errs = append(errs, errors.New("OPENSEARCH_URLS is required when AUDIT_SINK=opensearch"))
		}
	case StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown AUDIT_SINK %q", c.AuditSink))
	}

	switch c.ReceiptMode {
	case ReceiptLog:
	case ReceiptResend:
		if c.ResendAPIKey == "" {
			errs = append(errs, errors.New("RESEND_API_KEY is required when RECEIPT_MODE=resend"))
		}
	case ReceiptKafka:
		if len(c.KafkaBrokers) == 0 {
			errs = append(errs, errors.New("KAFKA_BROKERS is required when RECEIPT_MODE=kafka"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown RECEIPT_MODE %q", c.ReceiptMode))
	}

	for _, p := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(p); err != nil && net.ParseIP(p) == nil {
			errs = append(errs, fmt.Errorf("TRUSTED_PROXIES entry %q is not an IP or CIDR", p))
		}
	}

	if !strings.HasPrefix(c.PublicBaseURL, "http://") && !strings.HasPrefix(c.PublicBaseURL, "https://") {
		errs = append(errs, fmt.Errorf("PUBLIC_BASE_URL must be an absolute http(s) URL, got %q", c.PublicBaseURL))
	}

	return errors.Join(errs...)
}

func (c Config) baseURL() string {
	return strings.TrimRight(c.PublicBaseURL, "/")
}

// ReturnURL is where the gateway sends the customer's browser back.
func (c Config) ReturnURL() string {
	return c.baseURL() + "/api/ipn"
}

func (c Config) SuccessURL() string {
	return c.baseURL() + c.SuccessPath
}

func (c Config) FailedURL() string {
	return c.baseURL() + c.FailedPath
}
