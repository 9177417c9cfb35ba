package checkout

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewMerchTxnRef returns ORD-<unix ms>-<12 hex>. The random suffix keeps
// references unique across instances within the same millisecond.
func NewMerchTxnRef(now time.Time) string {
	entropy := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), entropy[:12])
}
