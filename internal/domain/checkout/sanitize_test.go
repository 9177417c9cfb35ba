package checkout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeOrderInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "vietnamese", in: "Đặt tour Củ Chi", want: "Dat tour Cu Chi"},
		{name: "special characters", in: "Booking Cu Chi – guest@example.com!", want: "Booking Cu Chi guestexamplecom"},
		{name: "whitespace collapsed", in: "  a \t\n b   c ", want: "a b c"},
		{name: "hyphen kept", in: "Cu-Chi", want: "Cu-Chi"},
		{name: "empty", in: "", want: OrderInfoPlaceholder},
		{name: "only symbols", in: "@@@ ### ...", want: OrderInfoPlaceholder},
		{name: "emoji", in: "🌅🚤", want: OrderInfoPlaceholder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SanitizeOrderInfo(tt.in))
		})
	}
}

func TestSanitizeOrderInfo_Truncates(t *testing.T) {
	t.Parallel()

	got := SanitizeOrderInfo(strings.Repeat("ab ", 80))

	assert.LessOrEqual(t, len(got), 100)
	assert.Equal(t, strings.TrimSpace(got), got)
}

func TestSanitizePhone(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "84901234567", SanitizePhone("+84 (90) 123-4567"))
	assert.Equal(t, "", SanitizePhone("n/a"))
	assert.Len(t, SanitizePhone(strings.Repeat("1", 40)), 15)
}

func TestSanitizeMerchTxnRef(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ORD-1-abc", SanitizeMerchTxnRef("ORD-1-abc"))
	assert.Equal(t, "DON-1", SanitizeMerchTxnRef("ĐƠN-1"))
	assert.Len(t, SanitizeMerchTxnRef(strings.Repeat("A", 60)), 40)
}

func TestSanitizeEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "guest@example.com", SanitizeEmail("  guest@example.com "))
	assert.Equal(t, "", SanitizeEmail("a&b@example.com"))
}

func TestStripDiacritics(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Mekong Delta Ben Tre", StripDiacritics("Mekong Delta Bến Tre"))
	assert.Equal(t, "dd DD", StripDiacritics("đđ ĐĐ"))
}
