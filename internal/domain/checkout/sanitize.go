package checkout

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxOrderInfoLen   = 100
	maxMerchTxnRefLen = 40
	maxPhoneLen       = 15

	OrderInfoPlaceholder = "Tour booking"
)

// đ has no combining-mark decomposition.
var strokeReplacer = strings.NewReplacer("đ", "d", "Đ", "D")

// StripDiacritics folds Vietnamese (and other Latin) letters to ASCII base
// letters. Never fails: undecodable input yields "".
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strokeReplacer.Replace(s))
	if err != nil {
		return ""
	}
	return out
}

func keep(s string, allowed func(r rune) bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if allowed(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// SanitizeOrderInfo produces the free-text description sent to the
// gateway: ASCII letters, digits, spaces and hyphens only, whitespace
// collapsed, at most 100 characters.
func SanitizeOrderInfo(s string) string {
	s = StripDiacritics(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
	s = keep(s, func(r rune) bool { return isASCIIAlnum(r) || r == ' ' || r == '-' })
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxOrderInfoLen {
		s = strings.TrimSpace(s[:maxOrderInfoLen])
	}
	if s == "" {
		return OrderInfoPlaceholder
	}
	return s
}

// SanitizePhone keeps digits only.
func SanitizePhone(s string) string {
	s = keep(s, func(r rune) bool { return r >= '0' && r <= '9' })
	if len(s) > maxPhoneLen {
		s = s[:maxPhoneLen]
	}
	return s
}

// SanitizeMerchTxnRef folds and filters a reference to [A-Za-z0-9-]{0,40}.
func SanitizeMerchTxnRef(s string) string {
	s = keep(StripDiacritics(s), func(r rune) bool { return isASCIIAlnum(r) || r == '-' })
	if len(s) > maxMerchTxnRefLen {
		s = s[:maxMerchTxnRefLen]
	}
	return s
}

// SanitizeEmail trims the address and drops it when it carries characters
// the gateway rejects.
func SanitizeEmail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 254 || strings.ContainsAny(s, " <>\"'&=") {
		return ""
	}
	return s
}
