package sms

import "strings"

// CountryCode is prefixed to local numbers
const CountryCode = "255"

// NormalizePhone turns local and international forms into the gateway's
// 255XXXXXXXXX form, so "0712..." and "+255712..." both become "255712..."
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	phone = strings.NewReplacer(" ", "", "-", "").Replace(phone)

	switch {
	case strings.HasPrefix(phone, "0"):
		return CountryCode + phone[1:]
	case strings.HasPrefix(phone, "+"+CountryCode):
		return phone[1:]
	case strings.HasPrefix(phone, CountryCode):
		return phone
	default:
		return CountryCode + phone
	}
}
