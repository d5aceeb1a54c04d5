package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewReferenceID builds a short unique reference like "WTX-9F2C41A07B".
func NewReferenceID(prefix string) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return prefix + "-" + id[:10]
}

// NewReferralCode builds a referral code like "REF4A7C2F".
func NewReferralCode() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "REF" + id[:6]
}
