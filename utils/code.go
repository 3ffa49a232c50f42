package utils

import (
	"strings"

	"github.com/google/uuid"
)

func GenerateUUID() string {
	return uuid.New().String()
}

// GenerateReferralCode returns a short shareable code like "7H-1A2B3C4D".
func GenerateReferralCode() string {
	id := uuid.New().String()
	return "7H-" + strings.ToUpper(strings.ReplaceAll(id, "-", "")[:8])
}
