package utils_test

import (
	"strings"
	"testing"

	"celsius/utils"
)

func TestGenerateReferralCode(t *testing.T) {
	code := utils.GenerateReferralCode()
	if !strings.HasPrefix(code, "7H-") {
		t.Error("Expected 7H- prefix, got", code)
	}
	if len(code) != 11 {
		t.Error("Expected 11 characters, got", len(code), code)
	}

	if utils.GenerateReferralCode() == code {
		t.Error("Expected codes to differ between calls")
	}
}
