package qrcode

import (
	"fmt"
	"os"

	qrcode "github.com/skip2/go-qrcode"
)

// GenerateReferralQR renders the signup link carrying a referral code as a
// 256px PNG, for members to share.
func GenerateReferralQR(code string) ([]byte, error) {
	link := fmt.Sprintf("https://%s/signup?ref=%s", os.Getenv("Web_Host"), code)
	return qrcode.Encode(link, qrcode.Medium, 256)
}
