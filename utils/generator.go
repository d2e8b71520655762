package utils

import (
	"strings"
	"time"
)

const receiptCodeLength = 8

// ReceiptNumber derives a stable, human-readable receipt number for a payment.
func ReceiptNumber(paymentID string, paidOn time.Time) string {
	code := strings.ToUpper(strings.ReplaceAll(paymentID, "-", ""))
	if len(code) > receiptCodeLength {
		code = code[:receiptCodeLength]
	}
	return "RCT-" + paidOn.UTC().Format("20060102") + "-" + code
}
