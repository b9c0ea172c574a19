package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"lms/config"

	"github.com/google/uuid"
)

// GenerateCertificateNumber builds a globally unique certificate number from
// the issue timestamp plus a random suffix
func GenerateCertificateNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("CERT-%d-%s", time.Now().Unix(), suffix)
}

// CertificateVerificationHash derives a deterministic tamper-evidence hash
// for a certificate. Verification only needs the number and the server
// secret, no extra DB round trip.
func CertificateVerificationHash(certificateNumber string, userID, courseID uint) string {
	mac := hmac.New(sha256.New, []byte(config.AppConfig.CertificateSecret))
	fmt.Fprintf(mac, "%s|%d|%d", certificateNumber, userID, courseID)
	return hex.EncodeToString(mac.Sum(nil))
}
