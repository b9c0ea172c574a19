package utils

import (
	"strings"
	"testing"

	"lms/config"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCertificateNumber(t *testing.T) {
	number := GenerateCertificateNumber()
	assert.True(t, strings.HasPrefix(number, "CERT-"))

	parts := strings.Split(number, "-")
	assert.Len(t, parts, 3)
	assert.Len(t, parts[2], 8)
	assert.Equal(t, strings.ToUpper(parts[2]), parts[2])

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n := GenerateCertificateNumber()
		assert.False(t, seen[n], "generated duplicate certificate number %s", n)
		seen[n] = true
	}
}

func TestCertificateVerificationHash(t *testing.T) {
	config.LoadConfig()

	hash := CertificateVerificationHash("CERT-1700000000-ABCDEF01", 7, 3)

	// Deterministic for the same inputs
	assert.Equal(t, hash, CertificateVerificationHash("CERT-1700000000-ABCDEF01", 7, 3))
	assert.Len(t, hash, 64)

	// Any input change produces a different hash
	assert.NotEqual(t, hash, CertificateVerificationHash("CERT-1700000000-ABCDEF02", 7, 3))
	assert.NotEqual(t, hash, CertificateVerificationHash("CERT-1700000000-ABCDEF01", 8, 3))
	assert.NotEqual(t, hash, CertificateVerificationHash("CERT-1700000000-ABCDEF01", 7, 4))
}
