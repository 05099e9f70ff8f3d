package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"election-management/constants"
)

// Generate returns a random 6-digit numeric passcode. The same generator
// backs signup OTPs and election pincodes.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate passcode: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Expiry returns the expiry instant for a passcode issued at the given time.
func Expiry(issuedAt time.Time) time.Time {
	return issuedAt.Add(constants.OTPTTL)
}
