package constants

import "time"

// Credential lifetimes
const (
	// OTPTTL is how long a signup passcode stays valid.
	OTPTTL = 10 * time.Minute

	// TokenTTL is the validity of an issued session token.
	TokenTTL = 30 * 24 * time.Hour
)

// Upload limits
const (
	// MaxImageSize caps a single uploaded image (banner or avatar).
	MaxImageSize = 5 * 1024 * 1024
)

// PasscodeLength is the digit count of both OTPs and election pincodes.
const PasscodeLength = 6
