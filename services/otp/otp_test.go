package otp

import (
	"testing"
	"time"

	"election-management/constants"
)

func TestGenerateShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := Generate()
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if len(code) != constants.PasscodeLength {
			t.Fatalf("expected %d digits, got %q", constants.PasscodeLength, code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("non-digit in passcode %q", code)
			}
		}
		seen[code] = true
	}
	// 200 draws from a million-value space collapsing to a handful of codes
	// would indicate a broken generator.
	if len(seen) < 50 {
		t.Fatalf("suspiciously few distinct codes: %d", len(seen))
	}
}

func TestExpiry(t *testing.T) {
	issued := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if got, want := Expiry(issued), issued.Add(constants.OTPTTL); !got.Equal(want) {
		t.Fatalf("Expiry = %v, want %v", got, want)
	}
}
