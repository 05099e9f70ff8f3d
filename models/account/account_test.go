package account

import (
	"testing"
	"time"

	"election-management/constants"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{"Official", RoleOfficial, false},
		{"Voter", RoleVoter, false},
		{"official", "", true},
		{"Election Official", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseRole(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRole(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestOTPValidExpiryBoundary(t *testing.T) {
	issued := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	code := "482913"
	expires := issued.Add(constants.OTPTTL)
	acct := Account{OTPCode: &code, OTPExpiresAt: &expires}

	if !acct.OTPValid(code, expires.Add(-time.Second)) {
		t.Error("code rejected just before expiry")
	}
	if acct.OTPValid(code, expires) {
		t.Error("code accepted at the expiry instant")
	}
	if acct.OTPValid(code, expires.Add(time.Second)) {
		t.Error("code accepted after expiry")
	}
	if acct.OTPValid("000000", issued) {
		t.Error("wrong code accepted")
	}
}

func TestOTPValidClearedFields(t *testing.T) {
	var acct Account
	if acct.OTPValid("482913", time.Now()) {
		t.Error("account without a pending OTP accepted a code")
	}
}

func TestMarkVerified(t *testing.T) {
	code := "482913"
	expires := time.Now().Add(constants.OTPTTL)
	acct := Account{OTPCode: &code, OTPExpiresAt: &expires}

	acct.MarkVerified()

	if !acct.IsVerified {
		t.Error("account not marked verified")
	}
	if acct.OTPCode != nil || acct.OTPExpiresAt != nil {
		t.Error("OTP fields not cleared on verification")
	}
}
