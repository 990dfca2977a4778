package verification

import (
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	issuer = "TalentFlow"

	// Email codes stay valid for ten minutes, with one period of skew
	// so a code generated just before rollover still verifies.
	codePeriod = 600
	codeSkew   = 1
)

var validateOpts = totp.ValidateOpts{
	Period:    codePeriod,
	Skew:      codeSkew,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// NewSecret generates a per-account secret used to derive verification codes
func NewSecret(email string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: email,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate verification secret: %w", err)
	}
	return key.Secret(), nil
}

// CurrentCode derives the code that is valid right now for the given secret
func CurrentCode(secret string) (string, error) {
	code, err := totp.GenerateCodeCustom(secret, time.Now().UTC(), validateOpts)
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return code, nil
}

// ValidateCode checks a user-supplied code against the account secret
func ValidateCode(code, secret string) bool {
	ok, err := totp.ValidateCustom(code, secret, time.Now().UTC(), validateOpts)
	return err == nil && ok
}
