package helpers

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"food-ordering-system/database"
)

const otpTTL = 5 * time.Minute

var ErrOTPMismatch = errors.New("otp is invalid or expired")

func otpKey(email string) string {
	return "otp:" + email
}

// GenerateOTP issues a 6-digit one-time code for the email and stores it in
// redis for five minutes. Reissuing replaces the previous code.
func GenerateOTP(ctx context.Context, email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%06d", n.Int64())

	err = database.RedisClient.Set(ctx, otpKey(email), code, otpTTL).Err()
	if err != nil {
		return "", err
	}
	return code, nil
}

// VerifyOTP checks the code and consumes it on success.
func VerifyOTP(ctx context.Context, email string, code string) error {
	stored, err := database.RedisClient.Get(ctx, otpKey(email)).Result()
	if err != nil || stored != code {
		return ErrOTPMismatch
	}
	return database.RedisClient.Del(ctx, otpKey(email)).Err()
}
