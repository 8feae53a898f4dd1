package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	OTPTTL       = 10 * time.Minute
	otpKeyPrefix = "otp:"
	otpDigits    = 6
)

// compareAndDeleteScript removes the OTP only when it matches, so a code can
// be redeemed once.
var compareAndDeleteScript = redis.NewScript(`
	local stored = redis.call('GET', KEYS[1])
	if stored == ARGV[1] then
		redis.call('DEL', KEYS[1])
		return 1
	end
	return 0
`)

// OTPStore keeps at most one live password reset code per email.
type OTPStore interface {
	Issue(ctx context.Context, email string) (string, error)
	Verify(ctx context.Context, email, code string) (bool, error)
	Consume(ctx context.Context, email, code string) (bool, error)
}

type redisOTPStore struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewOTPStore(redisClient *redis.Client, log *logrus.Logger) OTPStore {
	return &redisOTPStore{redisClient: redisClient, log: log}
}

func otpKey(email string) string {
	return otpKeyPrefix + strings.ToLower(strings.TrimSpace(email))
}

// Issue generates a fresh code and replaces any previous one.
func (s *redisOTPStore) Issue(ctx context.Context, email string) (string, error) {
	code, err := GenerateOTP()
	if err != nil {
		return "", err
	}
	if err := s.redisClient.Set(ctx, otpKey(email), code, OTPTTL).Err(); err != nil {
		s.log.Warnf("Failed to store OTP: %+v", err)
		return "", err
	}
	return code, nil
}

func (s *redisOTPStore) Verify(ctx context.Context, email, code string) (bool, error) {
	stored, err := s.redisClient.Get(ctx, otpKey(email)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		s.log.Warnf("Failed to read OTP: %+v", err)
		return false, err
	}
	return stored == code, nil
}

func (s *redisOTPStore) Consume(ctx context.Context, email, code string) (bool, error) {
	n, err := compareAndDeleteScript.Run(ctx, s.redisClient, []string{otpKey(email)}, code).Int()
	if err != nil {
		s.log.Warnf("Failed Lua script compare-and-delete OTP: %+v", err)
		return false, err
	}
	return n == 1, nil
}

// GenerateOTP returns a uniformly random zero-padded 6 digit code.
func GenerateOTP() (string, error) {
	max := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}
