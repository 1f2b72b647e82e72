package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/schooney/backend-portal/internal/common"
	db "github.com/schooney/backend-portal/internal/db/gen"
	"github.com/schooney/backend-portal/internal/obs"
)

// Challenge is the public handle for a pending OTP verification.
type Challenge struct {
	ChallengeID string    `json:"challenge_id"`
	ExpiresAt   time.Time `json:"expires_at"`
	ResendAfter time.Time `json:"resend_after"`
}

// challengeState is the Redis payload behind a challenge. The code itself is
// never stored, only its hash.
type challengeState struct {
	GuardianID string `json:"guardian_id"`
	CodeHash   string `json:"code_hash"`
	Attempts   int    `json:"attempts"`
	IssuedAt   int64  `json:"issued_at"`
}

func challengeKey(id string) string {
	return "otp:challenge:" + id
}

func resendKey(guardianID string) string {
	return "otp:resend:" + guardianID
}

func (s *Service) countOtp(result string) {
	if obs.OtpChallengeTotal != nil {
		obs.OtpChallengeTotal.WithLabelValues(result).Inc()
	}
}

// openChallenge issues a fresh OTP for the guardian and emails the code.
func (s *Service) openChallenge(ctx context.Context, guardian db.Guardian) (Challenge, error) {
	if s.redis == nil {
		return Challenge{}, errors.New("auth: otp store not configured")
	}
	id, err := generateToken(24)
	if err != nil {
		return Challenge{}, fmt.Errorf("generate challenge id: %w", err)
	}
	code, err := generateOtpCode()
	if err != nil {
		return Challenge{}, fmt.Errorf("generate otp code: %w", err)
	}
	now := s.now()
	state := challengeState{
		GuardianID: uuidString(guardian.ID),
		CodeHash:   hashRefreshToken(code),
		IssuedAt:   now.Unix(),
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return Challenge{}, err
	}
	if err := s.redis.Set(ctx, challengeKey(id), raw, s.otpTTL).Err(); err != nil {
		return Challenge{}, fmt.Errorf("store otp challenge: %w", err)
	}
	_ = s.redis.Set(ctx, resendKey(state.GuardianID), id, s.otpResend).Err()

	if s.sender != nil {
		subject := "Your login code"
		body := fmt.Sprintf("Your one-time login code is %s. It expires in %d minutes.", code, int(s.otpTTL.Minutes()))
		if err := s.sender.Send(guardian.Email, subject, body); err != nil {
			return Challenge{}, fmt.Errorf("send otp email: %w", err)
		}
	}
	s.countOtp("issued")
	return Challenge{
		ChallengeID: id,
		ExpiresAt:   now.Add(s.otpTTL),
		ResendAfter: now.Add(s.otpResend),
	}, nil
}

// VerifyOtp checks the submitted code against the pending challenge and, on
// success, issues the session tokens. The challenge is single use and allows
// a bounded number of attempts.
func (s *Service) VerifyOtp(ctx context.Context, challengeID, code, userAgent, ip string) (LoginResult, error) {
	if s.redis == nil {
		return LoginResult{}, errors.New("auth: otp store not configured")
	}
	challengeID = strings.TrimSpace(challengeID)
	code = strings.TrimSpace(code)
	if challengeID == "" || code == "" {
		return LoginResult{}, common.NewAppError("INVALID_OTP", "invalid or expired code", httpStatusUnauthorized, nil)
	}
	key := challengeKey(challengeID)
	raw, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			s.countOtp("expired")
			return LoginResult{}, common.NewAppError("INVALID_OTP", "invalid or expired code", httpStatusUnauthorized, nil)
		}
		return LoginResult{}, fmt.Errorf("load otp challenge: %w", err)
	}
	var state challengeState
	if err := json.Unmarshal(raw, &state); err != nil {
		_ = s.redis.Del(ctx, key).Err()
		return LoginResult{}, common.NewAppError("INVALID_OTP", "invalid or expired code", httpStatusUnauthorized, nil)
	}

	match := subtle.ConstantTimeCompare([]byte(state.CodeHash), []byte(hashRefreshToken(code))) == 1
	if !match {
		state.Attempts++
		if state.Attempts >= s.otpAttempts {
			_ = s.redis.Del(ctx, key).Err()
			s.countOtp("locked")
			return LoginResult{}, common.NewAppError("OTP_LOCKED", "too many attempts, request a new code", httpStatusTooMany, nil)
		}
		if updated, err := json.Marshal(state); err == nil {
			// keep the original expiry window
			_ = s.redis.Set(ctx, key, updated, redis.KeepTTL).Err()
		}
		s.countOtp("mismatch")
		return LoginResult{}, common.NewAppError("INVALID_OTP", "invalid or expired code", httpStatusUnauthorized, nil)
	}

	_ = s.redis.Del(ctx, key).Err()
	_ = s.redis.Del(ctx, resendKey(state.GuardianID)).Err()

	id, err := pgUUIDFromString(state.GuardianID)
	if err != nil {
		return LoginResult{}, common.NewAppError("INVALID_OTP", "invalid or expired code", httpStatusUnauthorized, nil)
	}
	guardian, err := s.queries.GetGuardianByID(ctx, id)
	if err != nil {
		return LoginResult{}, common.NewAppError("INVALID_OTP", "invalid or expired code", httpStatusUnauthorized, nil)
	}
	s.countOtp("verified")
	return s.issueTokens(ctx, guardian, userAgent, ip)
}

// ResendOtp re-issues the code for a pending challenge. A guardian can ask
// for a new code at most once per resend window.
func (s *Service) ResendOtp(ctx context.Context, challengeID string) (Challenge, error) {
	if s.redis == nil {
		return Challenge{}, errors.New("auth: otp store not configured")
	}
	challengeID = strings.TrimSpace(challengeID)
	if challengeID == "" {
		return Challenge{}, common.NewAppError("INVALID_OTP", "invalid or expired code", httpStatusUnauthorized, nil)
	}
	raw, err := s.redis.Get(ctx, challengeKey(challengeID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Challenge{}, common.NewAppError("INVALID_OTP", "invalid or expired code", httpStatusUnauthorized, nil)
		}
		return Challenge{}, fmt.Errorf("load otp challenge: %w", err)
	}
	var state challengeState
	if err := json.Unmarshal(raw, &state); err != nil {
		return Challenge{}, common.NewAppError("INVALID_OTP", "invalid or expired code", httpStatusUnauthorized, nil)
	}
	if ttl, err := s.redis.TTL(ctx, resendKey(state.GuardianID)).Result(); err == nil && ttl > 0 {
		return Challenge{}, common.NewAppError("OTP_RESEND_TOO_SOON", "wait before requesting another code", httpStatusTooMany, nil)
	}
	id, err := pgUUIDFromString(state.GuardianID)
	if err != nil {
		return Challenge{}, common.NewAppError("INVALID_OTP", "invalid or expired code", httpStatusUnauthorized, nil)
	}
	guardian, err := s.queries.GetGuardianByID(ctx, id)
	if err != nil {
		return Challenge{}, common.NewAppError("INVALID_OTP", "invalid or expired code", httpStatusUnauthorized, nil)
	}
	// Invalidate the old challenge so only the newest code works.
	_ = s.redis.Del(ctx, challengeKey(challengeID)).Err()
	return s.openChallenge(ctx, guardian)
}

func generateOtpCode() (string, error) {
	max := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
