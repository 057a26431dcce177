package util

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"brightscope/internal/domain"
)

// resetClaims binds a reset link to one user.
type resetClaims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

// EncodeUID renders a user id for use in a reset link.
func EncodeUID(id uint) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(id), 10)))
}

// DecodeUID reverses EncodeUID.
func DecodeUID(uid string) (uint, error) {
	raw, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		// links produced by other encoders may carry padding
		raw, err = base64.URLEncoding.DecodeString(uid)
		if err != nil {
			return 0, fmt.Errorf("malformed uid: %w", err)
		}
	}
	id, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("malformed uid")
	}
	return uint(id), nil
}

// The signing key includes the current password hash, so a token stops
// verifying as soon as the password changes.
func (m *TokenManager) resetKey(user *domain.User) []byte {
	key := make([]byte, 0, len(m.secret)+len(user.HashedPassword))
	key = append(key, m.secret...)
	return append(key, user.HashedPassword...)
}

// PasswordResetToken creates a time-limited token for user.
func (m *TokenManager) PasswordResetToken(user *domain.User) (string, error) {
	now := m.now()
	claims := resetClaims{
		UID: EncodeUID(user.ID),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.resetTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.resetKey(user))
	if err != nil {
		return "", fmt.Errorf("failed to sign reset token: %w", err)
	}
	return token, nil
}

// CheckPasswordResetToken reports whether token is a live reset token for user.
func (m *TokenManager) CheckPasswordResetToken(user *domain.User, token string) bool {
	claims := &resetClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.resetKey(user), nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return false
	}
	return claims.UID == EncodeUID(user.ID)
}
