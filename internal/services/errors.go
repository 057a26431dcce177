package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "brightscope/pkg/errors"
)

// Scopes understood by JWTAuth.
const (
	ScopeStaff = "staff"
	ScopeAdmin = "admin"
)

// MessageResult is the generic {"message": ...} response body.
type MessageResult struct {
	Message string `json:"message"`
}

// MsgResult is the {"msg": ...} body used by the password endpoints.
type MsgResult struct {
	Msg string `json:"msg"`
}

// notFoundOr maps a missing record to NOT_FOUND and anything else to INTERNAL_ERROR.
func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(what + " not found.")
	}
	return apperrors.Internal("failed to load "+strings.ToLower(what), err)
}

// isUniqueViolation recognises duplicate key errors from postgres and sqlite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
