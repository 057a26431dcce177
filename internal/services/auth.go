package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"
	"goa.design/goa/v3/security"
	"gorm.io/gorm"

	"brightscope/internal/config"
	"brightscope/internal/domain"
	"brightscope/internal/email"
	"brightscope/internal/events"
	"brightscope/internal/metrics"
	"brightscope/internal/tokenstore"
	"brightscope/internal/util"
	"brightscope/internal/validation"
	apperrors "brightscope/pkg/errors"
)

const resetRequestedMessage = "If the email exists, a password reset link has been sent."

// RegisterPayload is the body of POST /account/register.
type RegisterPayload struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	Password2 string `json:"password2" validate:"required"`
	Name      string `json:"name" validate:"required,max=255"`
	Phone     string `json:"phone" validate:"required"`
}

// LoginPayload is the body of POST /account/login.
type LoginPayload struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

// RefreshPayload carries a refresh token.
type RefreshPayload struct {
	Refresh string `json:"refresh" validate:"required"`
}

// ChangePasswordPayload is the body of POST /account/change-password.
type ChangePasswordPayload struct {
	Password  string `json:"password" validate:"required,min=8,max=128"`
	Password2 string `json:"password2" validate:"required,max=128"`
}

// ResetRequestPayload is the body of POST /account/reset-password-email.
type ResetRequestPayload struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

// ResetPasswordPayload is the body of POST /account/reset-password/{uid}/{token}.
type ResetPasswordPayload struct {
	Password        string `json:"password" validate:"required,min=8,max=128"`
	PasswordConfirm string `json:"password_confirm" validate:"required,max=128"`
}

// SuperuserPayload describes an account created from the command line.
type SuperuserPayload struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,max=255"`
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// UserProfile is the public view of an account.
type UserProfile struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Message string         `json:"message"`
	Tokens  util.TokenPair `json:"tokens"`
	User    UserProfile    `json:"user"`
}

// AuthService implements the account endpoints.
type AuthService struct {
	db        *gorm.DB
	tokens    *util.TokenManager
	blacklist tokenstore.Blacklist
	mailer    email.Sender
	events    events.Publisher
	cfg       config.AuthConfig
	frontend  string
	log       zerolog.Logger
	now       func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(db *gorm.DB, tokens *util.TokenManager, blacklist tokenstore.Blacklist, mailer email.Sender,
	pub events.Publisher, cfg *config.Config, log zerolog.Logger) *AuthService {
	return &AuthService{
		db:        db,
		tokens:    tokens,
		blacklist: blacklist,
		mailer:    mailer,
		events:    pub,
		cfg:       cfg.Auth,
		frontend:  strings.TrimRight(cfg.Frontend.URL, "/"),
		log:       log,
		now:       time.Now,
	}
}

// JWTAuth implements the authorization logic for the JWT security scheme
func (s *AuthService) JWTAuth(ctx context.Context, token string, schema *security.JWTScheme) (context.Context, error) {
	claims, err := s.tokens.Validate(token, util.AccessToken)
	if err != nil {
		return ctx, apperrors.Unauthorized("Given token not valid for any token type")
	}

	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx, apperrors.Unauthorized("User not found")
		}
		return ctx, apperrors.Internal("failed to load user", err)
	}
	if !user.IsActive {
		return ctx, apperrors.Unauthorized("User is inactive")
	}

	if schema != nil && len(schema.RequiredScopes) > 0 {
		allowed := false
		for _, scope := range schema.RequiredScopes {
			switch scope {
			case ScopeAdmin:
				allowed = util.RequireAdmin(&user) == nil
			case ScopeStaff:
				allowed = util.RequireStaff(&user) == nil
			}
			if allowed {
				break
			}
		}
		if !allowed {
			s.log.Warn().Uint("user_id", user.ID).Strs("scopes", schema.RequiredScopes).Msg("insufficient permissions")
			return ctx, apperrors.Forbidden("You do not have permission to perform this action.")
		}
	}

	return WithUser(ctx, &user, claims), nil
}

// Register creates an account and signs it in.
func (s *AuthService) Register(ctx context.Context, p *RegisterPayload) (*AuthResult, error) {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Name = strings.TrimSpace(p.Name)
	s.log.Info().Str("email", p.Email).Msg("registration attempt")

	fields := apperrors.FieldErrors{}
	if p.Password2 != "" && p.Password != p.Password2 {
		fields.Add("password2", "Password and Confirm Password don't match.")
	}

	db := s.db.WithContext(ctx)
	if p.Email != "" {
		var count int64
		if err := db.Model(&domain.User{}).Where("LOWER(email) = ?", p.Email).Count(&count).Error; err != nil {
			return nil, apperrors.Internal("failed to check email", err)
		}
		if count > 0 {
			fields.Add("email", "A user with this email already exists.")
		}
	}

	var phone string
	if p.Phone != "" {
		normalized, err := util.NormalizeUAEPhone(p.Phone)
		if err != nil {
			fields.Add("phone", err.Error())
		} else {
			phone = normalized
			var count int64
			if err := db.Model(&domain.User{}).Where("phone = ?", phone).Count(&count).Error; err != nil {
				return nil, apperrors.Internal("failed to check phone", err)
			}
			if count > 0 {
				fields.Add("phone", "A user with this phone number already exists.")
			}
		}
	}

	if err := validation.Merge(validation.Struct(p), fields); err != nil {
		s.log.Warn().Str("email", p.Email).Err(err).Msg("registration rejected")
		return nil, err
	}

	hashed, err := util.HashPassword(p.Password)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	now := s.now().UTC()
	user := domain.User{
		Email:          p.Email,
		Name:           p.Name,
		Phone:          phone,
		HashedPassword: hashed,
		IsActive:       true,
		LastLogin:      &now,
	}
	if err := db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Field("email", "A user with this email already exists.")
		}
		return nil, apperrors.Internal("failed to create user", err)
	}

	tokens, err := s.tokens.IssuePair(&user)
	if err != nil {
		return nil, apperrors.Internal("failed to issue tokens", err)
	}

	metrics.RecordRegistration()
	s.publish(ctx, events.UserRegistered, map[string]any{"id": user.ID, "email": user.Email})
	s.log.Info().Uint("user_id", user.ID).Str("email", user.Email).Msg("user registered")

	return &AuthResult{Message: "Registration successful", Tokens: tokens, User: profile(&user)}, nil
}

// Login exchanges credentials for a token pair.
func (s *AuthService) Login(ctx context.Context, p *LoginPayload) (*AuthResult, error) {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if err := validation.Struct(p); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var user domain.User
	if err := db.Where("email = ?", p.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn().Str("email", p.Email).Msg("login failed: unknown email")
			metrics.RecordAuthAttempt(false)
			return nil, apperrors.Unauthorized("Invalid email or password.")
		}
		metrics.RecordAuthAttempt(false)
		return nil, apperrors.Internal("failed to load user", err)
	}

	if !util.CheckPasswordHash(p.Password, user.HashedPassword) {
		s.log.Warn().Str("email", p.Email).Msg("login failed: wrong password")
		metrics.RecordAuthAttempt(false)
		return nil, apperrors.Unauthorized("Invalid email or password.")
	}

	if !user.IsActive {
		s.log.Warn().Str("email", p.Email).Msg("login failed: inactive account")
		metrics.RecordAuthAttempt(false)
		return nil, apperrors.Forbidden("Account is inactive. Please contact support.")
	}

	now := s.now().UTC()
	if err := db.Model(&user).Update("last_login", now).Error; err != nil {
		return nil, apperrors.Internal("failed to record login", err)
	}

	tokens, err := s.tokens.IssuePair(&user)
	if err != nil {
		return nil, apperrors.Internal("failed to issue tokens", err)
	}

	metrics.RecordAuthAttempt(true)
	s.log.Info().Uint("user_id", user.ID).Msg("login successful")
	return &AuthResult{Message: "Login successful", Tokens: tokens, User: profile(&user)}, nil
}

// Refresh exchanges a refresh token for a new access token. With rotation
// enabled a new refresh token is issued and the presented one is revoked.
func (s *AuthService) Refresh(ctx context.Context, p *RefreshPayload) (*util.TokenPair, error) {
	if err := validation.Struct(p); err != nil {
		return nil, err
	}
	claims, user, err := s.liveRefreshToken(ctx, p.Refresh)
	if err != nil {
		return nil, err
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, apperrors.Internal("failed to issue tokens", err)
	}

	if !s.cfg.RotateRefreshTokens {
		pair.Refresh = p.Refresh
		pair.RefreshExpiresAt = claims.ExpiresAt.Time
		return &pair, nil
	}

	if err := s.blacklist.Revoke(ctx, claims.ID, claims.UserID, claims.ExpiresAt.Time); err != nil {
		return nil, apperrors.Internal("failed to revoke refresh token", err)
	}
	s.log.Debug().Uint("user_id", user.ID).Str("revoked", claims.ID).Msg("refresh token rotated")
	return &pair, nil
}

// Logout revokes the caller's refresh token.
func (s *AuthService) Logout(ctx context.Context, p *RefreshPayload) (*MessageResult, error) {
	user, ok := UserFromContext(ctx)
	if !ok {
		return nil, apperrors.Unauthorized("Authentication credentials were not provided.")
	}
	if err := validation.Struct(p); err != nil {
		return nil, err
	}
	claims, _, err := s.liveRefreshToken(ctx, p.Refresh)
	if err != nil {
		return nil, err
	}
	if claims.UserID != user.ID {
		return nil, apperrors.BadRequest("Token does not belong to this user")
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.UserID, claims.ExpiresAt.Time); err != nil {
		return nil, apperrors.Internal("failed to revoke refresh token", err)
	}
	s.log.Info().Uint("user_id", user.ID).Msg("logout")
	return &MessageResult{Message: "Successfully logged out"}, nil
}

func (s *AuthService) liveRefreshToken(ctx context.Context, token string) (*util.Claims, *domain.User, error) {
	claims, err := s.tokens.Validate(token, util.RefreshToken)
	if err != nil {
		return nil, nil, apperrors.Unauthorized("Token is invalid or expired")
	}
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, apperrors.Internal("failed to check token blacklist", err)
	}
	if revoked {
		return nil, nil, apperrors.Unauthorized("Token is blacklisted")
	}

	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.Unauthorized("User not found")
		}
		return nil, nil, apperrors.Internal("failed to load user", err)
	}
	if !user.IsActive {
		return nil, nil, apperrors.Unauthorized("User is inactive")
	}
	return claims, &user, nil
}

// Me returns the profile of the authenticated user.
func (s *AuthService) Me(ctx context.Context) (*UserProfile, error) {
	user, ok := UserFromContext(ctx)
	if !ok {
		return nil, apperrors.Unauthorized("Authentication credentials were not provided.")
	}
	p := profile(user)
	return &p, nil
}

// ChangePassword sets a new password for the authenticated user.
func (s *AuthService) ChangePassword(ctx context.Context, p *ChangePasswordPayload) (*MsgResult, error) {
	user, ok := UserFromContext(ctx)
	if !ok {
		return nil, apperrors.Unauthorized("Authentication credentials were not provided.")
	}

	fields := apperrors.FieldErrors{}
	for _, msg := range passwordStrength(p.Password) {
		fields.Add("password", msg)
	}
	if p.Password2 != "" && p.Password != p.Password2 {
		fields.Add("password2", "Password and Confirm Password don't match.")
	}
	if err := validation.Merge(validation.Struct(p), fields); err != nil {
		return nil, err
	}

	if err := s.setPassword(ctx, user, p.Password); err != nil {
		return nil, err
	}
	s.log.Info().Uint("user_id", user.ID).Msg("password changed")
	return &MsgResult{Msg: "Password changed successfully"}, nil
}

// RequestPasswordReset emails a reset link when the account exists. The
// response is the same whether or not it does.
func (s *AuthService) RequestPasswordReset(ctx context.Context, p *ResetRequestPayload) (*MsgResult, error) {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if err := validation.Struct(p); err != nil {
		return nil, err
	}

	result := &MsgResult{Msg: resetRequestedMessage}

	var user domain.User
	if err := s.db.WithContext(ctx).Where("email = ?", p.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn().Str("email", p.Email).Msg("password reset requested for unknown email")
		} else {
			s.log.Error().Err(err).Str("email", p.Email).Msg("password reset lookup failed")
		}
		return result, nil
	}

	token, err := s.tokens.PasswordResetToken(&user)
	if err != nil {
		s.log.Error().Err(err).Uint("user_id", user.ID).Msg("failed to create reset token")
		return result, nil
	}
	link := fmt.Sprintf("%s/reset-password/%s/%s/", s.frontend, util.EncodeUID(user.ID), token)

	msg, err := email.PasswordReset(user.Email, email.PasswordResetData{
		Name:         user.Name,
		Link:         link,
		ExpiresHours: s.cfg.PasswordResetHours,
	})
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		s.log.Error().Err(err).Uint("user_id", user.ID).Msg("failed to send password reset email")
		return result, nil
	}

	s.log.Info().Uint("user_id", user.ID).Msg("password reset email sent")
	return result, nil
}

// ResetPassword completes a reset started by RequestPasswordReset.
func (s *AuthService) ResetPassword(ctx context.Context, uid, token string, p *ResetPasswordPayload) (*MsgResult, error) {
	fields := apperrors.FieldErrors{}
	for _, msg := range passwordStrength(p.Password) {
		fields.Add("password", msg)
	}
	if p.PasswordConfirm != "" && p.Password != p.PasswordConfirm {
		fields.Add("password_confirm", "Passwords don't match.")
	}
	if err := validation.Merge(validation.Struct(p), fields); err != nil {
		return nil, err
	}

	id, err := util.DecodeUID(uid)
	if err != nil {
		s.log.Warn().Str("uid", uid).Msg("invalid uid for password reset")
		return nil, apperrors.BadRequest("Invalid reset link")
	}
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.BadRequest("Invalid reset link")
		}
		return nil, apperrors.Internal("failed to load user", err)
	}

	if !s.tokens.CheckPasswordResetToken(&user, token) {
		s.log.Warn().Uint("user_id", user.ID).Msg("invalid password reset token")
		return nil, apperrors.BadRequest("Reset link has expired or is invalid")
	}

	if err := s.setPassword(ctx, &user, p.Password); err != nil {
		return nil, err
	}
	s.log.Info().Uint("user_id", user.ID).Msg("password reset successful")
	return &MsgResult{Msg: "Password reset successfully"}, nil
}

// CreateSuperuser provisions an active staff and admin account.
func (s *AuthService) CreateSuperuser(ctx context.Context, p *SuperuserPayload) (*domain.User, error) {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Name = strings.TrimSpace(p.Name)

	fields := apperrors.FieldErrors{}
	var phone string
	if p.Phone != "" {
		normalized, err := util.NormalizeUAEPhone(p.Phone)
		if err != nil {
			fields.Add("phone", err.Error())
		}
		phone = normalized
	}
	if err := validation.Merge(validation.Struct(p), fields); err != nil {
		return nil, err
	}

	hashed, err := util.HashPassword(p.Password)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}
	user := domain.User{
		Email:          p.Email,
		Name:           p.Name,
		Phone:          phone,
		HashedPassword: hashed,
		IsActive:       true,
		IsStaff:        true,
		IsAdmin:        true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.BadRequest("A user with this email or phone already exists.")
		}
		return nil, apperrors.Internal("failed to create user", err)
	}
	s.log.Info().Uint("user_id", user.ID).Str("email", user.Email).Msg("superuser created")
	return &user, nil
}

func (s *AuthService) setPassword(ctx context.Context, user *domain.User, password string) error {
	hashed, err := util.HashPassword(password)
	if err != nil {
		return apperrors.Internal("failed to hash password", err)
	}
	if err := s.db.WithContext(ctx).Model(user).Update("hashed_password", hashed).Error; err != nil {
		return apperrors.Internal("failed to update password", err)
	}
	user.HashedPassword = hashed
	return nil
}

func (s *AuthService) publish(ctx context.Context, key string, data any) {
	if err := s.events.Publish(ctx, key, data); err != nil {
		s.log.Error().Err(err).Str("event", key).Msg("failed to publish event")
	}
}

// passwordStrength rejects passwords made only of digits or only of letters.
func passwordStrength(password string) []string {
	if password == "" {
		return nil
	}
	digits, letters := true, true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			digits = false
		}
		if !unicode.IsLetter(r) {
			letters = false
		}
	}
	switch {
	case digits:
		return []string{"Password cannot be entirely numeric."}
	case letters:
		return []string{"Password must contain at least one number."}
	}
	return nil
}

func profile(user *domain.User) UserProfile {
	return UserProfile{ID: user.ID, Email: user.Email, Name: user.Name, Phone: user.Phone}
}
