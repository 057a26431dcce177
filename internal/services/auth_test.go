package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"goa.design/goa/v3/security"

	"brightscope/internal/domain"
	"brightscope/internal/events"
	"brightscope/internal/util"
	apperrors "brightscope/pkg/errors"
)

func registerPayload(email, phone string) *RegisterPayload {
	return &RegisterPayload{
		Email:     email,
		Password:  "s3cretpass",
		Password2: "s3cretpass",
		Name:      "Test User",
		Phone:     phone,
	}
}

func TestRegisterRejectsEveryPhoneShapeOfAnExistingNumber(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	res, err := f.svc.Register(ctx, registerPayload("First@Example.com", "+971 50 123 4567"))
	require.NoError(t, err)
	assert.Equal(t, "first@example.com", res.User.Email)
	assert.Equal(t, "+971501234567", res.User.Phone)
	assert.NotEmpty(t, res.Tokens.Access)
	assert.NotEmpty(t, res.Tokens.Refresh)
	assert.Equal(t, []string{events.UserRegistered}, f.events.Types())

	for i, shape := range []string{"971501234567", "0501234567", "501234567", "00971501234567"} {
		_, err := f.svc.Register(ctx, registerPayload("other"+string(rune('a'+i))+"@example.com", shape))
		require.Error(t, err, shape)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
		assert.Equal(t, []string{"A user with this phone number already exists."}, appErr.Fields["phone"], shape)
	}

	var count int64
	require.NoError(t, f.db.Model(&domain.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegisterValidation(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	p := registerPayload("user@example.com", "0501234567")
	p.Password2 = "different1"
	_, err := f.svc.Register(ctx, p)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"Password and Confirm Password don't match."}, appErr.Fields["password2"])

	_, err = f.svc.Register(ctx, registerPayload("user@example.com", "12345"))
	appErr, ok = apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{util.ErrInvalidUAEPhone.Error()}, appErr.Fields["phone"])

	_, err = f.svc.Register(ctx, registerPayload("user@example.com", "0501234567"))
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, registerPayload("USER@example.com", "0509999999"))
	appErr, ok = apperrors.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "email")
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, registerPayload("login@example.com", "0501234567"))
	require.NoError(t, err)

	res, err := f.svc.Login(ctx, &LoginPayload{Email: "  LOGIN@example.com ", Password: "s3cretpass"})
	require.NoError(t, err)
	assert.Equal(t, "Login successful", res.Message)

	_, err = f.svc.Login(ctx, &LoginPayload{Email: "login@example.com", Password: "wrong-pass1"})
	assert.True(t, apperrors.IsUnauthorized(err))
	wrongPassword := err.Error()

	_, err = f.svc.Login(ctx, &LoginPayload{Email: "nobody@example.com", Password: "s3cretpass"})
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Equal(t, wrongPassword, err.Error())

	require.NoError(t, f.db.Model(&domain.User{}).Where("email = ?", "login@example.com").Update("is_active", false).Error)
	_, err = f.svc.Login(ctx, &LoginPayload{Email: "login@example.com", Password: "s3cretpass"})
	assert.True(t, apperrors.IsForbidden(err))
}

func TestRefreshRotatesAndBlacklists(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	reg, err := f.svc.Register(ctx, registerPayload("rotate@example.com", "0501234567"))
	require.NoError(t, err)

	pair, err := f.svc.Refresh(ctx, &RefreshPayload{Refresh: reg.Tokens.Refresh})
	require.NoError(t, err)
	assert.NotEqual(t, reg.Tokens.Refresh, pair.Refresh)
	assert.NotEmpty(t, pair.Access)

	_, err = f.svc.Refresh(ctx, &RefreshPayload{Refresh: reg.Tokens.Refresh})
	assert.True(t, apperrors.IsUnauthorized(err))

	_, err = f.svc.Refresh(ctx, &RefreshPayload{Refresh: pair.Refresh})
	assert.NoError(t, err)

	_, err = f.svc.Refresh(ctx, &RefreshPayload{Refresh: reg.Tokens.Access})
	assert.True(t, apperrors.IsUnauthorized(err), "access tokens cannot be refreshed")
}

func TestRefreshWithoutRotationKeepsToken(t *testing.T) {
	f := newAuthFixture(t)
	f.svc.cfg.RotateRefreshTokens = false
	ctx := context.Background()
	reg, err := f.svc.Register(ctx, registerPayload("keep@example.com", "0501234567"))
	require.NoError(t, err)

	pair, err := f.svc.Refresh(ctx, &RefreshPayload{Refresh: reg.Tokens.Refresh})
	require.NoError(t, err)
	assert.Equal(t, reg.Tokens.Refresh, pair.Refresh)

	_, err = f.svc.Refresh(ctx, &RefreshPayload{Refresh: reg.Tokens.Refresh})
	assert.NoError(t, err)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	reg, err := f.svc.Register(ctx, registerPayload("bye@example.com", "0501234567"))
	require.NoError(t, err)

	authed, err := f.svc.JWTAuth(ctx, reg.Tokens.Access, &security.JWTScheme{})
	require.NoError(t, err)

	me, err := f.svc.Me(authed)
	require.NoError(t, err)
	assert.Equal(t, "bye@example.com", me.Email)

	_, err = f.svc.Logout(authed, &RefreshPayload{Refresh: reg.Tokens.Refresh})
	require.NoError(t, err)
	_, err = f.svc.Refresh(ctx, &RefreshPayload{Refresh: reg.Tokens.Refresh})
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestJWTAuthScopes(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	reg, err := f.svc.Register(ctx, registerPayload("member@example.com", "0501234567"))
	require.NoError(t, err)

	staffOnly := &security.JWTScheme{Name: "jwt", RequiredScopes: []string{ScopeStaff}}
	_, err = f.svc.JWTAuth(ctx, reg.Tokens.Access, staffOnly)
	assert.True(t, apperrors.IsForbidden(err))

	_, err = f.svc.JWTAuth(ctx, "not-a-token", staffOnly)
	assert.True(t, apperrors.IsUnauthorized(err))

	admin, err := f.svc.CreateSuperuser(ctx, &SuperuserPayload{
		Email: "admin@example.com", Name: "Admin", Phone: "0507654321", Password: "adminpass1",
	})
	require.NoError(t, err)
	assert.True(t, admin.IsStaff)
	assert.True(t, admin.IsAdmin)

	login, err := f.svc.Login(ctx, &LoginPayload{Email: "admin@example.com", Password: "adminpass1"})
	require.NoError(t, err)
	authed, err := f.svc.JWTAuth(ctx, login.Tokens.Access, staffOnly)
	require.NoError(t, err)
	user, ok := UserFromContext(authed)
	require.True(t, ok)
	assert.Equal(t, admin.ID, user.ID)
}

func TestJWTAuthAcceptsAnyRequiredScope(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	reg, err := f.svc.Register(ctx, registerPayload("staff@example.com", "0501234567"))
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&domain.User{}).Where("id = ?", reg.User.ID).Update("is_staff", true).Error)

	either := &security.JWTScheme{Name: "jwt", RequiredScopes: []string{ScopeAdmin, ScopeStaff}}
	_, err = f.svc.JWTAuth(ctx, reg.Tokens.Access, either)
	require.NoError(t, err)

	adminOnly := &security.JWTScheme{Name: "jwt", RequiredScopes: []string{ScopeAdmin}}
	_, err = f.svc.JWTAuth(ctx, reg.Tokens.Access, adminOnly)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestPasswordResetRequestDoesNotRevealAccounts(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	reg, err := f.svc.Register(ctx, registerPayload("known@example.com", "0501234567"))
	require.NoError(t, err)

	known, err := f.svc.RequestPasswordReset(ctx, &ResetRequestPayload{Email: "known@example.com"})
	require.NoError(t, err)
	unknown, err := f.svc.RequestPasswordReset(ctx, &ResetRequestPayload{Email: "unknown@example.com"})
	require.NoError(t, err)
	assert.Equal(t, known, unknown)

	f.mailer.err = assert.AnError
	failing, err := f.svc.RequestPasswordReset(ctx, &ResetRequestPayload{Email: "known@example.com"})
	require.NoError(t, err)
	assert.Equal(t, known, failing)

	sent := f.mailer.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "known@example.com", sent[0].To)
	prefix := "https://brightscope.test/reset-password/" + util.EncodeUID(reg.User.ID) + "/"
	assert.Contains(t, sent[0].Text, prefix)
}

func TestResetPassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	reg, err := f.svc.Register(ctx, registerPayload("reset@example.com", "0501234567"))
	require.NoError(t, err)

	var user domain.User
	require.NoError(t, f.db.First(&user, reg.User.ID).Error)
	token, err := f.tokens.PasswordResetToken(&user)
	require.NoError(t, err)
	uid := util.EncodeUID(user.ID)

	_, err = f.svc.ResetPassword(ctx, uid, token, &ResetPasswordPayload{Password: "12345678", PasswordConfirm: "12345678"})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"Password cannot be entirely numeric."}, appErr.Fields["password"])

	_, err = f.svc.ResetPassword(ctx, uid, token, &ResetPasswordPayload{Password: "abcdefgh", PasswordConfirm: "abcdefgh"})
	appErr, ok = apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"Password must contain at least one number."}, appErr.Fields["password"])

	_, err = f.svc.ResetPassword(ctx, uid, token, &ResetPasswordPayload{Password: "newpass123", PasswordConfirm: "newpass124"})
	appErr, ok = apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"Passwords don't match."}, appErr.Fields["password_confirm"])

	_, err = f.svc.ResetPassword(ctx, "!!bad!!", token, &ResetPasswordPayload{Password: "newpass123", PasswordConfirm: "newpass123"})
	appErr, ok = apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid reset link", appErr.Message)

	res, err := f.svc.ResetPassword(ctx, uid, token, &ResetPasswordPayload{Password: "newpass123", PasswordConfirm: "newpass123"})
	require.NoError(t, err)
	assert.Equal(t, "Password reset successfully", res.Msg)

	// the password hash changed, so the same link no longer verifies
	_, err = f.svc.ResetPassword(ctx, uid, token, &ResetPasswordPayload{Password: "another123", PasswordConfirm: "another123"})
	appErr, ok = apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "Reset link has expired or is invalid", appErr.Message)

	_, err = f.svc.Login(ctx, &LoginPayload{Email: "reset@example.com", Password: "newpass123"})
	assert.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	reg, err := f.svc.Register(ctx, registerPayload("change@example.com", "0501234567"))
	require.NoError(t, err)
	authed, err := f.svc.JWTAuth(ctx, reg.Tokens.Access, nil)
	require.NoError(t, err)

	_, err = f.svc.ChangePassword(authed, &ChangePasswordPayload{Password: "short", Password2: "short"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.svc.ChangePassword(authed, &ChangePasswordPayload{Password: "changed123", Password2: "changed123"})
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, &LoginPayload{Email: "change@example.com", Password: "changed123"})
	assert.NoError(t, err)

	_, err = f.svc.ChangePassword(ctx, &ChangePasswordPayload{Password: "changed123", Password2: "changed123"})
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestPasswordStrength(t *testing.T) {
	assert.Nil(t, passwordStrength("abc12345"))
	assert.Nil(t, passwordStrength(""))
	assert.Equal(t, []string{"Password cannot be entirely numeric."}, passwordStrength("98765432"))
	assert.Equal(t, []string{"Password must contain at least one number."}, passwordStrength(strings.Repeat("x", 9)))
}
