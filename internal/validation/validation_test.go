package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "brightscope/pkg/errors"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Kind     string `json:"kind" validate:"omitempty,oneof=a b"`
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := Struct(&signup{Email: "nope", Password: "short", Kind: "c"})
	require.Error(t, err)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	assert.Equal(t, DefaultMessage, appErr.Message)
	assert.Equal(t, []string{"Enter a valid email address."}, appErr.Fields["email"])
	assert.Equal(t, []string{"Ensure this field has at least 8 characters."}, appErr.Fields["password"])
	assert.Equal(t, []string{`"c" is not a valid choice.`}, appErr.Fields["kind"])
}

func TestStructPasses(t *testing.T) {
	assert.NoError(t, Struct(&signup{Email: "a@b.co", Password: "longenough"}))
}

func TestMerge(t *testing.T) {
	extra := apperrors.FieldErrors{"phone": {"bad phone"}}

	merged := Merge(nil, extra)
	appErr, ok := apperrors.As(merged)
	require.True(t, ok)
	assert.Equal(t, []string{"bad phone"}, appErr.Fields["phone"])

	base := Struct(&signup{})
	merged = Merge(base, extra)
	appErr, _ = apperrors.As(merged)
	assert.Contains(t, appErr.Fields, "email")
	assert.Contains(t, appErr.Fields, "phone")

	assert.Nil(t, Merge(nil, apperrors.FieldErrors{}))
}
