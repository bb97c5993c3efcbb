package model

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForm_Attributes(t *testing.T) {
	assert.Equal(t, "email", FormSignUp.IdentifierField())
	assert.Equal(t, "password", FormSignUp.SecretField())
	assert.Equal(t, "Sign Up", FormSignUp.Label())
	assert.Equal(t, "Account created successfully!", FormSignUp.AckMessage())

	assert.Equal(t, "login-email", FormLogIn.IdentifierField())
	assert.Equal(t, "login-password", FormLogIn.SecretField())
	assert.Equal(t, "Log In", FormLogIn.Label())
	assert.Equal(t, "Logged in successfully!", FormLogIn.AckMessage())
}

func TestForm_LabelsDistinct(t *testing.T) {
	assert.NotEqual(t, FormSignUp.Label(), FormLogIn.Label())
}

func TestParseForm(t *testing.T) {
	f, err := ParseForm("sign-up")
	require.NoError(t, err)
	assert.Equal(t, FormSignUp, f)

	f, err = ParseForm("login")
	require.NoError(t, err)
	assert.Equal(t, FormLogIn, f)

	_, err = ParseForm("reset")
	assert.ErrorIs(t, err, ErrUnknownForm)
	assert.False(t, Form("reset").Valid())
}

func TestCaptureRecord_String(t *testing.T) {
	rec := CaptureRecord{ID: uuid.New(), Form: FormSignUp, Identifier: "a@b.com", Secret: "x"}
	assert.Equal(t, "Sign Up: a@b.com x", rec.String())

	rec = CaptureRecord{Form: FormLogIn, Identifier: "c@d.com", Secret: "y"}
	assert.Equal(t, "Log In: c@d.com y", rec.String())
}

func TestMissingElementError_IsSentinel(t *testing.T) {
	var err error = &MissingElementError{ID: "email"}

	assert.ErrorIs(t, err, ErrMissingElement)
	assert.Contains(t, err.Error(), `"email"`)

	var target *MissingElementError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "email", target.ID)
}
