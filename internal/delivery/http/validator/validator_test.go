package validator

import (
	"testing"

	domainerrors "blogsphere/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupRequest struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email"`
	OTP      string `json:"otp" validate:"omitempty,len=6,numeric"`
}

func TestCustomValidator_Validate(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(&signupRequest{Username: "ann_lee", Email: "ann@example.com", OTP: "123456"}))

	tests := []struct {
		name    string
		req     signupRequest
		details string
	}{
		{
			name:    "missing username",
			req:     signupRequest{Email: "ann@example.com"},
			details: "username is required",
		},
		{
			name:    "username with spaces",
			req:     signupRequest{Username: "ann lee", Email: "ann@example.com"},
			details: "username must be 3-30 letters, digits or underscores",
		},
		{
			name:    "bad email",
			req:     signupRequest{Username: "ann", Email: "not-an-email"},
			details: "email must be a valid email address",
		},
		{
			name:    "short otp",
			req:     signupRequest{Username: "ann", Email: "ann@example.com", OTP: "123"},
			details: "otp must be exactly 6 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)

			var appErr domainerrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, domainerrors.ErrValidationFailed.ErrorCode(), appErr.ErrorCode())
			assert.Contains(t, appErr.Details(), tt.details)
		})
	}
}
