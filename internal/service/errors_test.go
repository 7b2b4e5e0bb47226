package service

import (
	"errors"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "field and message",
			err: &ValidationError{
				Field:   "name",
				Message: "cannot be empty",
			},
			want: "validation error on field name: cannot be empty",
		},
		{
			name: "empty field",
			err: &ValidationError{
				Field:   "",
				Message: "invalid",
			},
			want: "validation error on field : invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ValidationError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidationError_IsInvalidInput(t *testing.T) {
	err := WrapError(&ValidationError{Field: "k", Message: "too large"}, "visualize")
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("errors.Is(ValidationError, ErrInvalidInput) = false")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "k" {
		t.Errorf("errors.As() = %v", ve)
	}
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		msg     string
		wantNil bool
		wantMsg string
	}{
		{
			name:    "nil error",
			err:     nil,
			msg:     "context",
			wantNil: true,
		},
		{
			name:    "wrapped error",
			err:     errors.New("original error"),
			msg:     "context",
			wantMsg: "context: original error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapError(tt.err, tt.msg)
			if tt.wantNil {
				if got != nil {
					t.Errorf("WrapError() = %v, want nil", got)
				}
				return
			}
			if got.Error() != tt.wantMsg {
				t.Errorf("WrapError() = %v, want %v", got, tt.wantMsg)
			}
			if !errors.Is(got, tt.err) {
				t.Error("WrapError() should preserve the wrapped error")
			}
		})
	}
}

func TestValidateRequest(t *testing.T) {
	type req struct {
		Name  string `validate:"required"`
		Limit int    `validate:"min=0,max=10"`
	}

	tests := []struct {
		name      string
		req       req
		wantField string
	}{
		{name: "valid", req: req{Name: "a", Limit: 5}},
		{name: "missing name", req: req{Limit: 1}, wantField: "name"},
		{name: "limit too large", req: req{Name: "a", Limit: 11}, wantField: "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRequest(tt.req)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("validateRequest() error = %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.wantField {
				t.Errorf("validateRequest() error = %v, want field %s", err, tt.wantField)
			}
		})
	}
}
