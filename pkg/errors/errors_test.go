package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "WithoutCause",
			err:  New(ErrCodeNodeNotFound, "node %q not found", "a"),
			want: `NODE_NOT_FOUND: node "a" not found`,
		},
		{
			name: "WithCause",
			err:  Wrap(ErrCodeNetwork, fmt.Errorf("connection refused"), "fetch network"),
			want: "NETWORK_ERROR: fetch network: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeHasChildren, "cannot remove node with children")
	if !Is(err, ErrCodeHasChildren) {
		t.Error("Is() = false, want true")
	}
	if Is(err, ErrCodeNodeNotFound) {
		t.Error("Is() matched wrong code")
	}
	if Is(stderrors.New("plain"), ErrCodeHasChildren) {
		t.Error("Is() matched plain error")
	}

	// Code checks must survive wrapping.
	wrapped := fmt.Errorf("outer: %w", err)
	if !Is(wrapped, ErrCodeHasChildren) {
		t.Error("Is() did not unwrap")
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrCodeStorage, cause, "save snapshot")
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is did not find cause")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "Structured",
			err:  New(ErrCodeNodeNotFound, "node %q not found", "x"),
			want: `node "x" not found`,
		},
		{
			name: "Plain",
			err:  stderrors.New("boom"),
			want: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"Invalid", New(ErrCodeInvalidInput, "bad"), http.StatusBadRequest},
		{"NotFound", New(ErrCodeNodeNotFound, "missing"), http.StatusNotFound},
		{"Conflict", New(ErrCodeHasChildren, "has children"), http.StatusConflict},
		{"NeutralConflict", New(ErrCodeConflict, "conflict"), http.StatusConflict},
		{"Internal", New(ErrCodeInternal, "boom"), http.StatusInternalServerError},
		{"Plain", stderrors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"Valid", "root.1", false},
		{"ValidUnicode", "zentrale-münchen", false},
		{"Empty", "", true},
		{"Slash", "a/b", true},
		{"Backslash", `a\b`, true},
		{"Traversal", "a..b", true},
		{"Control", "a\x00b", true},
		{"TooLong", string(make([]byte, 300)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name        string
		minChildren int
		balance     float64
		wantErr     bool
	}{
		{"Defaults", 2, 0.5, false},
		{"MinThreshold", 1, 0, false},
		{"ZeroThreshold", 0, 0.5, true},
		{"NegativeBalance", 2, -0.1, true},
		{"BalanceTooLarge", 2, 1.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSettings(tt.minChildren, tt.balance)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSettings(%d, %v) error = %v, wantErr %v",
					tt.minChildren, tt.balance, err, tt.wantErr)
			}
		})
	}
}
