package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeFetch, cause, "failed to fetch")

	if err.Code != ErrCodeFetch {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeFetch)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeFetch,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeFetch, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeFetch,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "validation error",
			err:      &ValidationError{Issues: []Issue{{Kind: IssueDuplicateNode, NodeID: 1}}},
			code:     ErrCodeInvalidGraph,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeInvalidFormat, "test"), ErrCodeInvalidFormat},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"plain error", errors.New("plain error"), "plain error"},
		{"fetch error", NewFetchError(errors.New("refused"), "GET /api/graph"), "GET /api/graph"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFetchError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewFetchError(cause, "GET %s", "http://localhost:8000/api/graph")

	if !IsFetchError(err) {
		t.Error("IsFetchError() = false, want true")
	}
	if !errors.Is(err, cause) {
		t.Error("fetch error should unwrap to its cause")
	}
	if IsFetchError(New(ErrCodeInvalidInput, "x")) {
		t.Error("IsFetchError() should be false for other codes")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(ErrCodeInvalidInput, "bad"), http.StatusBadRequest},
		{fmt.Errorf("graph: %w", NewFetchError(nil, "503")), http.StatusBadGateway},
		{New(ErrCodeNodeNotFound, "node 3"), http.StatusNotFound},
		{&ValidationError{Issues: []Issue{{Kind: IssueSelfLoop, NodeID: 2}}}, http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestValidationError(t *testing.T) {
	t.Run("single issue", func(t *testing.T) {
		err := &ValidationError{Issues: []Issue{{Kind: IssueDuplicateNode, NodeID: 7}}}
		if got := err.Error(); got != "INVALID_GRAPH: duplicate node id 7" {
			t.Errorf("Error() = %q", got)
		}
		if !err.Has(IssueDuplicateNode) {
			t.Error("Has(IssueDuplicateNode) = false")
		}
		if err.Has(IssueSelfLoop) {
			t.Error("Has(IssueSelfLoop) = true")
		}
	})

	t.Run("multiple issues", func(t *testing.T) {
		err := &ValidationError{Issues: []Issue{
			{Kind: IssueSelfLoop, Source: 1, Target: 1},
			{Kind: IssueDanglingEdge, Source: 1, Target: 3},
			{Kind: IssueInvalidStrength, Source: 1, Target: 2, Strength: -0.5},
		}}
		msg := err.Error()
		for _, want := range []string{"3 issues", "self-loop", "missing node", "-0.5"} {
			if !strings.Contains(msg, want) {
				t.Errorf("Error() = %q, missing %q", msg, want)
			}
		}
		if UserMessage(err) != "3 invalid graph entries" {
			t.Errorf("UserMessage() = %q", UserMessage(err))
		}
	})

	t.Run("errors.As", func(t *testing.T) {
		var wrapped error = Wrap(ErrCodeInternal, &ValidationError{Issues: []Issue{{Kind: IssueDuplicateNode}}}, "build")
		var ve *ValidationError
		if !errors.As(wrapped, &ve) {
			t.Fatal("errors.As should find the ValidationError")
		}
		if len(ve.Issues) != 1 {
			t.Errorf("Issues = %d, want 1", len(ve.Issues))
		}
	})
}
