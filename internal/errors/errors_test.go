package errors

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrRegistry,
		ErrParse,
		ErrContext,
		ErrDispatch,
		ErrTracker,
		ErrLock,
		ErrConfig,
		ErrFileSystem,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "registry error",
			code:       ErrRegistry,
			message:    `Command key "project echo" is already registered`,
			suggestion: "Register each command key once",
		},
		{
			name:       "parse error",
			code:       ErrParse,
			message:    "Missing required option --name",
			suggestion: "Pass --name <value>",
		},
		{
			name:       "tracker error",
			code:       ErrTracker,
			message:    "Cannot open tracking file",
			suggestion: "Check the file permissions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name          string
		err           *Error
		expectedParts []string
		notExpected   []string
	}{
		{
			name:          "basic error formatting",
			err:           New(ErrConfig, "Invalid configuration", "Check .cmdtree.yaml syntax"),
			expectedParts: []string{"Invalid configuration", "Check .cmdtree.yaml syntax"},
		},
		{
			name:          "error with failure symbol",
			err:           New(ErrDispatch, "Handler failed", "Try again"),
			expectedParts: []string{"✗", "Handler failed"},
		},
		{
			name:          "error without suggestion",
			err:           New(ErrParse, "Bad flag", ""),
			expectedParts: []string{"Bad flag"},
			notExpected:   []string{"\n\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := tt.err.Error()

			for _, part := range tt.expectedParts {
				assert.Contains(t, output, part, "output should contain %q", part)
			}
			for _, part := range tt.notExpected {
				assert.NotContains(t, output, part, "output should not contain %q", part)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("factory exploded")
	wrapped := Wrap(cause, "Handler resolution failed")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrDispatch, wrapped.Code, "Wrap should default to ErrDispatch code")
	assert.Equal(t, "Handler resolution failed", wrapped.Message)
	assert.Equal(t, cause, wrapped.Cause)
}

func TestWrapWithCode(t *testing.T) {
	cause := errors.New("file not found")
	wrapped := WrapWithCode(cause, ErrConfig, "Failed to load config", "Create a .cmdtree.yaml file")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrConfig, wrapped.Code)
	assert.Equal(t, "Failed to load config", wrapped.Message)
	assert.Equal(t, "Create a .cmdtree.yaml file", wrapped.Suggestion)
	assert.Equal(t, cause, wrapped.Cause)
	assert.Contains(t, wrapped.Error(), "file not found")
}

func TestErrorsIsAndAs(t *testing.T) {
	sentinel := errors.New("duplicate key")
	wrapped := WrapWithCode(sentinel, ErrRegistry, "Registration failed", "")

	assert.True(t, errors.Is(wrapped, sentinel))

	var ctErr *Error
	require.True(t, errors.As(wrapped, &ctErr))
	assert.Equal(t, ErrRegistry, ctErr.Code)
}

func TestIsCode(t *testing.T) {
	err := New(ErrConfig, "Config error", "")

	assert.True(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(err, ErrParse))
	assert.False(t, IsCode(errors.New("standard error"), ErrConfig))
	assert.False(t, IsCode(nil, ErrConfig))
}

func TestErrorMessageStructure(t *testing.T) {
	err := WrapWithCode(
		errors.New("permission denied"),
		ErrTracker,
		"Cannot append to tracking file",
		"Check the file permissions",
	)

	lines := strings.Split(err.Error(), "\n")

	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[0]), "✗"), "First line should start with failure symbol")
	assert.Contains(t, lines[0], "Cannot append to tracking file")
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain error", err: errors.New("boom"), want: "boom"},
		{name: "structured without cause", err: New(ErrParse, "Bad input", "ignored"), want: "Bad input"},
		{
			name: "structured with cause",
			err:  WrapWithCode(errors.New("disk full"), ErrTracker, "Append failed", ""),
			want: "Append failed: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summary(tt.err))
		})
	}
}
