package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "with cause",
			err:  NewParsingError("bad video row", stderrors.New("strconv failed")),
			want: "[PARSING] bad video row: strconv failed",
		},
		{
			name: "without cause",
			err:  NewValidationError("range check failed"),
			want: "[VALIDATION] range check failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := NewStorageError("write video_results.csv", cause)

	assert.True(t, stderrors.Is(err, cause))

	wrapped := fmt.Errorf("export stage: %w", err)
	var appErr *AppError
	require.True(t, stderrors.As(wrapped, &appErr))
	assert.Equal(t, ErrTypeStorage, appErr.Type)
}

func TestAppErrorWithContext(t *testing.T) {
	err := NewInputError("scan file is empty", nil).
		WithContext("path", "results.txt").
		WithContext("size", 0)

	assert.Equal(t, "results.txt", err.Context["path"])
	assert.Equal(t, 0, err.Context["size"])
}

func TestGetType(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{
			name: "direct app error",
			err:  NewConfigError("bad tolerance", nil),
			want: ErrTypeConfig,
		},
		{
			name: "wrapped app error",
			err:  fmt.Errorf("load: %w", NewNotFoundError("scan file")),
			want: ErrTypeNotFound,
		},
		{
			name: "plain error",
			err:  stderrors.New("plain"),
			want: "",
		},
		{
			name: "nil",
			err:  nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetType(tt.err))
		})
	}
}

func TestIsType(t *testing.T) {
	err := NewReportError("missing aggregate tables", nil)
	assert.True(t, IsType(err, ErrTypeReport))
	assert.False(t, IsType(err, ErrTypeParsing))
	assert.False(t, IsType(nil, ErrTypeReport))
}
