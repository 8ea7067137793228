package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDriverError_Error(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name string
		err  *DriverError
		want string
	}{
		{"with cause", HostingError("pull request lookup failed", cause), "[HOSTING] pull request lookup failed: connection refused"},
		{"without cause", ProcessError("git clone exited non-zero", nil), "[PROCESS] git clone exited non-zero"},
		{"config", ConfigError("bad file", nil), "[CONFIG] bad file"},
		{"validation", ValidationError("bad state", nil), "[VALIDATION] bad state"},
		{"transition", TransitionError("testing+pull_success", nil), "[TRANSITION] testing+pull_success"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestIsType(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", HostingError("lookup", nil))

	assert.True(t, IsType(err, ErrHosting))
	assert.False(t, IsType(err, ErrProcess))
	assert.False(t, IsType(nil, ErrHosting))
	assert.False(t, IsType(errors.New("plain"), ErrHosting))
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(TransitionError("x", nil)))
	assert.True(t, IsFatal(ConfigError("x", nil)))
	assert.False(t, IsFatal(ProcessError("x", nil)))
	assert.False(t, IsFatal(HostingError("x", nil)))
	assert.False(t, IsFatal(errors.New("plain")))
}

func TestUnwrapAndContext(t *testing.T) {
	cause := errors.New("root")
	err := ProcessError("git pull", cause).WithContext("exit_code", 128)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 128, err.Context["exit_code"])
}
