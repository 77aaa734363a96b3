package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoteWrapsStoreErrors(t *testing.T) {
	cause := errors.New("connection reset")
	err := Remote("assign device", cause)

	assert.ErrorIs(t, err, ErrRemote)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "assign device: connection reset", err.Error())

	var re *RemoteError
	assert.True(t, errors.As(err, &re))
	assert.Equal(t, "assign device", re.Op)
}

func TestRemotePassesDomainErrorsThrough(t *testing.T) {
	invalid := Invalid("device %s is %s", "d1", "retired")
	assert.Same(t, invalid, Remote("assign device", invalid))

	notFound := fmt.Errorf("load: %w", ErrNotFound)
	assert.Same(t, notFound, Remote("get", notFound))

	assert.NoError(t, Remote("noop", nil))
}

func TestHelpersCarrySentinels(t *testing.T) {
	assert.ErrorIs(t, Invalid("x"), ErrInvalidState)
	assert.ErrorIs(t, Validation("brand is required"), ErrValidation)
	assert.ErrorIs(t, NotFound("device %s", "d1"), ErrNotFound)
	assert.Equal(t, "validation failed: brand is required", Validation("brand is required").Error())
	assert.False(t, IsDomain(errors.New("boom")))
}
