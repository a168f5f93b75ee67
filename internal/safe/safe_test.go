package safe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	require.NoError(t, Run("noop", func() error { return nil }))

	boom := errors.New("boom")
	err := Run("scope", func() error { return boom })
	require.ErrorIs(t, err, boom)
	assert.EqualError(t, err, "scope: boom")

	err = Run("handler", func() error { panic("nil map write") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handler: panic recovered: nil map write")
}
