//go:build !windows

package platform

import (
	"context"
	"testing"

	"codeberg.org/mutker/hostctl/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner(t *testing.T) {
	r := NewExecRunner()
	ctx := context.Background()

	res, err := r.Run(ctx, Command{Name: "sh", Args: []string{"-c", "echo hello"}})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello", res.Output)

	res, err = r.Run(ctx, Command{Name: "sh", Args: []string{"-c", "echo boom; exit 3"}})
	require.Error(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.True(t, errors.HasCode(err, ErrCommandFailed))
	assert.Contains(t, err.Error(), "exited with status 3: boom")

	_, err = r.Run(ctx, Command{Name: "hostctl-definitely-missing-binary"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrCommandNotFound))
}
