package platform

import (
	"context"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"codeberg.org/mutker/hostctl/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKillMissingProcess(t *testing.T) {
	h := NewHost()

	_, err := h.Kill(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrProcessNotFound))

	_, err = h.Kill(context.Background(), 1<<30)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrProcessNotFound))
}

func TestKillChildProcess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sleep(1)")
	}
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())
	t.Cleanup(func() { _ = cmd.Process.Kill() })

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	name, err := NewHost().Kill(context.Background(), int32(cmd.Process.Pid))
	require.NoError(t, err)
	assert.Equal(t, "sleep", name)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("process was not terminated")
	}
}

func TestClassifyProcessErr(t *testing.T) {
	assert.True(t, errors.HasCode(classifyProcessErr(1, errors.New().New(ErrQueryFailed)), ErrCommandFailed))
}

func TestHostFacts(t *testing.T) {
	h := NewHost()
	ctx := context.Background()

	mem, err := h.MemoryPercent(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, mem, 0.0)
	assert.LessOrEqual(t, mem, 100.0)

	up, err := h.Uptime(ctx)
	require.NoError(t, err)
	assert.Greater(t, up, time.Duration(0))

	ifaces, err := h.Interfaces(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, ifaces)
}
