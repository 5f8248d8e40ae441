package platform

import (
	"context"
	"sync"
)

type fakeRunner struct {
	mu       sync.Mutex
	calls    []Command
	outputs  map[string]string
	failures map[string]error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{outputs: map[string]string{}, failures: map[string]error{}}
}

func (f *fakeRunner) Run(_ context.Context, cmd Command) (CommandResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, cmd)
	key := cmd.String()
	if err, ok := f.failures[key]; ok {
		return CommandResult{ExitCode: 1}, err
	}

	return CommandResult{Output: f.outputs[key]}, nil
}

func (f *fakeRunner) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.String()
	}

	return out
}

type fakeDisplay struct{}

func (*fakeDisplay) DisplayOff(context.Context) error { return nil }
