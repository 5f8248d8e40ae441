package platform

import "os/exec"

// Options tunes how the platform adapter reaches the OS.
type Options struct {
	Runner    Runner
	LookPath  func(file string) (string, error)
	SysfsRoot string
}

// Platform bundles the host adapters for one machine.
type Platform struct {
	Facts        Facts
	Power        Power
	Processes    Processes
	Capabilities Capabilities
}

// New builds the adapters for the running OS. Capabilities are probed once;
// missing helper programs leave the matching field nil.
func New(opts Options) *Platform {
	if opts.Runner == nil {
		opts.Runner = NewExecRunner()
	}
	if opts.LookPath == nil {
		opts.LookPath = exec.LookPath
	}
	if opts.SysfsRoot == "" {
		opts.SysfsRoot = "/sys"
	}

	host := NewHost()

	return &Platform{
		Facts:        host,
		Power:        newPower(opts),
		Processes:    host,
		Capabilities: detectCapabilities(opts),
	}
}

// Available lists capability names and whether each is present.
func (c Capabilities) Available() map[string]bool {
	return map[string]bool{
		"brightness": c.Brightness != nil,
		"input":      c.Input != nil,
		"screen":     c.Screen != nil,
		"volume":     c.Volume != nil,
		"display":    c.Display != nil,
	}
}

// firstTool returns the first of names found on PATH.
func firstTool(lookPath func(string) (string, error), names ...string) string {
	for _, n := range names {
		if _, err := lookPath(n); err == nil {
			return n
		}
	}

	return ""
}
