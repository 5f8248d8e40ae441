//go:build !linux && !windows

package platform

func detectCapabilities(Options) Capabilities {
	return Capabilities{}
}
