//go:build !windows

package proc

import "context"

// windowTitle reports "" because only Windows exposes per-process window
// titles through a system API.
func windowTitle(context.Context, int32) (string, error) {
	return "", nil
}
