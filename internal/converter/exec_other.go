//go:build !windows

package converter

import "os/exec"

// hideWindowOnWindows 在非 Windows 平台上不做任何操作
func hideWindowOnWindows(cmd *exec.Cmd) {}
