//go:build !windows

package core

import (
	"context"
	"os/exec"
	"time"
)

// RequestRestart asks the system to reboot now. Requires root.
func RequestRestart() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return exec.CommandContext(ctx, "shutdown", "-r", "now").Run()
}
