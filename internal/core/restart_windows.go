//go:build windows

package core

import (
	"context"
	"os/exec"
	"time"
)

// RequestRestart schedules a system restart in five seconds, giving the
// user a moment to read the final report.
func RequestRestart() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return exec.CommandContext(ctx, "shutdown", "/r", "/t", "5").Run()
}
