//go:build !windows

package app

import (
	"os"
	"syscall"
)

// shutdownSignals are the OS signals that trigger graceful shutdown of
// watch and serve.
var shutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
