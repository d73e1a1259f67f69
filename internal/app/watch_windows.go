//go:build windows

package app

import "os"

// shutdownSignals are the OS signals that trigger graceful shutdown of
// watch and serve.
var shutdownSignals = []os.Signal{os.Interrupt}
