//go:build unix

package main

import (
	"os"
	"os/signal"
	"syscall"
)

// edgeSignals delivers SIGUSR1 as an external edge until stop is called
func edgeSignals() (edges <-chan os.Signal, stop func()) {
	ch := make(chan os.Signal, 4)
	signal.Notify(ch, syscall.SIGUSR1)
	return ch, func() { signal.Stop(ch) }
}
