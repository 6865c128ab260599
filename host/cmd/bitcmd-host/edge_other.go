//go:build !unix

package main

import "os"

// No user signal to map to the edge input
func edgeSignals() (<-chan os.Signal, func()) {
	return nil, func() {}
}
