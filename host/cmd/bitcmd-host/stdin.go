package main

import "io"

// detachReader copies r into a pipe. Closing the returned reader unblocks
// a pending Read, which closing a terminal os.Stdin does not do. The copy
// goroutine exits on the next read from r after that.
func detachReader(r io.Reader) io.ReadCloser {
	pr, pw := io.Pipe()
	go func() {
		_, err := io.Copy(pw, r)
		pw.CloseWithError(err)
	}()
	return pr
}
