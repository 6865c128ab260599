// Package runner drives a core.Interpreter from a byte stream on a
// workstation. A reader goroutine plays the byte-received interrupt and the
// poll loop plays the firmware main loop.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"bitcmd/core"
)

// DefaultPollInterval matches the firmware main loop period
const DefaultPollInterval = time.Millisecond

// Runner feeds Source into Interp and polls it until the source ends or the
// context is cancelled.
type Runner struct {
	Interp *core.Interpreter
	Source io.Reader

	// Clock paces the poll loop and byte pacing. Real clock if nil.
	Clock clockwork.Clock

	// PollInterval is the main loop period, DefaultPollInterval if zero
	PollInterval time.Duration

	// BytePacing delays each byte like a UART line does. Zero delivers
	// bytes as fast as Source yields them.
	BytePacing time.Duration

	// IgnoreLineEndings drops CR and LF before they reach the interpreter
	IgnoreLineEndings bool

	// Edges counts one external edge per received value
	Edges <-chan os.Signal
}

// Run blocks until Source returns EOF (after one final poll), ctx is
// cancelled, or Source fails. Only a read failure is returned.
//
// If Source is an io.Closer it is closed on cancellation to unblock the
// reader.
func (r *Runner) Run(ctx context.Context) error {
	if r.Interp == nil || r.Source == nil {
		return errors.New("runner needs an interpreter and a source")
	}
	if r.Clock == nil {
		r.Clock = clockwork.NewRealClock()
	}
	if r.PollInterval <= 0 {
		r.PollInterval = DefaultPollInterval
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	if c, ok := r.Source.(io.Closer); ok {
		stop := context.AfterFunc(gctx, func() { _ = c.Close() })
		defer stop()
	}

	sourceDone := make(chan struct{})
	g.Go(func() error {
		defer close(sourceDone)
		return r.readLoop(gctx)
	})
	g.Go(func() error {
		// Poll loop ending stops the edge loop too
		defer cancel()
		return r.pollLoop(gctx, sourceDone)
	})
	if r.Edges != nil {
		g.Go(func() error {
			return r.edgeLoop(gctx)
		})
	}

	err := g.Wait()
	log.Debug().Err(err).Msg("runner stopped")
	return err
}

// readLoop is the producer side
func (r *Runner) readLoop(ctx context.Context) error {
	buf := make([]byte, 64)
	for {
		n, err := r.Source.Read(buf)
		for _, c := range buf[:n] {
			if r.IgnoreLineEndings && (c == '\r' || c == '\n') {
				continue
			}
			if r.BytePacing > 0 {
				select {
				case <-ctx.Done():
					return nil
				case <-r.Clock.After(r.BytePacing):
				}
			}
			r.Interp.OnByteReceived(c)
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Debug().Msg("byte source closed")
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to read byte source: %w", err)
		}
	}
}

// pollLoop is the main loop. The final poll after the source ends drains
// whatever the reader pushed last.
func (r *Runner) pollLoop(ctx context.Context, sourceDone <-chan struct{}) error {
	ticker := r.Clock.NewTicker(r.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sourceDone:
			r.Interp.Poll()
			return nil
		case <-ticker.Chan():
			r.Interp.Poll()
		}
	}
}

func (r *Runner) edgeLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-r.Edges:
			if !ok {
				return nil
			}
			r.Interp.OnEdge()
		}
	}
}
