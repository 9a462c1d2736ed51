package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/braidcli/braid/internal/engine"
	"github.com/braidcli/braid/internal/filter"
	"github.com/braidcli/braid/internal/level"
	"github.com/braidcli/braid/internal/output"
	"github.com/braidcli/braid/internal/source"
	"github.com/braidcli/braid/internal/stats"
)

const eventBuffer = 256

func run(cmd *cobra.Command, args []string) error {
	// Without this, the runtime's default SIGPIPE disposition kills the
	// process on the first stdout write after the consumer closes the
	// pipe; ignoring it makes the write return EPIPE so the clean-exit
	// path below runs.
	signal.Ignore(syscall.SIGPIPE)

	// --- Filter configuration (fatal on bad level or condition) ---
	var minLevel level.Level
	if levelFlag != "" {
		var err error
		minLevel, err = level.Parse(levelFlag)
		if err != nil {
			return err
		}
	}
	fcfg, err := filter.New(minLevel, conditions, strictMode)
	if err != nil {
		return err
	}

	// --- Renderer and sink ---
	renderer, err := output.New(viper.GetString("output"), os.Stdout, output.Options{
		Color:     useColor(),
		LocalTime: viper.GetBool("localtime"),
	})
	if err != nil {
		return err
	}

	counters := stats.New()
	pipe := engine.NewPipeline(fcfg, output.NewSink(renderer), counters)

	// --- Resolve sources: explicit files/globs, or live stdin ---
	paths := args
	if len(paths) == 0 {
		paths = []string{source.Stdin}
	}
	paths = source.Expand(paths)

	// --- Graceful shutdown on SIGINT/SIGTERM ---
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	// --- Open and register every source, start its reader ---
	events := make(chan source.Event, eventBuffer)
	sources := make(map[string]*engine.Source, len(paths))
	active := 0

	for _, path := range paths {
		src := pipe.AddSource(path)
		sources[path] = src

		rc, err := source.Open(path)
		if err != nil {
			log.Warn().Err(err).Str("source", path).Msg("skipping source")
			exitStatus = 1
			if err := pipe.HandleReadError(src); err != nil {
				return emitFailure(err)
			}
			continue
		}

		r := source.NewReader(path, rc)
		if followMode && path != source.Stdin {
			if strings.HasSuffix(path, ".gz") {
				log.Warn().Str("source", path).Msg("cannot follow a gzipped file, reading to end")
			} else if err := r.Follow(path); err != nil {
				log.Warn().Err(err).Str("source", path).Msg("cannot follow, reading to end")
			}
		}
		pipe.Attach(src, r)
		go r.Run(ctx, events)
		active++
		log.Debug().Str("source", path).Msg("reading")
	}

	// --- Single-threaded event loop: every chunk is processed to ---
	// --- completion, including the drain it triggers, before the next ---
	interrupted := false
loop:
	for active > 0 {
		select {
		case <-ctx.Done():
			interrupted = true
			break loop

		case ev := <-events:
			src := sources[ev.ID]
			switch {
			case ev.Err != nil:
				log.Warn().Err(ev.Err).Str("source", ev.ID).Msg("read failed")
				exitStatus = 1
				err = pipe.HandleReadError(src)
				active--
			case ev.EOF:
				err = pipe.HandleEOF(src)
				active--
			default:
				err = pipe.HandleChunk(src, ev.Data)
			}
			if err != nil {
				cancel()
				return emitFailure(err)
			}
		}
	}

	// On interruption, stop reading but flush already-accepted records.
	if interrupted {
		if err := pipe.Shutdown(); err != nil && !isBrokenPipe(err) {
			return err
		}
	}

	if showStats {
		fmt.Fprint(os.Stderr, counters.Summary())
	}
	return nil
}

// emitFailure classifies a terminal emission error. The consumer closing
// the pipe is a normal way for a run to end: stop writing and exit clean.
// Anything else is fatal.
func emitFailure(err error) error {
	if isBrokenPipe(err) {
		log.Debug().Msg("output closed by consumer")
		return nil
	}
	return err
}

func isBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, os.ErrClosed)
}
