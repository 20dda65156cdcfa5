// cmd/smcprobe/main.go
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tamzrod/smc-keys/internal/config"
	"github.com/tamzrod/smc-keys/internal/platform"
	"github.com/tamzrod/smc-keys/internal/poller"
	"github.com/tamzrod/smc-keys/internal/smc"
	"github.com/tamzrod/smc-keys/internal/status"
)

const usage = "usage: smcprobe <config.yaml> [poll|read KEY|info KEY|adapter|wake-prime|wake-result]\n" +
	"       smcprobe trace FILE"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	// Capture files are read without touching the controller.
	if os.Args[1] == "trace" {
		if len(os.Args) != 3 {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		if err := dumpTrace(os.Stdout, os.Args[2]); err != nil {
			fatal(slog.Default(), "trace failed", err)
		}
		return
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatal(slog.Default(), "config load failed", err)
	}

	if err := config.Validate(cfg); err != nil {
		fatal(slog.Default(), "config validation failed", err)
	}
	config.Normalize(cfg)

	logger := platform.NewLogger(cfg.Log.Level, os.Stderr)
	slog.SetDefault(logger)

	// --------------------
	// Build controller stack
	// --------------------

	rt, err := platform.Build(cfg, logger)
	if err != nil {
		fatal(logger, "controller build failed", err)
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := "poll"
	args := os.Args[2:]
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	if err := run(ctx, logger, cfg, rt, cmd, args); err != nil {
		rt.Close()
		fatal(logger, cmd+" failed", err)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.Config, rt *platform.Runtime, cmd string, args []string) error {
	switch cmd {
	case "poll":
		return runPoll(ctx, logger, cfg, rt)

	case "read", "info":
		if len(args) != 1 {
			return fmt.Errorf("%s needs exactly one KEY", cmd)
		}
		key, err := smc.KeyOf(args[0])
		if err != nil {
			return err
		}
		if rt.Client == nil {
			return &smc.Error{Op: cmd, Key: key, Kind: smc.ErrServiceUnavailable}
		}
		if cmd == "info" {
			info, err := rt.Client.KeyInfo(ctx, key)
			if err != nil {
				return err
			}
			fmt.Printf("%s size=%d type=%s attributes=0x%02x\n", key, info.DataSize, info.TypeName(), info.Attributes)
			return nil
		}
		buf := make([]byte, smc.PayloadSize)
		n, err := rt.Client.ReadKey(ctx, key, buf)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", key, hex.EncodeToString(buf[:n]))
		return nil

	case "adapter":
		id, err := rt.Helpers.ReadAdapterIdentity(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s (0x%016x)\n", smc.KeyAdapterID, id, id.Uint64())
		return nil

	case "wake-prime":
		return rt.Helpers.PrimeWakeTimer(ctx)

	case "wake-result":
		ms, err := rt.Helpers.ReadWakeTimerResult(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s %dms\n", smc.KeyWakeClock, ms)
		return nil

	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

// runPoll samples until ctx is done and keeps the health snapshot current.
func runPoll(ctx context.Context, logger *slog.Logger, cfg *config.Config, rt *platform.Runtime) error {
	p, err := poller.Build(cfg.Poll, rt.Helpers)
	if err != nil {
		return err
	}

	// ---- channel between poller and tracker ----
	out := make(chan poller.PollResult)
	go p.Run(ctx, out)

	var tr status.Tracker

	// Tracker-owned state + 1Hz seconds ticker
	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("poll stopped", "status", tr.Snapshot().String())
			return nil

		case res := <-out:
			report(logger, &tr, res, cfg.Poll.AdapterIdentity)

		case <-secTicker.C:
			// Tick 1 Hz while not OK.
			if tr.Tick() {
				logger.Debug("smc status tick", "status", tr.Snapshot().String())
			}
		}
	}
}

// report logs one poll cycle and applies it to tr. The full status block is
// logged whenever the snapshot changes.
func report(logger *slog.Logger, tr *status.Tracker, res poller.PollResult, trackAdapter bool) {
	if res.Err != nil {
		logger.Warn("poll cycle failed", "error", res.Err)
	}
	for _, v := range res.Values {
		logger.Info("smc key", "key", v.Key, "value", v.Value)
	}
	if res.AdapterKnown {
		logger.Info("smc adapter", "identity", res.Adapter.String())
	} else if res.AdapterErr != nil {
		logger.Debug("adapter identity unknown", "error", res.AdapterErr)
	}

	changed := tr.Observe(res.Err)
	if trackAdapter && tr.ObserveAdapter(res.AdapterKnown) {
		changed = true
	}
	if changed {
		snap := tr.Snapshot()
		logger.Info("smc status changed", "status", snap.String(), "block", status.Encode(snap))
	}
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err, "code", smc.StatusOf(err).String())
	os.Exit(1)
}
