//go:build !tinygo

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"barface/app"
	"barface/hal"
	"barface/internal/config"
	"barface/internal/preview"
	"barface/tickos/tasks/watchface"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	headless bool
	tui      bool

	settings = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "barface",
	Short: "Bar watch face on a tiny capability OS",
	Long: `barface runs a bar watch face on tickos, a small message passing OS.

The face shows the time and four bars for the hour of day, the hour of the
half day, the minute and the second. With --status it also shows one line of
text synced from a companion over the serial link (stdin by default).

Settings come from flags, BARFACE_* environment variables and barface.yaml.
Edits to the config file apply while running.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&cfgFile, "config", "", "config file (default ./barface.yaml or $HOME/.config/barface/barface.yaml)")
	f.BoolVar(&headless, "headless", false, "run without a window (same as --mode headless)")
	f.BoolVar(&tui, "tui", false, "preview the face in the terminal (same as --mode tui)")
	f.String("mode", config.ModeWindow, "host mode: window, headless or tui")
	f.Int("hz", 60, "tick rate in headless and tui modes")
	f.Uint64("ticks", 0, "stop after N ticks in headless mode (0 = run forever)")
	f.Int("scale", 3, "window scale")
	f.Bool("status", false, "show the status line synced from the companion link")
	f.Bool("24h", true, "24-hour clock")
	f.String("bars", config.BarsSource, "bar scaling: source or exact")
	f.String("zone", "", "IANA time zone (default local)")
	f.String("sync", "-", "companion link source, - for stdin")
	f.String("log-file", "", "append log lines to this file")
	f.Bool("debug", false, "show debug log lines")

	for key, name := range map[string]string{
		"host.mode":   "mode",
		"host.hz":     "hz",
		"host.ticks":  "ticks",
		"host.scale":  "scale",
		"face.status": "status",
		"face.bars":   "bars",
		"clock.24h":   "24h",
		"clock.zone":  "zone",
		"sync.path":   "sync",
		"log.file":    "log-file",
		"log.debug":   "debug",
	} {
		if err := settings.BindPFlag(key, f.Lookup(name)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "barface: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(settings, cfgFile)
	if err != nil {
		return err
	}
	switch {
	case headless:
		cfg.Host.Mode = config.ModeHeadless
	case tui:
		cfg.Host.Mode = config.ModeTUI
	}
	divisors, err := cfg.Face.Divisors()
	if err != nil {
		return err
	}

	logOut := io.Writer(os.Stderr)
	if cfg.Host.Mode == config.ModeTUI {
		logOut = io.Discard
	}
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}

	// The terminal preview owns stdin, so its link is fed by the status prompt.
	var syncIn io.Reader
	var send func(string) error
	switch {
	case cfg.Host.Mode == config.ModeTUI:
		pr, pw := io.Pipe()
		defer pw.Close()
		syncIn = pr
		if cfg.Face.Status {
			send = preview.StatusSender(pw)
		}
	case cfg.Sync.Path == "-":
		syncIn = os.Stdin
	default:
		f, err := os.Open(cfg.Sync.Path)
		if err != nil {
			return fmt.Errorf("opening sync link: %w", err)
		}
		defer f.Close()
		syncIn = f
	}

	h := hal.NewHost(hal.HostOptions{Log: logOut, Sync: syncIn, Is24Hour: cfg.Clock.Is24Hour})
	applyClock(h, cfg)
	if settings.ConfigFileUsed() != "" {
		config.Watch(settings, func(c *config.Config) {
			applyClock(h, c)
		}, func(err error) {
			h.Logger().WriteLineString("config: " + err.Error())
		})
	}

	appCfg := app.Config{Status: cfg.Face.Status, Debug: cfg.Log.Debug, Divisors: divisors}
	var frames chan watchface.Frame
	if cfg.Host.Mode == config.ModeTUI {
		frames = make(chan watchface.Frame, 1)
		appCfg.OnFrame = func(f watchface.Frame) {
			select {
			case <-frames:
			default:
			}
			frames <- f
		}
	}

	var sys *app.System
	newApp := func(hh hal.HAL) func() error {
		sys = app.New(hh, appCfg)
		return sys.Step
	}

	switch cfg.Host.Mode {
	case config.ModeWindow:
		err = hal.RunWindow(h, newApp, cfg.Host.Scale)
	case config.ModeHeadless:
		sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
		err = hal.RunHeadless(sigCtx, h, newApp, hal.HeadlessConfig{Hz: cfg.Host.Hz, Ticks: cfg.Host.Ticks})
	case config.ModeTUI:
		runCtx, cancel := context.WithCancel(ctx)
		errc := make(chan error, 1)
		go func() {
			errc <- hal.RunHeadless(runCtx, h, newApp, hal.HeadlessConfig{Hz: cfg.Host.Hz})
		}()
		err = preview.Run(runCtx, frames, send)
		cancel()
		if herr := <-errc; err == nil {
			err = herr
		}
	}
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	if sys != nil {
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if serr := sys.Shutdown(sctx); err == nil {
			err = serr
		}
	}
	return err
}

func applyClock(h *hal.Host, c *config.Config) {
	h.SystemClock().Set24Hour(c.Clock.Is24Hour)
	if loc, err := c.Clock.Location(); err == nil {
		h.SystemClock().SetLocation(loc)
	}
}
