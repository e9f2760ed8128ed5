// ABOUTME: Entry point for the earwax player
// ABOUTME: Parses CLI flags and plays audio files through the decoder
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/Sendspin/earwax-go/internal/playback"
	"github.com/Sendspin/earwax-go/internal/ui"
	"github.com/Sendspin/earwax-go/internal/version"
	"github.com/Sendspin/earwax-go/pkg/audio/output"
	"github.com/Sendspin/earwax-go/pkg/earwax"
)

var (
	configFile = flag.String("config", "earwax.yaml", "Settings file (YAML)")
	outputName = flag.String("output", "", "Audio output: "+strings.Join(output.Backends, ", "))
	logLevel   = flag.String("loglevel", "", "Decoder verbosity: quiet, error, info, debug")
	logFile    = flag.String("log-file", "", "Log file path")
	noTUI      = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	start      = flag.Int64("start", 0, "Start position of the first file in seconds")
	volume     = flag.Int("volume", 0, "Initial volume 0-100")
	deviceRate = flag.Int("device-rate", 0, "Output sample rate (default: rate of the first file)")
	bitDepth   = flag.Int("bit-depth", 0, "Output bit depth: 16, 24 or 32")
	showVer    = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] file-or-url...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVer {
		fmt.Println(version.String())
		return
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "earwax: %v\n", err)
		os.Exit(2)
	}

	if err := run(cfg, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "earwax: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the settings file and applies flags given on the command line
func loadConfig() (playback.FileConfig, error) {
	cfg, err := playback.LoadFileConfig(*configFile)
	if err != nil {
		return cfg, err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "output":
			cfg.Output = *outputName
		case "loglevel":
			cfg.LogLevel = *logLevel
		case "log-file":
			cfg.LogFile = *logFile
		case "no-tui":
			cfg.NoTUI = *noTUI
		case "volume":
			cfg.Volume = *volume
		case "device-rate":
			cfg.DeviceRate = *deviceRate
		case "bit-depth":
			cfg.BitDepth = *bitDepth
		}
	})

	if _, ok := earwax.ParseLogLevel(cfg.LogLevel); !ok {
		return cfg, fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}
	if cfg.Volume < 0 || cfg.Volume > 100 {
		return cfg, fmt.Errorf("volume %d out of range 0-100", cfg.Volume)
	}
	return cfg, nil
}

// newLogger logs to the log file, and to stdout as well when the TUI is off
func newLogger(cfg playback.FileConfig) (*zap.Logger, error) {
	paths := []string{cfg.LogFile}
	if cfg.NoTUI {
		paths = append(paths, "stdout")
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	zc.OutputPaths = paths
	zc.DisableStacktrace = true
	return zc.Build()
}

func run(cfg playback.FileConfig, paths []string) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	level, _ := earwax.ParseLogLevel(cfg.LogLevel)
	restore := earwax.SetLogger(logger)
	defer restore()
	earwax.SetLogLevel(level)

	logger.Info("starting", zap.String("version", version.Version), zap.Strings("paths", paths))

	out, err := output.New(cfg.Output, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := out.Close(); err != nil {
			logger.Warn("error closing output", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// TUI setup
	var tuiProg *tea.Program
	var ctrl *ui.Control
	if !cfg.NoTUI {
		ctrl = ui.NewControl()
		tuiProg = ui.Run(ctrl)
	}

	// Helper to update TUI
	updateTUI := func(msg ui.StatusMsg) {
		if tuiProg != nil {
			tuiProg.Send(msg)
		}
	}

	player, err := playback.New(playback.Config{
		Output:       out,
		Logger:       logger,
		BitDepth:     cfg.BitDepth,
		DeviceRate:   cfg.DeviceRate,
		StartSeconds: *start,
		Volume:       cfg.Volume,
		OnTrack: func(tr playback.Track) {
			updateTUI(ui.StatusMsg{
				Path:       tr.Path,
				TrackIndex: tr.Index,
				TrackTotal: tr.Total,
				Codec:      tr.Info.Codec,
				SampleRate: tr.Info.SampleRate,
				Channels:   tr.Info.Channels,
				BitRate:    tr.Info.BitRate,
				Duration:   tr.Info.Duration.Duration(),
				State:      "playing",
			})
		},
		OnProgress: func(pr playback.Progress) {
			pos := pr.Position.Duration()
			updateTUI(ui.StatusMsg{Position: &pos})
		},
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	var playErr error
	g.Go(func() error {
		defer cancel()
		updateTUI(ui.StatusMsg{State: "loading", Volume: cfg.Volume})
		playErr = player.Play(gctx, paths)
		if playErr != nil && !errors.Is(playErr, context.Canceled) {
			updateTUI(ui.StatusMsg{State: "error", Err: playErr})
		}
		return nil
	})

	if tuiProg != nil {
		g.Go(func() error {
			defer cancel()
			_, err := tuiProg.Run()
			return err
		})
		g.Go(func() error {
			<-gctx.Done()
			tuiProg.Quit()
			return nil
		})
		g.Go(func() error {
			handleControl(gctx, player, ctrl, cancel, logger)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	if playErr != nil && !errors.Is(playErr, context.Canceled) {
		return playErr
	}
	logger.Info("player stopped")
	return nil
}

// handleControl applies key presses from the TUI to the player
func handleControl(ctx context.Context, player *playback.Player, ctrl *ui.Control, quit func(), logger *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case vol := <-ctrl.Volume:
			logger.Debug("volume change", zap.Int("volume", vol.Volume), zap.Bool("muted", vol.Muted))
			player.SetVolume(vol.Volume)
			player.SetMuted(vol.Muted)
		case seek := <-ctrl.Seek:
			player.SeekBy(seek.Seconds)
		case <-ctrl.Quit:
			logger.Info("received quit from TUI")
			quit()
			return
		}
	}
}
