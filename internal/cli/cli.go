// Package cli wires configuration, logging, the feed service and the
// terminal UI behind the infinitescroll command
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"infinitescroll/internal/config"
	"infinitescroll/internal/domain"
	"infinitescroll/internal/eventbus"
	"infinitescroll/internal/feed"
	"infinitescroll/internal/logging"
	"infinitescroll/internal/ui"
)

type flags struct {
	configPath string
	threshold  int
	boundaries []string
	pageSize   int
	latencyMS  int
	inspectAll bool
	logFile    string
	logLevel   string
}

// NewRootCommand builds the infinitescroll command
func NewRootCommand() *cobra.Command {
	return newRootCommand(&flags{})
}

func newRootCommand(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "infinitescroll",
		Short: "Scroll an endless feed that loads more entries at either edge",
		Long: `infinitescroll shows a feed in the terminal. Scrolling within the
threshold of the top loads older entries, and the view stays on the rows
you were reading. Scrolling near the bottom loads newer entries.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f, cmd)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "config file (default ./"+config.DefaultFileName+" if present)")
	cmd.Flags().IntVarP(&f.threshold, "threshold", "t", 0, "rows from an edge that count as near it")
	cmd.Flags().StringSliceVarP(&f.boundaries, "boundaries", "b", nil, "edges to watch: top, bottom")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "entries loaded per request")
	cmd.Flags().IntVar(&f.latencyMS, "latency", 0, "simulated page latency in milliseconds")
	cmd.Flags().BoolVar(&f.inspectAll, "inspect-all-records", false, "look at every record of a mutation batch")
	cmd.Flags().StringVar(&f.logFile, "log-file", "", "log file path")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	return cmd
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

// loadConfig reads the config file and applies flags that were set
func loadConfig(f *flags, cmd *cobra.Command) (*config.Config, error) {
	svc := config.NewConfigService()
	cfg := config.DefaultConfig()

	path := f.configPath
	if path == "" {
		if _, err := os.Stat(config.DefaultFileName); err == nil {
			path = config.DefaultFileName
		}
	}
	if path != "" {
		loaded, err := svc.LoadFromPath(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	fl := cmd.Flags()
	if fl.Changed("threshold") {
		cfg.Watcher.Threshold = f.threshold
	}
	if fl.Changed("boundaries") {
		cfg.Watcher.Boundaries = f.boundaries
	}
	if fl.Changed("inspect-all-records") {
		cfg.Watcher.InspectAllRecords = f.inspectAll
	}
	if fl.Changed("page-size") {
		cfg.Feed.PageSize = f.pageSize
	}
	if fl.Changed("latency") {
		cfg.Feed.LatencyMS = f.latencyMS
	}
	if fl.Changed("log-file") {
		cfg.Log.File = f.logFile
	}
	if fl.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	log := zerolog.Nop()
	var logCloser io.Closer
	if cfg.Log.File != "" {
		l, file, err := logging.OpenFile(cfg.Log.File, logging.Options{Level: cfg.Log.Level, Component: "infinitescroll"})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not open log file: %v\n", err)
		} else {
			log, logCloser = l, file
		}
	}
	if logCloser != nil {
		defer logCloser.Close()
	}

	bus := eventbus.New(log.With().Str("component", "eventbus").Logger())
	defer bus.Close()

	feedSvc := feed.NewFeedService(bus, log.With().Str("component", "feed").Logger(), feed.Settings{
		InitialSize: cfg.Feed.InitialSize,
		PageSize:    cfg.Feed.PageSize,
		History:     cfg.Feed.History,
		Latency:     cfg.Feed.Latency(),
	})
	defer feedSvc.Stop()

	model, err := ui.NewModel(cfg, feedSvc.Initial(), bus, log.With().Str("component", "ui").Logger())
	if err != nil {
		return err
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	// Forward feed results to the UI
	for _, t := range []domain.EventType{eventbus.EventPageLoaded, eventbus.EventFeedExhausted, eventbus.EventError} {
		bus.Subscribe(t, func(e eventbus.DomainEvent) {
			p.Send(ui.EventMsg{Event: e})
		})
	}

	log.Info().
		Int("threshold", cfg.Watcher.Threshold).
		Strs("boundaries", cfg.Watcher.Boundaries).
		Msg("starting UI")
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		log.Error().Err(err).Msg("error running program")
		return fmt.Errorf("error running program: %w", err)
	}
	log.Info().Msg("UI exited normally")
	return nil
}
