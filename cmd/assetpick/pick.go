package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/glabrego/assetpick/internal/catalog"
	"github.com/glabrego/assetpick/internal/logging"
	"github.com/glabrego/assetpick/internal/media"
	"github.com/glabrego/assetpick/internal/picker"
	"github.com/glabrego/assetpick/internal/tui"
)

const localWatchInterval = time.Second

var errPickCancelled = errors.New("pick cancelled")

var (
	pickRemote   bool
	pickSelected string
)

// watcher is implemented by catalogs that can poll for library changes.
type watcher interface {
	Watch(ctx context.Context, interval time.Duration) error
}

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick assets interactively",
	Long: `Open the picker in the terminal. Confirming with 'c' prints the picked
assets as a JSON array on stdout; quitting prints nothing and exits non-zero.

Examples:
  assetpick pick > picks.json
  assetpick pick --selected picks.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		opts, err := cfg.PickerOptions()
		if err != nil {
			return err
		}
		if pickSelected != "" {
			seed, err := readSelection(pickSelected)
			if err != nil {
				return err
			}
			opts.Selected = seed
		}

		logFile, err := openLogFile()
		if err != nil {
			return err
		}
		defer logFile.Close()
		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		logger := logging.Init(level, logFile)
		opts.Logger = &logger

		var (
			c        catalog.Catalog
			w        watcher
			interval = localWatchInterval
		)
		if pickRemote {
			client, err := newRemoteClient()
			if err != nil {
				return err
			}
			if interval, err = cfg.Remote.Interval(); err != nil {
				return err
			}
			c, w = client, client
		} else {
			repo, err := openRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()
			c, w = repo, repo
		}

		if interval > 0 {
			go func() {
				if err := w.Watch(ctx, interval); err != nil && !errors.Is(err, context.Canceled) {
					log.Warn().Err(err).Msg("library watch stopped")
				}
			}()
		}

		engine, err := picker.New(c, opts)
		if err != nil {
			return err
		}
		defer engine.Close()

		program := tea.NewProgram(tui.NewModel(engine), tea.WithAltScreen(), tea.WithContext(ctx))
		final, err := program.Run()
		if err != nil {
			return fmt.Errorf("tui error: %w", err)
		}
		model, ok := final.(tui.Model)
		if !ok {
			return fmt.Errorf("unexpected model type %T", final)
		}
		picked, confirmed := model.Confirmed()
		if !confirmed {
			return errPickCancelled
		}
		log.Info().Int("assets", len(picked)).Msg("selection confirmed")

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(picked)
	},
}

func init() {
	pickCmd.Flags().BoolVar(&pickRemote, "remote", false, "pick from the remote library instead of the local index")
	pickCmd.Flags().StringVar(&pickSelected, "selected", "", "JSON file of assets to start with, as printed by a previous pick")
}

// readSelection loads a JSON array of assets written by an earlier pick.
func readSelection(path string) ([]media.Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read selection: %w", err)
	}
	var assets []media.Asset
	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("decode selection: %w", err)
	}
	return assets, nil
}

// openLogFile keeps log output off the terminal while the TUI owns it.
func openLogFile() (*os.File, error) {
	if err := os.MkdirAll(cfg.HomeDir, 0o755); err != nil {
		return nil, fmt.Errorf("create home directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(cfg.HomeDir, "assetpick.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
