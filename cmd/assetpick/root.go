package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/glabrego/assetpick/internal/catalog/remote"
	"github.com/glabrego/assetpick/internal/config"
	"github.com/glabrego/assetpick/internal/logging"
	"github.com/glabrego/assetpick/internal/storage"
)

var (
	cfgFile string
	verbose bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "assetpick",
	Short: "Pick media assets from a local or remote library",
	Long: `assetpick indexes a media library and lets you pick assets from it in
the terminal. The picked assets are printed as JSON.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		logging.Init(level, os.Stderr)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $ASSETPICK_HOME/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(indexCmd, mirrorCmd, albumsCmd, pickCmd)
}

// openRepository opens the configured index, creating its directory and
// schema on first use.
func openRepository(ctx context.Context) (*storage.Repository, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Library.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	repo, err := storage.NewRepository(cfg.Library.DBPath)
	if err != nil {
		return nil, fmt.Errorf("storage init: %w", err)
	}
	if err := repo.Init(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("storage schema: %w", err)
	}
	log.Debug().Str("path", cfg.Library.DBPath).Msg("opened library index")
	return repo, nil
}

func newRemoteClient() (*remote.Client, error) {
	if cfg.Remote.BaseURL == "" {
		return nil, fmt.Errorf("remote base_url is not configured (set [remote] base_url or ASSETPICK_REMOTE_URL)")
	}
	return remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Token, nil, cfg.Remote.RequestsPerSecond), nil
}
