package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glabrego/assetpick/internal/app"
	"github.com/glabrego/assetpick/internal/library"
)

var indexMaxDepth int

var indexCmd = &cobra.Command{
	Use:   "index [root]",
	Short: "Scan a directory into the library index",
	Long: `Scan a media directory and replace the library index with its contents.
Each top-level directory becomes an album; files directly under the root form
an album of their own.

Examples:
  assetpick index ~/Pictures
  assetpick index --max-depth 2`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := cfg.Library.Root
		if len(args) == 1 {
			root = args[0]
		}
		if root == "" {
			return fmt.Errorf("no library root given (pass one or set [library] root)")
		}
		depth := cfg.Library.MaxDepth
		if cmd.Flags().Changed("max-depth") {
			depth = indexMaxDepth
		}

		repo, err := openRepository(cmd.Context())
		if err != nil {
			return err
		}
		defer repo.Close()

		svc := app.NewService(nil, repo)
		summary, err := svc.Index(cmd.Context(), root, library.ScanOptions{
			MaxDepth:    depth,
			Concurrency: cfg.Library.Concurrency,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d assets in %d albums\n", summary.Assets, summary.Albums)
		return nil
	},
}

func init() {
	indexCmd.Flags().IntVar(&indexMaxDepth, "max-depth", 0, "directory depth below each album to scan (0 = unlimited)")
}
