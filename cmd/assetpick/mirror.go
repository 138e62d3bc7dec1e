package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glabrego/assetpick/internal/app"
	"github.com/glabrego/assetpick/internal/media"
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Copy the remote library into the local index",
	Long: `Fetch every album and asset of the configured remote media server and
replace the library index with them, together with album covers.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newRemoteClient()
		if err != nil {
			return err
		}
		types, err := media.ParseRequestType(cfg.Picker.RequestType)
		if err != nil {
			return err
		}
		repo, err := openRepository(cmd.Context())
		if err != nil {
			return err
		}
		defer repo.Close()

		svc := app.NewService(client, repo)
		summary, err := svc.Mirror(cmd.Context(), types, cfg.Picker.ThumbnailSize, cfg.Library.Concurrency)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Mirrored %d assets in %d albums (%d covers)\n", summary.Assets, summary.Albums, summary.Thumbnails)
		return nil
	},
}
