package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/glabrego/assetpick/internal/catalog"
	"github.com/glabrego/assetpick/internal/media"
)

var (
	albumsJSON   bool
	albumsRemote bool
)

var albumsCmd = &cobra.Command{
	Use:   "albums",
	Short: "List albums with their asset counts",
	Long: `List the albums the picker would show for the configured request type.

Examples:
  assetpick albums
  assetpick albums --remote --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		types, err := media.ParseRequestType(cfg.Picker.RequestType)
		if err != nil {
			return err
		}

		var c catalog.Catalog
		if albumsRemote {
			client, err := newRemoteClient()
			if err != nil {
				return err
			}
			c = client
		} else {
			repo, err := openRepository(cmd.Context())
			if err != nil {
				return err
			}
			defer repo.Close()
			c = repo
		}

		if !c.HasAccess(cmd.Context()) {
			return catalog.ErrPermissionDenied
		}
		albums, err := c.ListAlbums(cmd.Context(), types)
		if err != nil {
			return fmt.Errorf("list albums: %w", err)
		}

		out := cmd.OutOrStdout()
		if albumsJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(albums)
		}
		if len(albums) == 0 {
			fmt.Fprintln(out, "No albums found. Use 'assetpick index <dir>' to build the library.")
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tASSETS")
		for _, a := range albums {
			fmt.Fprintf(w, "%s\t%s\t%d\n", a.ID, a.Name, a.AssetCount)
		}
		return w.Flush()
	},
}

func init() {
	albumsCmd.Flags().BoolVar(&albumsJSON, "json", false, "print albums as JSON")
	albumsCmd.Flags().BoolVar(&albumsRemote, "remote", false, "list the remote library instead of the local index")
}
