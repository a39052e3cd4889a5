package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/vibe-recommender/internal/catalog"
)

func init() {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the built-in fallback catalog",
		Run:   runCatalog,
	}

	RootCmd.AddCommand(cmd)
}

func runCatalog(cmd *cobra.Command, args []string) {
	printJSON(catalog.All())
}
