package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/franq/internal/catalog"
	"github.com/derickschaefer/franq/internal/model"
	"github.com/derickschaefer/franq/internal/render"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List the available report endpoints",
	Long: `List the report endpoint catalog: every report franq can fetch, with its
CLI name and URL path template. The catalog is static; these are the only
valid arguments to 'franq view'.`,
	Example: `  franq reports
  franq reports --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result := &model.Result{
			Kind:        model.KindCatalog,
			GeneratedAt: time.Now(),
			Command:     "reports",
			Data:        catalog.All(),
			Stats:       model.ResultStats{Items: len(catalog.Names())},
		}
		// Catalog listing needs no config; use the flag format directly.
		return render.RenderTo(globalFlags.Out, result, resolveFormat(""))
	},
}

func init() {
	rootCmd.AddCommand(reportsCmd)
}
