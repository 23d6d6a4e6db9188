// Command confighelper runs the config editor's companion service and offers
// client commands against it.
package main

import (
	"os"

	"github.com/alfredjeanlab/confighelper/internal/client"
	"github.com/alfredjeanlab/confighelper/internal/ui"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	url        string
	jsonOutput bool

	apiClient client.Client
}

func defaultURL() string {
	if s := os.Getenv("CONFIGHELPER_URL"); s != "" {
		return s
	}
	return "http://localhost:9485"
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "confighelper <command>",
		Short:        "Companion service for the config editor",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ui.Setup()
			opts.apiClient = client.NewHTTPClient(opts.url)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.apiClient != nil {
				opts.apiClient.Close()
			}
		},
	}
	root.PersistentFlags().StringVar(&opts.url, "url", defaultURL(), "config helper base URL")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "output as JSON")

	root.AddGroup(
		&cobra.Group{ID: "service", Title: "Service:"},
		&cobra.Group{ID: "convert", Title: "Conversion:"},
	)
	cobra.EnableCommandSorting = false

	root.AddCommand(newServeCmd())
	root.AddCommand(newHealthCmd(opts))
	root.AddCommand(newVersionCmd(opts))
	root.AddCommand(newWatchCmd(opts))
	root.AddCommand(newImportCmd(opts))
	root.AddCommand(newExportCmd(opts))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
