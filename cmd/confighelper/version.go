package main

import (
	"fmt"

	"github.com/alfredjeanlab/confighelper/internal/buildinfo"
	"github.com/alfredjeanlab/confighelper/internal/ui"
	"github.com/spf13/cobra"
)

func newVersionCmd(opts *rootOptions) *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:     "version",
		Short:   "Print build information",
		GroupID: "service",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := buildinfo.Get()
			if remote {
				resp, err := opts.apiClient.Init(cmd.Context())
				if err != nil {
					return fmt.Errorf("fetching remote build info: %w", err)
				}
				info = buildinfo.Info{Version: resp.Version, Commit: resp.Commit, Date: resp.Date}
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return printJSON(out, info)
			}
			fmt.Fprintf(out, "confighelper %s %s\n",
				ui.RenderAccent(info.DisplayVersion()),
				ui.RenderMuted(fmt.Sprintf("(commit %s, built %s)", info.Commit, info.Date)),
			)
			return nil
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "report the running service's build instead of this binary's")
	return cmd
}
