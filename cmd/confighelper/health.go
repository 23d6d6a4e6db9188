package main

import (
	"fmt"

	"github.com/alfredjeanlab/confighelper/internal/client"
	"github.com/alfredjeanlab/confighelper/internal/ui"
	"github.com/spf13/cobra"
)

func newHealthCmd(opts *rootOptions) *cobra.Command {
	var grpcAddr, service string
	cmd := &cobra.Command{
		Use:     "health",
		Short:   "Check the health of a running config helper",
		GroupID: "service",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if grpcAddr != "" {
				hc, err := client.NewHealthChecker(grpcAddr)
				if err != nil {
					return err
				}
				defer hc.Close()

				status, err := hc.Check(cmd.Context(), service)
				if err != nil {
					return fmt.Errorf("checking grpc health: %w", err)
				}
				if opts.jsonOutput {
					if err := printJSON(out, map[string]string{"status": status}); err != nil {
						return err
					}
				} else {
					fmt.Fprintf(out, "Health: %s\n", ui.RenderStatus(status))
				}
				if status != "SERVING" {
					return fmt.Errorf("unhealthy: %s", status)
				}
				return nil
			}

			resp, err := opts.apiClient.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("checking health: %w", err)
			}
			if opts.jsonOutput {
				if err := printJSON(out, resp); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(out, "Health:  %s\n", ui.RenderStatus(resp.Status))
				fmt.Fprintf(out, "Version: %s\n", resp.Version)
				fmt.Fprintf(out, "Uptime:  %s\n", ui.RenderMuted(resp.Uptime))
			}
			if resp.Status != "ok" {
				return fmt.Errorf("unhealthy: %s", resp.Status)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&grpcAddr, "grpc", "", "check the gRPC health service at this address instead of HTTP")
	cmd.Flags().StringVar(&service, "service", "", "gRPC health service name (empty for the whole server)")
	return cmd
}
