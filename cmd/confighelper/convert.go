package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alfredjeanlab/confighelper/internal/codec"
	"github.com/alfredjeanlab/confighelper/internal/model"
	"github.com/spf13/cobra"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:     "import <file.yaml|->",
		Short:   "Convert a YAML config to editor JSON",
		GroupID: "convert",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			var cfg *model.Config
			if remote {
				cfg, err = opts.apiClient.Import(cmd.Context(), string(text))
			} else {
				cfg, err = codec.Decode(text)
			}
			if err != nil {
				return fmt.Errorf("importing %s: %w", args[0], err)
			}
			return printJSON(cmd.OutOrStdout(), cfg)
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "convert through the running service")
	return cmd
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:     "export <file.json|->",
		Short:   "Convert editor JSON to a YAML config",
		GroupID: "convert",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			var cfg model.Config
			if err := json.Unmarshal(data, &cfg); err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}

			var text string
			if remote {
				text, err = opts.apiClient.Export(cmd.Context(), &cfg)
			} else {
				var out []byte
				out, err = codec.Encode(&cfg)
				text = string(out)
			}
			if err != nil {
				return fmt.Errorf("exporting %s: %w", args[0], err)
			}

			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]string{"yaml": text})
			}
			_, err = io.WriteString(cmd.OutOrStdout(), text)
			return err
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "convert through the running service")
	return cmd
}

// readInput reads the named file, or stdin for "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}
