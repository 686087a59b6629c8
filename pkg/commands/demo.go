package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/coledit/pkg/commands/options"
	"tableflip.dev/coledit/pkg/runner/demo"
)

func addDemo(topLevel *cobra.Command) {
	so := &options.StoreOptions{}
	lo := &options.LogOptions{}
	d := &demo.Demo{}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Edit an in-memory board of shapes.",
		Long: `Edit an in-memory board of shapes.

Keys: a add, x remove, K/J move up/down, c collapse, q quit.
Rows can also be dragged by their handle with the mouse.
Field options are read from the "demo" key of .coledit.yaml.`,
		Example: `
coledit demo
coledit demo --limit 5 --locked
`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return options.RequireTerminal()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := so.Config()
			if err != nil {
				return err
			}
			logger, closeLog, err := lo.Logger()
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			d.Config = cfg
			d.Logger = logger
			return d.Do(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&d.Locked, "locked", false, "Keep the first shape from being removed.")
	cmd.Flags().IntVar(&d.Limit, "limit", 0, "Maximum number of shapes.")
	options.AddStoreArgs(cmd, so)
	options.AddLogArgs(cmd, lo)

	topLevel.AddCommand(cmd)
}
