package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/coledit/pkg/commands/options"
	"tableflip.dev/coledit/pkg/runner/types"
)

func addTypes(topLevel *cobra.Command) {
	t := &types.Types{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "types [base]",
		Short: "Print the types offered when adding an item.",
		Example: `
coledit types
coledit types Polygon --abstract
coledit types --json --compact
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				t.Base = args[0]
			}
			t.JSON = oo.JSON
			t.Indent = oo.Indent()
			t.Out = cmd.OutOrStdout()
			return oo.HandleError(cmd.OutOrStdout(), t.Do(cmd.Context()))
		},
	}

	cmd.Flags().BoolVar(&t.Abstract, "abstract", false, "Include types that cannot be created.")
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
