package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/coledit/pkg/commands/options"
	"tableflip.dev/coledit/pkg/runner/show"
)

func addShow(topLevel *cobra.Command) {
	so := &options.StoreOptions{}
	co := &options.CollectionOptions{}
	s := &show.Show{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print stored collections.",
		Example: `
coledit show
coledit show --collection garden --types
coledit show --json
coledit show --json --compact
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := so.Load()
			if err != nil {
				return oo.HandleError(cmd.OutOrStdout(), err)
			}
			s.Persistence = p
			s.Collection = co.Collection
			s.JSON = oo.JSON
			s.Indent = oo.Indent()
			s.Out = cmd.OutOrStdout()
			return oo.HandleError(cmd.OutOrStdout(), s.Do(cmd.Context()))
		},
	}

	cmd.Flags().BoolVar(&s.ShowType, "types", false, "Show the stored type of each entry.")
	options.AddStoreArgs(cmd, so)
	options.AddCollectionArgs(cmd, co, "")
	options.AddOutputArg(cmd, oo)
	_ = cmd.RegisterFlagCompletionFunc("collection", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return collectionCompletions(so, toComplete), cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}
