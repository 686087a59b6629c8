package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/coledit/pkg/commands/options"
	"tableflip.dev/coledit/pkg/runner/edit"
)

func addEdit(topLevel *cobra.Command) {
	so := &options.StoreOptions{}
	co := &options.CollectionOptions{}
	lo := &options.LogOptions{}
	e := &edit.Edit{}

	cmd := &cobra.Command{
		Use:   "edit [collection]",
		Short: "Edit a stored collection of shapes by key.",
		Example: `
coledit edit garden
coledit edit --collection garden --max 10 --watch
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				co.Collection = strings.Join(args, " ")
			}
			return nil
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return collectionCompletions(so, toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return options.RequireTerminal()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := so.Load()
			if err != nil {
				return err
			}
			logger, closeLog, err := lo.Logger()
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			e.Persistence = p
			e.Collection = co.Collection
			e.Logger = logger
			return e.Do(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&e.MaxItems, "max", -1, "Maximum number of entries; negative for no limit.")
	cmd.Flags().BoolVarP(&e.Watch, "watch", "w", true, "Reload when the store changes on disk.")
	options.AddStoreArgs(cmd, so)
	options.AddCollectionArgs(cmd, co, "shapes")
	options.AddLogArgs(cmd, lo)
	_ = cmd.RegisterFlagCompletionFunc("collection", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return collectionCompletions(so, toComplete), cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}
