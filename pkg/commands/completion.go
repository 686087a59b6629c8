package commands

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/coledit/pkg/commands/options"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(coledit completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(coledit completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

func collectionCompletions(so *options.StoreOptions, toComplete string) []string {
	p, err := so.Load()
	if err != nil {
		return nil
	}
	all, err := p.Collections(context.Background())
	if err != nil {
		return nil
	}
	cs := make([]string, 0, len(all))
	for _, c := range all {
		if strings.HasPrefix(c, toComplete) {
			cs = append(cs, strconv.Quote(c))
		}
	}
	return cs
}
