package commands

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
)

const coleditPackage = "tableflip.dev/coledit/cmd/coledit"

// installArgs builds the go install command line for version, which may be
// "latest", a tag with or without the leading v, or a commit.
func installArgs(version string) []string {
	version = strings.TrimSpace(version)
	switch {
	case version == "", version == "latest":
		version = "latest"
	case version[0] >= '0' && version[0] <= '9' && strings.Count(version, ".") == 2:
		version = "v" + version
	}
	return []string{"install", coleditPackage + "@" + version}
}

func addUpgrade(topLevel *cobra.Command) {
	var version string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Reinstall coledit with go install.",
		Long: `Reinstall coledit with go install. The shape catalog and the editor
ship with the binary, so upgrading picks up new item types. Stored
collections are left untouched.`,
		Example: `
coledit upgrade
coledit upgrade --version 0.4.0
coledit upgrade --dry-run
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ex := exec.CommandContext(cmd.Context(), "go", installArgs(version)...)
			if dryRun {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), ex.String())
				return nil
			}
			var stderr bytes.Buffer
			ex.Stderr = &stderr
			if err := ex.Run(); err != nil {
				return fmt.Errorf("%s: %w: %s", ex.String(), err, strings.TrimSpace(stderr.String()))
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "installed %s\n", strings.TrimPrefix(ex.Args[len(ex.Args)-1], coleditPackage+"@"))
			return nil
		},
	}

	cmd.Flags().StringVar(&version, "version", "latest", "Version, tag or commit to install.")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the go install command without running it.")

	topLevel.AddCommand(cmd)
}
