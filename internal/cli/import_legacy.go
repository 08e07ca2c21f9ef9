package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erdraft/erdraft/pkg/legacy"
	"github.com/erdraft/erdraft/pkg/schema"
)

// importCommand creates the import command for converting legacy SQLite
// project files.
func (c *CLI) importCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "import [legacy.k2p]",
		Short: "Convert a legacy SQLite project file to the JSON format",
		Long: `Convert a legacy SQLite project file to the JSON format.

Old installations stored projects in a SQLite container. This command reads
such a file and writes the equivalent JSON project next to it (or to
--output). The original file is never modified.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>-migrated.k2p)")
	return cmd
}

func (c *CLI) runImport(cmd *cobra.Command, input, output string) error {
	if !legacy.IsSQLiteFile(input) {
		return fmt.Errorf("%s is not a SQLite project file", input)
	}
	if output == "" {
		output = strings.TrimSuffix(input, ".k2p") + "-migrated.k2p"
	}

	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)
	p, err := legacy.Load(cmd.Context(), input)
	if err != nil {
		return fmt.Errorf("import %s: %w", input, err)
	}

	logger.Info("loaded legacy project", "project", p.Name,
		"tables", len(p.Tables), "sequences", len(p.Sequences), "diagrams", len(p.Diagrams))

	if err := schema.WriteProjectFile(p, output); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	prog.done(fmt.Sprintf("Migrated %s to %s", input, output))
	return nil
}
