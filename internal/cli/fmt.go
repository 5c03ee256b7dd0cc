package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gambitproject/draw-tree/pkg/ef"
)

// fmtCommand creates the fmt command, which rewrites game files in the
// canonical pre-order form produced by the parser.
func (c *CLI) fmtCommand() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt [file...]",
		Short: "Rewrite game files in canonical form",
		Long: `Fmt parses each file and prints it back in canonical form: players
first, then nodes in pre-order with normalized spacing. With -w the
file is rewritten in place instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFmt(args, write)
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write result back to the source file")

	return cmd
}

func (c *CLI) runFmt(inputs []string, write bool) error {
	for _, input := range inputs {
		source, err := readSource(input)
		if err != nil {
			return err
		}
		tree, err := ef.ParseString(string(source))
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
		formatted := ef.Format(tree)

		if !write || input == "-" {
			fmt.Print(formatted)
			continue
		}
		if formatted == string(source) {
			continue
		}
		if err := os.WriteFile(input, []byte(formatted), 0o644); err != nil {
			return err
		}
		printFile(input)
	}
	return nil
}
