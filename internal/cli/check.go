package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gambitproject/draw-tree/pkg/ef"
	"github.com/gambitproject/draw-tree/pkg/errors"
)

// checkCommand creates the check command, which parses and validates
// game files without rendering anything.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file...]",
		Short: "Parse and validate game files",
		Long: `Check parses each file and validates the tree: payoff arity,
chance probabilities, information-set consistency. It exits non-zero
if any file fails. Use "-" to read from stdin.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(args)
		},
	}
}

func (c *CLI) runCheck(inputs []string) error {
	failed := 0
	for _, input := range inputs {
		if err := checkOne(input); err != nil {
			printError("%s: %s", input, errors.UserMessage(err))
			failed++
			continue
		}
		printSuccess("%s", input)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed validation", failed, len(inputs))
	}
	return nil
}

func checkOne(input string) error {
	source, err := readSource(input)
	if err != nil {
		return err
	}
	tree, err := ef.ParseString(string(source))
	if err != nil {
		return err
	}
	return tree.Validate()
}
