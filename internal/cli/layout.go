package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gambitproject/draw-tree/pkg/game"
	"github.com/gambitproject/draw-tree/pkg/pipeline"
)

// layoutCommand creates the layout command, which prints computed node
// positions without emitting any markup. Useful for inspecting overlap
// and widening behavior.
func (c *CLI) layoutCommand() *cobra.Command {
	var asJSON bool
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Compute and print node positions for a game file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], asJSON, &opts)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print positions as JSON")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/drawtree/config.toml)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "scale factor for the drawing")
	cmd.Flags().Float64Var(&opts.hunit, "hunit", 0, "horizontal unit between leaves in cm")
	cmd.Flags().Float64Var(&opts.vunit, "vunit", 0, "vertical distance between depth rows in cm")
	cmd.Flags().Float64Var(&opts.minGap, "min-gap", 0, "minimum clearance between information-set members in cm")
	cmd.Flags().IntVar(&opts.widenLimit, "widen-limit", 0, "maximum widening iterations for information-set clearance")

	return cmd
}

type nodePosition struct {
	Name  string  `json:"name"`
	Kind  string  `json:"kind"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Depth int     `json:"depth"`
}

func (c *CLI) runLayout(ctx context.Context, input string, asJSON bool, opts *renderOpts) error {
	source, err := readSource(input)
	if err != nil {
		return err
	}

	popts, err := opts.buildOptions(source, []string{pipeline.FormatTeX})
	if err != nil {
		return err
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(true)
	if err != nil {
		return err
	}
	defer runner.Close()

	tree, err := runner.ParseTree(ctx, popts)
	if err != nil {
		return err
	}
	l, err := runner.ComputeLayout(ctx, tree, popts)
	if err != nil {
		return err
	}

	positions := make([]nodePosition, 0, tree.NodeCount())
	tree.PreOrder(func(id game.NodeID, depth int) {
		n := tree.Node(id)
		p := l.At(id)
		positions = append(positions, nodePosition{
			Name:  n.Name,
			Kind:  n.Kind.String(),
			X:     p.X,
			Y:     p.Y,
			Depth: p.Depth,
		})
	})

	if asJSON {
		data, err := json.MarshalIndent(positions, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	printKeyValue("width", fmt.Sprintf("%.3f cm", l.Width()))
	printKeyValue("unit", fmt.Sprintf("%.3f cm", l.Unit))
	if l.Widened > 0 {
		printKeyValue("widened", fmt.Sprintf("%d iterations", l.Widened))
	}
	for _, p := range positions {
		fmt.Printf("  %-20s %-8s (%8.3f, %8.3f)\n", p.Name, p.Kind, p.X, p.Y)
	}
	return nil
}
