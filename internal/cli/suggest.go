package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/BurakErdilli/biznet-analyzer/pkg/client"
)

// suggestOpts holds the command-line flags for the suggest command.
type suggestOpts struct {
	limit       int  // maximum number of suggestions
	interactive bool // pick a suggestion and grow it immediately
}

// newSuggestCmd creates the suggest command listing nodes that most need
// additional children. With --interactive a terminal picker is shown and
// the selected node receives a generated child on the spot.
func newSuggestCmd() *cobra.Command {
	opts := suggestOpts{limit: 10}

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "List growth suggestions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(cmd.Context(), &opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", opts.limit, "maximum number of suggestions")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick a suggestion and add a child to it")

	return cmd
}

func runSuggest(ctx context.Context, opts *suggestOpts) error {
	c, err := client.New(serverFlag)
	if err != nil {
		return err
	}

	stop := spinner(ctx, "Fetching suggestions...")
	suggestions, err := c.Suggestions(ctx, opts.limit)
	stop()
	if err != nil {
		return err
	}
	if len(suggestions) == 0 {
		printInfo("No suggestions, the network is in good shape")
		return nil
	}

	if !opts.interactive {
		printHeader(fmt.Sprintf("Top %d growth suggestions", len(suggestions)))
		for i, s := range suggestions {
			fmt.Printf("  %2d. %s\n", i+1, styleBright.Render(s.ID))
			printDetail("priority %.3f, criticality %.3f, depth %d, %d of %d children",
				s.Priority, s.Criticality, s.Depth, s.CurrentChildren, s.SuggestedChildren)
		}
		return nil
	}

	picker := newSuggestionPicker(suggestions)
	result, err := tea.NewProgram(picker).Run()
	if err != nil {
		return err
	}
	final, ok := result.(suggestionPickerModel)
	if !ok || final.selected == "" {
		printInfo("Nothing selected")
		return nil
	}

	id, err := c.AddNode(ctx, final.selected, "", nil)
	if err != nil {
		return err
	}
	printSuccess("Added %s under %s", id, final.selected)
	return nil
}
