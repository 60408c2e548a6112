package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jiapeiLu/menubuilder/pkg/render"
)

// showCommand creates the show command for printing a menu document.
func (c *CLI) showCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "show [document]",
		Short: "Print a menu document as an indented tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}

			name := c.resolveDocument(args)
			t, err := c.loadDocument(store, name)
			if err != nil {
				return err
			}

			if plain {
				return render.WriteText(os.Stdout, t)
			}

			items, err := render.Items(t)
			if err != nil {
				return err
			}

			printInfo("%s", StyleTitle.Render(name))
			printNewline()
			printTree(items)
			printNewline()
			folders, commands, separators := treeCounts(t)
			printStats(folders, commands, separators)
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print without colors or markers")

	return cmd
}
