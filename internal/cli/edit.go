package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jiapeiLu/menubuilder/pkg/menu"
)

// editCommand creates the edit command that opens the interactive editor.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [document]",
		Short: "Edit a menu document in an interactive tree editor",
		Long: `Open a full-screen editor on a menu document. A document that does not
exist yet starts empty.

Navigate with the arrow keys, add commands, folders, and separators in
place, move entries within and across folders, attach option boxes, and
edit an entry's attributes in a small form. Structural rules are
enforced as you work: an edit that would break the menu is refused with
the reason shown in the status line. Nothing is written until you save.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			name := c.resolveDocument(args)

			var t *menu.Tree
			if store.Exists(name) {
				t, err = store.Load(name)
				if err != nil {
					return err
				}
			} else {
				printInfo("Starting new document %s", name)
			}

			model := newEditorModel(store, name, menu.NewEngine(t))
			program := tea.NewProgram(model, tea.WithContext(cmd.Context()))
			final, err := program.Run()
			if err != nil {
				return err
			}

			if m, ok := final.(editorModel); ok {
				switch {
				case m.eng.Dirty():
					printWarning("Discarded unsaved changes to %s", name)
				case m.saves > 0:
					printSuccess("Saved %s", name)
				}
			}
			return nil
		},
	}
}
