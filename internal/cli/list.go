package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// listCommand creates the list command for showing the document library.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the menu documents in the library",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}

			names, err := store.List()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printInfo("No documents yet")
				printNextStep("Create one", appName+" new <name>")
				return nil
			}

			var invalid []string
			rows := [][]string{}
			for _, name := range names {
				def := ""
				if name == c.Settings.Document {
					def = iconSuccess
				}

				var entries string
				t, err := store.Load(name)
				if err != nil {
					entries = "invalid"
					invalid = append(invalid, name)
				} else {
					entries = strconv.Itoa(t.NodeCount())
				}
				rows = append(rows, []string{name, entries, def})
			}

			headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			tbl := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("Document", "Entries", "Default").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return headerStyle
					}
					if col == 0 {
						return StyleValue
					}
					return StyleDim
				})

			fmt.Println(tbl.Render())
			printDetail("Directory: %s", store.Dir())
			for _, name := range invalid {
				printWarning("%s failed to load; run '%s validate %s' for details", name, appName, name)
			}
			return nil
		},
	}
}
