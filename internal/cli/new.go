package cli

import (
	"github.com/spf13/cobra"

	"github.com/jiapeiLu/menubuilder/pkg/errors"
	"github.com/jiapeiLu/menubuilder/pkg/menu"
)

// newCommand creates the new command for starting an empty document.
func (c *CLI) newCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create an empty menu document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			store, err := c.openStore()
			if err != nil {
				return err
			}
			if store.Exists(name) && !force {
				return errors.New(errors.ErrCodeInvalidName, "document %q already exists (use --force to replace)", name)
			}

			if err := store.Save(name, menu.NewTree()); err != nil {
				return err
			}

			path, _ := store.Path(name)
			printSuccess("Created %s", name)
			printFile(path)
			printNextStep("Edit it", appName+" edit "+name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "replace an existing document")

	return cmd
}
