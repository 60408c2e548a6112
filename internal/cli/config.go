package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jiapeiLu/menubuilder/pkg/errors"
	"github.com/jiapeiLu/menubuilder/pkg/settings"
)

// configCommand creates the config command for inspecting settings.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change menubuilder settings",
	}

	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configSetCommand())

	return cmd
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}

			printKeyValue("Document", c.Settings.Document)
			printKeyValue("Log level", c.Settings.LogLevel)
			printKeyValue("Language", c.Settings.Language)
			printKeyValue("Documents", store.Dir())
			printNewline()
			printDetail("Settings file: %s", c.SettingsPath)
			return nil
		},
	}
}

// configSetCommand creates the "config set" subcommand.
func (c *CLI) configSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a settings key and save",
		Long: `Set one settings key and write the settings file. Known keys:

  document       default document name
  log_level      debug, info, warn, or error
  language       UI locale tag, e.g. en_us
  documents_dir  directory holding the document library`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			s := c.Settings
			switch key {
			case "document":
				if err := errors.ValidateDocumentName(value); err != nil {
					return err
				}
				s.Document = value
			case "log_level":
				if _, err := log.ParseLevel(value); err != nil {
					return fmt.Errorf("invalid log level %q (debug, info, warn, error)", value)
				}
				s.LogLevel = value
			case "language":
				s.Language = value
			case "documents_dir":
				s.DocumentsDir = value
			default:
				return fmt.Errorf("unknown settings key %q", key)
			}

			if err := settings.Save(c.SettingsPath, s); err != nil {
				return err
			}
			c.Settings = s

			printSuccess("Set %s = %s", key, value)
			printFile(c.SettingsPath)
			return nil
		},
	}
}
