// Package cli implements the menubuilder command-line interface.
//
// This package provides commands for building and editing hierarchical menu
// documents, importing entries from script files and Maya shelves, rendering
// menus as text or Graphviz diagrams, and test-running individual commands.
// The CLI is built using cobra with structured logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - edit: Open the interactive tree editor
//   - import: Create menu entries from script files or shelf files
//   - render: Print or draw a menu as text, DOT, SVG, or PNG
//   - run: Execute one menu command through a local interpreter
//
// # State
//
// All commands share a [CLI] value carrying the logger and the loaded
// settings. Settings come from a TOML file resolved in PersistentPreRunE,
// so every command sees the same configuration without global state.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jiapeiLu/menubuilder/pkg/buildinfo"
	"github.com/jiapeiLu/menubuilder/pkg/document"
	"github.com/jiapeiLu/menubuilder/pkg/errors"
	"github.com/jiapeiLu/menubuilder/pkg/importer"
	"github.com/jiapeiLu/menubuilder/pkg/menu"
	"github.com/jiapeiLu/menubuilder/pkg/settings"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "menubuilder"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger       *log.Logger
	Settings     settings.Settings
	SettingsPath string

	scan *importer.Cache
}

// New creates a new CLI instance with a default logger and default
// settings. The real settings are loaded once the root command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		Settings: settings.Defaults(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool
	var settingsPath string

	root := &cobra.Command{
		Use:   appName,
		Short: "Menubuilder edits, renders, and runs hierarchical menu definitions",
		Long: `Menubuilder manages menu documents: hierarchical definitions of folders,
commands, and separators that build into application menu bars.

Documents live as JSON files in a local library. Edit them interactively,
import entries from Python or MEL script files and saved Maya shelves,
merge libraries, render the result as text or diagrams, and test-run
individual commands without leaving the terminal.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true, // main prints the error once
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initSettings(settingsPath, verbose)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&settingsPath, "settings", "", "settings file (default ~/.config/menubuilder/settings.toml)")

	// Register all subcommands
	root.AddCommand(c.showCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.newCommand())
	root.AddCommand(c.deleteCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.mergeCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// initSettings loads the settings file and applies the configured log
// level. A malformed file falls back to defaults with a warning so the
// tool stays usable; --verbose wins over the configured level.
func (c *CLI) initSettings(path string, verbose bool) error {
	if path == "" {
		var err error
		path, err = settings.DefaultPath()
		if err != nil {
			return err
		}
	}

	s, err := settings.Load(path)
	if err != nil {
		c.Logger.Warnf("Using default settings: %v", err)
	}
	c.Settings = s
	c.SettingsPath = path

	if level, lerr := log.ParseLevel(s.LogLevel); lerr == nil {
		c.SetLogLevel(level)
	}
	if verbose {
		c.SetLogLevel(log.DebugLevel)
	}
	return nil
}

// =============================================================================
// Document Access
// =============================================================================

// openStore opens the document library at the configured directory.
func (c *CLI) openStore() (*document.Store, error) {
	return document.NewStore(c.Settings.DocumentsDir)
}

// resolveDocument picks the document name from the first positional
// argument, falling back to the configured default document.
func (c *CLI) resolveDocument(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return c.Settings.Document
}

// scanCache returns the shared script listing cache, creating it on first
// use. Repeated listings of an unchanged file are served from memory.
func (c *CLI) scanCache() (*importer.Cache, error) {
	if c.scan == nil {
		cache, err := importer.NewCache(importer.DefaultCacheSize)
		if err != nil {
			return nil, err
		}
		c.scan = cache
	}
	return c.scan, nil
}

// loadDocument loads a named document from the store. A missing document
// is reported together with the names that do exist.
func (c *CLI) loadDocument(store *document.Store, name string) (*menu.Tree, error) {
	t, err := store.Load(name)
	if errors.Is(err, errors.ErrCodeDocumentNotFound) {
		if names, lerr := store.List(); lerr == nil && len(names) > 0 {
			return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(names, ", "))
		}
	}
	return t, err
}

// treeCounts tallies a tree's entries by kind for status lines.
func treeCounts(t *menu.Tree) (folders, commands, separators int) {
	t.Walk(func(n *menu.Node, depth int) bool {
		switch n.Kind {
		case menu.KindFolder:
			folders++
		case menu.KindCommand:
			commands++
		case menu.KindSeparator:
			separators++
		}
		return true
	})
	return folders, commands, separators
}
