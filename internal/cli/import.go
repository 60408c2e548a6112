package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jiapeiLu/menubuilder/pkg/document"
	"github.com/jiapeiLu/menubuilder/pkg/errors"
	"github.com/jiapeiLu/menubuilder/pkg/importer"
	"github.com/jiapeiLu/menubuilder/pkg/menu"
)

// importCommand creates the import command with source-specific subcommands.
func (c *CLI) importCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import menu entries from script files or Maya shelves",
		Long: `Create menu entries from existing sources instead of typing them in.

"import script" lists the callables in a Python or MEL file and turns
selected ones into command entries with generated labels and command
text. "import shelf" converts every button of a saved Maya shelf file
into a command entry, keeping order, icons, and option-box pairing.`,
	}

	cmd.AddCommand(c.importScriptCommand())
	cmd.AddCommand(c.importShelfCommand())

	return cmd
}

// =============================================================================
// Script Import
// =============================================================================

// importScriptCommand creates the "import script" subcommand.
func (c *CLI) importScriptCommand() *cobra.Command {
	var (
		docName   string
		functions []string
		label     string
		folder    string
		icon      string
	)

	cmd := &cobra.Command{
		Use:   "script <file>",
		Short: "Import functions from a Python or MEL script file",
		Long: `List the callables defined in a script file, or import selected ones
as command entries.

Without --function the callables are listed with their line numbers.
Each --function becomes one command entry whose command text loads the
script's module and calls the function, and whose label is generated
from the function name (snake_case and camelCase both become spaced
Title Case).

Examples:
  menubuilder import script tools/exporter.py
  menubuilder import script tools/exporter.py --function export_all
  menubuilder import script rig.mel -f buildRig -f mirrorPose --folder Rigging`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := args[0]
			if label != "" && len(functions) != 1 {
				return fmt.Errorf("--label applies to exactly one --function")
			}

			scan, err := c.scanCache()
			if err != nil {
				return err
			}
			callables, lang, err := scan.ListFile(file)
			if err != nil {
				return err
			}

			if len(functions) == 0 {
				return listCallables(file, lang, callables)
			}
			return c.importFunctions(file, lang, callables, functions, label, folder, icon, docName)
		},
	}

	cmd.Flags().StringVarP(&docName, "document", "d", "", "target document (default from settings)")
	cmd.Flags().StringArrayVarP(&functions, "function", "f", nil, "function to import (repeatable)")
	cmd.Flags().StringVar(&label, "label", "", "label override (single --function only)")
	cmd.Flags().StringVar(&folder, "folder", "", "slash-separated folder path to file entries under")
	cmd.Flags().StringVar(&icon, "icon", "", "icon name for the new entries")

	return cmd
}

// listCallables prints the callables found in a script file.
func listCallables(file string, lang menu.Language, callables []importer.Callable) error {
	if len(callables) == 0 {
		printWarning("No callables found in %s", file)
		return nil
	}

	printInfo("%d callables in %s (%s)", len(callables), file, lang)
	for _, fn := range callables {
		fmt.Println("  " + StyleHighlight.Render(fmt.Sprintf("%-32s", fn.Name)) + StyleDim.Render(fmt.Sprintf("line %d", fn.Line)))
	}
	printNewline()
	printNextStep("Import one", fmt.Sprintf("%s import script %s --function <name>", appName, file))
	return nil
}

// importFunctions adds one command entry per requested function and saves
// the document.
func (c *CLI) importFunctions(file string, lang menu.Language, callables []importer.Callable, functions []string, label, folder, icon, docName string) error {
	known := make(map[string]bool, len(callables))
	for _, fn := range callables {
		known[fn.Name] = true
	}
	for _, fn := range functions {
		if !known[fn] {
			return errors.New(errors.ErrCodeInvalidSource, "no callable named %q in %s", fn, file)
		}
	}

	store, eng, name, err := c.openForImport(docName)
	if err != nil {
		return err
	}

	parent, err := ensureFolderPath(eng, folder)
	if err != nil {
		return err
	}

	module := importer.ModuleName(file)
	for _, fn := range functions {
		node := menu.Node{
			Kind:     menu.KindCommand,
			Language: lang,
			Icon:     icon,
		}
		if lang == menu.LangMEL {
			node.Command = importer.MELCommand(fn)
		} else {
			node.Command = importer.PythonCommand(module, fn)
		}
		node.Label = label
		if node.Label == "" {
			node.Label = importer.GenerateLabel(fn)
		}
		if _, err := eng.Add(node, parent, -1); err != nil {
			return err
		}
	}

	if err := store.Save(name, eng.Tree()); err != nil {
		return err
	}

	printSuccess("Imported %d function(s) into %s", len(functions), name)
	for _, fn := range functions {
		printDetail("%s", fn)
	}
	return nil
}

// =============================================================================
// Shelf Import
// =============================================================================

// importShelfCommand creates the "import shelf" subcommand.
func (c *CLI) importShelfCommand() *cobra.Command {
	var (
		docName string
		folder  string
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "shelf <file>",
		Short: "Import the buttons of a saved Maya shelf file",
		Long: `Convert every button of a saved shelf file (shelf_*.mel) into a command
entry, in shelf order. Button labels, icons, and source language carry
over; buttons without a label get one generated from their command text.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			drafts, err := importer.ImportShelfFile(args[0])
			if err != nil {
				return err
			}
			if len(drafts) == 0 {
				printWarning("No shelf buttons found in %s", args[0])
				return nil
			}

			if dryRun {
				printInfo("%d shelf buttons in %s", len(drafts), args[0])
				for _, d := range drafts {
					printDetail("%-32s %s", d.Label, d.Language)
				}
				return nil
			}

			store, eng, name, err := c.openForImport(docName)
			if err != nil {
				return err
			}
			parent, err := ensureFolderPath(eng, folder)
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			for _, d := range drafts {
				if _, err := eng.Add(d.Node(), parent, -1); err != nil {
					return err
				}
			}
			if err := store.Save(name, eng.Tree()); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Imported %d shelf buttons", len(drafts)))

			printSuccess("Imported %d entries into %s", len(drafts), name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&docName, "document", "d", "", "target document (default from settings)")
	cmd.Flags().StringVar(&folder, "folder", "", "slash-separated folder path to file entries under")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list the drafts without saving")

	return cmd
}

// =============================================================================
// Helpers
// =============================================================================

// openForImport opens the target document for additive edits. A document
// that does not exist yet is started empty rather than rejected, so an
// import can be the first write to a fresh library.
func (c *CLI) openForImport(docName string) (*document.Store, *menu.Engine, string, error) {
	store, err := c.openStore()
	if err != nil {
		return nil, nil, "", err
	}
	name := docName
	if name == "" {
		name = c.Settings.Document
	}

	var t *menu.Tree
	if store.Exists(name) {
		t, err = store.Load(name)
		if err != nil {
			return nil, nil, "", err
		}
	} else {
		printInfo("Starting new document %s", name)
	}
	return store, menu.NewEngine(t), name, nil
}

// ensureFolderPath walks a slash-separated folder path under the root,
// creating missing folders along the way, and returns the deepest folder's
// id. An empty path returns the root.
func ensureFolderPath(eng *menu.Engine, path string) (menu.NodeID, error) {
	parent := menu.RootID
	for _, label := range splitFolderPath(path) {
		id, ok := childFolderByLabel(eng.Tree(), parent, label)
		if !ok {
			var err error
			id, err = eng.Add(menu.Node{Kind: menu.KindFolder, Label: label}, parent, -1)
			if err != nil {
				return menu.RootID, err
			}
		}
		parent = id
	}
	return parent, nil
}

// splitFolderPath splits "A/B/C" into labels, dropping empty segments.
func splitFolderPath(path string) []string {
	var labels []string
	for _, part := range strings.Split(path, "/") {
		if p := strings.TrimSpace(part); p != "" {
			labels = append(labels, p)
		}
	}
	return labels
}

// childFolderByLabel finds a folder child of parent with the given label.
func childFolderByLabel(t *menu.Tree, parent menu.NodeID, label string) (menu.NodeID, bool) {
	for _, id := range t.Children(parent) {
		n, ok := t.Node(id)
		if ok && n.Kind == menu.KindFolder && n.Label == label {
			return id, true
		}
	}
	return menu.RootID, false
}
