package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jiapeiLu/menubuilder/pkg/errors"
	"github.com/jiapeiLu/menubuilder/pkg/executor"
	"github.com/jiapeiLu/menubuilder/pkg/menu"
)

// defaultRunTimeout bounds a test run so a hung interpreter cannot wedge
// the terminal.
const defaultRunTimeout = 30 * time.Second

// runCommand creates the run command for test-running one menu command.
func (c *CLI) runCommand() *cobra.Command {
	var (
		docName   string
		timeout   time.Duration
		optionBox bool
		pythonCmd string
		melCmd    string
	)

	cmd := &cobra.Command{
		Use:   "run <menu-path>",
		Short: "Execute one menu command through a local interpreter",
		Long: `Run the command behind a menu entry, addressed by its slash-separated
label path, e.g. "Rigging/Build Rig". Output is printed verbatim.

Python commands run through "python3 -c" by default. MEL has no
standalone interpreter; configure one with --mel (for example a
"maya -batch -command" wrapper) to run MEL entries.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			name := docName
			if name == "" {
				name = c.Settings.Document
			}
			t, err := c.loadDocument(store, name)
			if err != nil {
				return err
			}

			id, err := findByPath(t, args[0])
			if err != nil {
				return err
			}
			node, _ := t.Node(id)
			if node.Kind != menu.KindCommand {
				return errors.New(errors.ErrCodeKindMismatch, "%s is a %s, not a runnable command", args[0], node.Kind)
			}
			if optionBox {
				boxID, ok := t.OptionBoxFollower(id)
				if !ok {
					return errors.New(errors.ErrCodeInvalidOptionBox, "%s has no option box", args[0])
				}
				node, _ = t.Node(boxID)
			}
			if strings.TrimSpace(node.Command) == "" {
				printWarning("%s has no command text", args[0])
				return nil
			}

			runner := executor.NewExecRunner()
			if pythonCmd != "" {
				runner.Interpreters[menu.LangPython] = strings.Fields(pythonCmd)
			}
			if melCmd != "" {
				runner.Interpreters[menu.LangMEL] = strings.Fields(melCmd)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			printKeyValue("Label", node.Label)
			printKeyValue("Language", string(node.Language))
			c.Logger.Debugf("Command text: %q", node.Command)

			spinner := newSpinnerWithContext(ctx, "Running "+node.Label+"...")
			spinner.Start()
			out, err := runner.Run(ctx, node.Language, node.Command)
			if err != nil {
				spinner.StopWithError("Run failed")
				printOutput(out)
				if ctx.Err() == context.DeadlineExceeded {
					return errors.New(errors.ErrCodeExecFailed, "timed out after %s", timeout)
				}
				return err
			}
			spinner.Stop()

			printOutput(out)
			printSuccess("Ran %s", node.Label)
			return nil
		},
	}

	cmd.Flags().StringVarP(&docName, "document", "d", "", "document to run from (default from settings)")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultRunTimeout, "maximum run duration")
	cmd.Flags().BoolVar(&optionBox, "option-box", false, "run the entry's option box command instead")
	cmd.Flags().StringVar(&pythonCmd, "python", "", "override the Python interpreter command line")
	cmd.Flags().StringVar(&melCmd, "mel", "", "MEL interpreter command line")

	return cmd
}

// printOutput prints interpreter output verbatim, ensuring it ends with a
// newline so following status lines stay on their own line.
func printOutput(out string) {
	if out == "" {
		return
	}
	fmt.Print(out)
	if !strings.HasSuffix(out, "\n") {
		fmt.Println()
	}
}

// findByPath resolves a slash-separated label path to a node id. Option
// boxes are never matched directly; they are addressed through their
// command with --option-box.
func findByPath(t *menu.Tree, path string) (menu.NodeID, error) {
	labels := splitFolderPath(path)
	if len(labels) == 0 {
		return menu.RootID, errors.New(errors.ErrCodeNodeNotFound, "empty menu path")
	}
	parent := menu.RootID
	for i, label := range labels {
		id, ok := childByLabel(t, parent, label)
		if !ok {
			if i == 0 {
				return menu.RootID, errors.New(errors.ErrCodeNodeNotFound, "no top-level entry %q", label)
			}
			return menu.RootID, errors.New(errors.ErrCodeNodeNotFound, "no entry %q under %q", label, strings.Join(labels[:i], "/"))
		}
		parent = id
	}
	return parent, nil
}

// childByLabel finds a child of parent with the given label, skipping
// option boxes.
func childByLabel(t *menu.Tree, parent menu.NodeID, label string) (menu.NodeID, bool) {
	for _, id := range t.Children(parent) {
		n, ok := t.Node(id)
		if ok && !n.IsOptionBox() && n.Label == label {
			return id, true
		}
	}
	return menu.RootID, false
}
