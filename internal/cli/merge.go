package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jiapeiLu/menubuilder/pkg/document"
	"github.com/jiapeiLu/menubuilder/pkg/menu"
)

// mergeCommand creates the merge command for combining two documents.
func (c *CLI) mergeCommand() *cobra.Command {
	var output string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "merge <source> [target]",
		Short: "Merge one menu document into another",
		Long: `Merge the source document into the target. Folders with the same label
at the same level are combined recursively; everything else is appended
in order. When any part of the source cannot be placed the merge is
rejected wholesale and the target is left untouched.

Source and target are stored document names or JSON file paths. The
target defaults to the configured default document.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			target := c.Settings.Document
			if len(args) > 1 {
				target = args[1]
			}

			src, _, err := c.loadTreeRef(source)
			if err != nil {
				return err
			}
			dst, targetPath, err := c.loadTreeRef(target)
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			merged, err := menu.Merge(dst, src)
			if err != nil {
				return err
			}
			added := merged.NodeCount() - dst.NodeCount()
			prog.done(fmt.Sprintf("Merged %d entries from %s", added, source))

			if dryRun {
				printInfo("Dry run, nothing written")
				folders, commands, separators := treeCounts(merged)
				printStats(folders, commands, separators)
				return nil
			}

			outPath := targetPath
			if output != "" {
				store, err := c.openStore()
				if err != nil {
					return err
				}
				if err := store.Save(output, merged); err != nil {
					return err
				}
				outPath, _ = store.Path(output)
			} else if err := document.WriteFile(merged, targetPath); err != nil {
				return err
			}

			printSuccess("Merged %s into %s", source, target)
			printDetail("%d entries added", added)
			printFile(outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result to this document instead of the target")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "merge without writing the result")

	return cmd
}
