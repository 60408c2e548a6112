package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jiapeiLu/menubuilder/pkg/document"
	"github.com/jiapeiLu/menubuilder/pkg/menu"
)

// validateCommand creates the validate command for checking a document.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [document-or-file]",
		Short: "Check a menu document against the structural rules",
		Long: `Check that a document parses and satisfies every structural rule:
option boxes directly follow their command, only folders have children,
and all required attributes are present.

The argument is a stored document name or a path to a JSON file. With no
argument the configured default document is checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := c.resolveDocument(args)
			t, path, err := c.loadTreeRef(ref)
			if err != nil {
				return err
			}

			printSuccess("%s is valid", ref)
			printFile(path)
			folders, commands, separators := treeCounts(t)
			printStats(folders, commands, separators)
			return nil
		},
	}
}

// looksLikeDocumentFile returns true if ref appears to be a file path
// rather than a stored document name. It checks for a .json extension, a
// path separator, or an existing file.
func looksLikeDocumentFile(ref string) bool {
	if strings.HasSuffix(strings.ToLower(ref), ".json") {
		return true
	}
	if strings.ContainsRune(ref, '/') || strings.ContainsRune(ref, os.PathSeparator) {
		return true
	}
	_, err := os.Stat(ref)
	return err == nil
}

// loadTreeRef loads a tree from a stored document name or a JSON file
// path, returning the tree together with the file it came from.
func (c *CLI) loadTreeRef(ref string) (*menu.Tree, string, error) {
	if looksLikeDocumentFile(ref) {
		t, err := document.ReadFile(ref)
		return t, ref, err
	}
	store, err := c.openStore()
	if err != nil {
		return nil, "", err
	}
	t, err := c.loadDocument(store, ref)
	if err != nil {
		return nil, "", err
	}
	path, _ := store.Path(ref)
	return t, path, nil
}
