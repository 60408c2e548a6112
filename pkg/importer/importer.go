// Package importer turns outside script sources into candidate menu
// entries. Listers scan Python and MEL files for callable definitions, and
// the shelf importer maps a saved Maya shelf file into ordered command
// drafts. Nothing here touches a tree; callers feed the results through the
// engine's add operation like any manual entry.
package importer

import (
	"os"
	"path/filepath"

	"github.com/jiapeiLu/menubuilder/pkg/errors"
	"github.com/jiapeiLu/menubuilder/pkg/menu"
)

// Callable is one function definition found in a script source.
type Callable struct {
	Name string // Function name as written in the source
	Line int    // 1-based line of the definition
}

// SourceLister scans one script language for callable definitions.
type SourceLister interface {
	// List returns the callables defined in src, in source order. The
	// scan is lexical and deliberately tolerant: a file that fails to
	// parse in its own language can still yield its definitions.
	List(src []byte) []Callable
	// Supports reports whether this lister handles the given filename.
	Supports(filename string) bool
	// Language returns the command language of the listed callables.
	Language() menu.Language
}

// Listers returns the built-in listers, one per supported language.
func Listers() []SourceLister {
	return []SourceLister{&PythonLister{}, &MELLister{}}
}

// DetectLister finds a lister that supports the given file path by name.
// With no explicit listers the built-in set is consulted.
func DetectLister(path string, listers ...SourceLister) (SourceLister, error) {
	if len(listers) == 0 {
		listers = Listers()
	}
	name := filepath.Base(path)
	for _, l := range listers {
		if l.Supports(name) {
			return l, nil
		}
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "no script parser for %s", name)
}

// ListFile reads the script at path and returns its callables along with
// the language they run in.
func ListFile(path string) ([]Callable, menu.Language, error) {
	lister, err := DetectLister(path)
	if err != nil {
		return nil, "", err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidSource, err, "read %s", path)
	}
	return lister.List(src), lister.Language(), nil
}

// lineAt returns the 1-based line number of byte offset off in src.
func lineAt(src []byte, off int) int {
	line := 1
	for _, b := range src[:off] {
		if b == '\n' {
			line++
		}
	}
	return line
}
