package document

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jiapeiLu/menubuilder/pkg/errors"
	"github.com/jiapeiLu/menubuilder/pkg/menu"
)

// EnvConfigPath overrides the default document directory when set. It
// mirrors the environment override honored by the Maya-side loader, so the
// CLI and the host read the same library.
const EnvConfigPath = "MENUBUILDER_CONFIG_PATH"

// Store is the on-disk library of named menu documents. Each document is
// one JSON file named <name>.json inside the base directory.
type Store struct {
	baseDir string
}

// NewStore creates a document store rooted at baseDir, creating the
// directory if needed. An empty baseDir falls back to $MENUBUILDER_CONFIG_PATH
// and then to ~/.config/menubuilder/menuitems.
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		baseDir = os.Getenv(EnvConfigPath)
	}
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "get home dir")
		}
		baseDir = filepath.Join(home, ".config", "menubuilder", "menuitems")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create document dir")
	}
	return &Store{baseDir: baseDir}, nil
}

// Dir returns the base directory holding the documents.
func (s *Store) Dir() string { return s.baseDir }

// Path returns the file path a document name maps to. The name is
// validated first so a crafted name cannot escape the base directory.
func (s *Store) Path(name string) (string, error) {
	if err := errors.ValidateDocumentName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, name+".json"), nil
}

// List returns the names of all stored documents, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read document dir")
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether a document with the given name is stored.
func (s *Store) Exists(name string) bool {
	path, err := s.Path(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load reads and decodes the named document. A missing file reports
// DOCUMENT_NOT_FOUND by name, which callers surface with the list of
// available names.
func (s *Store) Load(name string) (*menu.Tree, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	t, err := ReadFile(path)
	if errors.Is(err, errors.ErrCodeDocumentNotFound) {
		return nil, errors.New(errors.ErrCodeDocumentNotFound, "no document named %q", name)
	}
	return t, err
}

// Save encodes the tree and writes it as the named document, replacing any
// previous content.
func (s *Store) Save(name string, t *menu.Tree) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	return WriteFile(t, path)
}

// Delete removes the named document. Deleting a missing document reports
// DOCUMENT_NOT_FOUND.
func (s *Store) Delete(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return errors.New(errors.ErrCodeDocumentNotFound, "no document named %q", name)
		}
		return errors.Wrap(errors.ErrCodeInternal, err, "remove %s", path)
	}
	return nil
}
