package document

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/jiapeiLu/menubuilder/pkg/errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore(): %v", err)
	}
	return s
}

func TestStoreSaveLoad(t *testing.T) {
	s := newTestStore(t)
	tr := sampleTree(t)

	if err := s.Save("animation_bar", tr); err != nil {
		t.Fatalf("Save(): %v", err)
	}
	back, err := s.Load("animation_bar")
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}

	if got, want := flatten(back), flatten(tr); !slices.Equal(got, want) {
		t.Errorf("loaded tree differs from saved tree:\ngot  %v\nwant %v", got, want)
	}
}

func TestStoreList(t *testing.T) {
	s := newTestStore(t)
	tr := sampleTree(t)

	for _, name := range []string{"rigging", "animation", "tools"} {
		if err := s.Save(name, tr); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
	}
	// Non-document entries are ignored.
	if err := os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(s.Dir(), "backup"), 0755); err != nil {
		t.Fatal(err)
	}

	names, err := s.List()
	if err != nil {
		t.Fatalf("List(): %v", err)
	}
	want := []string{"animation", "rigging", "tools"}
	if !slices.Equal(names, want) {
		t.Errorf("List() = %v, want %v", names, want)
	}
}

func TestStoreListEmpty(t *testing.T) {
	s := newTestStore(t)
	names, err := s.List()
	if err != nil {
		t.Fatalf("List(): %v", err)
	}
	if len(names) != 0 {
		t.Errorf("List() = %v, want empty", names)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Load("ghost")
	if !errors.Is(err, errors.ErrCodeDocumentNotFound) {
		t.Errorf("Load(ghost) error = %v, want code %s", err, errors.ErrCodeDocumentNotFound)
	}
}

func TestStoreRejectsBadNames(t *testing.T) {
	s := newTestStore(t)
	tr := sampleTree(t)

	for _, name := range []string{"", "../escape", "a/b", ".hidden"} {
		if err := s.Save(name, tr); !errors.Is(err, errors.ErrCodeInvalidName) {
			t.Errorf("Save(%q) error = %v, want code %s", name, err, errors.ErrCodeInvalidName)
		}
		if _, err := s.Load(name); !errors.Is(err, errors.ErrCodeInvalidName) {
			t.Errorf("Load(%q) error = %v, want code %s", name, err, errors.ErrCodeInvalidName)
		}
	}
}

func TestStoreExists(t *testing.T) {
	s := newTestStore(t)

	if s.Exists("bar") {
		t.Error("Exists(bar) = true before save")
	}
	if err := s.Save("bar", sampleTree(t)); err != nil {
		t.Fatalf("Save(): %v", err)
	}
	if !s.Exists("bar") {
		t.Error("Exists(bar) = false after save")
	}
}

func TestStoreDelete(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save("bar", sampleTree(t)); err != nil {
		t.Fatalf("Save(): %v", err)
	}
	if err := s.Delete("bar"); err != nil {
		t.Fatalf("Delete(): %v", err)
	}
	if s.Exists("bar") {
		t.Error("Exists(bar) = true after delete")
	}
	if err := s.Delete("bar"); !errors.Is(err, errors.ErrCodeDocumentNotFound) {
		t.Errorf("Delete(bar) error = %v, want code %s", err, errors.ErrCodeDocumentNotFound)
	}
}

func TestStoreEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigPath, dir)

	s, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore(): %v", err)
	}
	if s.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", s.Dir(), dir)
	}
}

func TestStoreLoadRejectsCorruptFile(t *testing.T) {
	s := newTestStore(t)
	path, err := s.Path("broken")
	if err != nil {
		t.Fatalf("Path(): %v", err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Load("broken"); !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("Load(broken) error = %v, want code %s", err, errors.ErrCodeInvalidDocument)
	}
}
