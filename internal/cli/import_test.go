package cli

import (
	"reflect"
	"testing"

	"github.com/jiapeiLu/menubuilder/pkg/menu"
)

func TestEnsureFolderPath(t *testing.T) {
	eng := menu.NewEngine(nil)

	id, err := ensureFolderPath(eng, "Rigging/Utils")
	if err != nil {
		t.Fatalf("ensureFolderPath() error: %v", err)
	}
	if got := eng.Tree().PathString(id); got != "Rigging/Utils" {
		t.Errorf("PathString() = %q, want %q", got, "Rigging/Utils")
	}

	// A second call walks the existing folders instead of duplicating them.
	again, err := ensureFolderPath(eng, "Rigging/Utils")
	if err != nil {
		t.Fatalf("ensureFolderPath() second call error: %v", err)
	}
	if again != id {
		t.Errorf("second call returned %q, want existing folder %q", again, id)
	}
	if got := len(eng.Tree().Children(menu.RootID)); got != 1 {
		t.Errorf("top level has %d entries, want 1", got)
	}
}

func TestEnsureFolderPathEmpty(t *testing.T) {
	eng := menu.NewEngine(nil)
	id, err := ensureFolderPath(eng, "")
	if err != nil {
		t.Fatalf("ensureFolderPath() error: %v", err)
	}
	if id != menu.RootID {
		t.Errorf("ensureFolderPath(\"\") = %q, want top level", id)
	}
}

func TestSplitFolderPath(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"", nil},
		{"Rigging", []string{"Rigging"}},
		{"Rigging/Utils", []string{"Rigging", "Utils"}},
		{" A / B ", []string{"A", "B"}},
		{"/A//B/", []string{"A", "B"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := splitFolderPath(tt.path); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitFolderPath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestChildFolderByLabel(t *testing.T) {
	eng := menu.NewEngine(nil)
	if _, err := eng.Add(menu.Node{Kind: menu.KindCommand, Label: "Tools", Language: menu.LangPython}, menu.RootID, -1); err != nil {
		t.Fatal(err)
	}
	folder, err := eng.Add(menu.Node{Kind: menu.KindFolder, Label: "Tools"}, menu.RootID, -1)
	if err != nil {
		t.Fatal(err)
	}

	got, ok := childFolderByLabel(eng.Tree(), menu.RootID, "Tools")
	if !ok || got != folder {
		t.Errorf("childFolderByLabel() = %q, %v; want folder %q", got, ok, folder)
	}
	if _, ok := childFolderByLabel(eng.Tree(), menu.RootID, "Missing"); ok {
		t.Error("childFolderByLabel() found a folder that does not exist")
	}
}
