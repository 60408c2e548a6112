package menu

import (
	"slices"
	"testing"

	"github.com/jiapeiLu/menubuilder/pkg/errors"
)

func labelsOf(tr *Tree, parent NodeID) []string {
	var out []string
	for _, id := range tr.Children(parent) {
		n, _ := tr.Node(id)
		out = append(out, n.Label)
	}
	return out
}

func TestMergeRecursesIntoSameLabelFolders(t *testing.T) {
	base := NewTree()
	mustAdd(t, base, Node{ID: "b1", Kind: KindFolder, Label: "Rigging"}, RootID, -1)
	mustAdd(t, base, Node{ID: "b2", Kind: KindFolder, Label: "Joints"}, "b1", -1)
	mustAdd(t, base, Node{ID: "b3", Kind: KindCommand, Label: "Mirror", Language: LangPython}, "b2", -1)

	incoming := NewTree()
	mustAdd(t, incoming, Node{ID: "i1", Kind: KindFolder, Label: "Rigging"}, RootID, -1)
	mustAdd(t, incoming, Node{ID: "i2", Kind: KindFolder, Label: "Joints"}, "i1", -1)
	mustAdd(t, incoming, Node{ID: "i3", Kind: KindCommand, Label: "Orient", Language: LangPython}, "i2", -1)
	mustAdd(t, incoming, Node{ID: "i4", Kind: KindFolder, Label: "Skinning"}, "i1", -1)

	merged, err := Merge(base, incoming)
	if err != nil {
		t.Fatalf("Merge(): %v", err)
	}

	// Rigging and Joints existed on both sides, so neither is duplicated.
	if got := labelsOf(merged, RootID); !slices.Equal(got, []string{"Rigging"}) {
		t.Fatalf("root labels = %v, want [Rigging]", got)
	}
	if got := labelsOf(merged, "b1"); !slices.Equal(got, []string{"Joints", "Skinning"}) {
		t.Errorf("Rigging labels = %v, want [Joints Skinning]", got)
	}
	if got := labelsOf(merged, "b2"); !slices.Equal(got, []string{"Mirror", "Orient"}) {
		t.Errorf("Joints labels = %v, want [Mirror Orient]", got)
	}
}

func TestMergeAppendsNonFolders(t *testing.T) {
	base := fileMenu(t)

	incoming := NewTree()
	// Same label as an existing command; commands never merge.
	mustAdd(t, incoming, Node{ID: "i1", Kind: KindCommand, Label: "Quit", Language: LangPython}, RootID, -1)
	mustAdd(t, incoming, Node{ID: "i2", Kind: KindSeparator}, RootID, -1)

	merged, err := Merge(base, incoming)
	if err != nil {
		t.Fatalf("Merge(): %v", err)
	}
	if got := childIDs(merged, RootID); !slices.Equal(got, []string{"file", "quit", "i1", "i2"}) {
		t.Errorf("root children = %v, want [file quit i1 i2]", got)
	}
}

func TestMergeReassignsCollidingIDs(t *testing.T) {
	base := fileMenu(t)

	incoming := NewTree()
	mustAdd(t, incoming, Node{ID: "quit", Kind: KindCommand, Label: "Quit Hard", Language: LangMEL}, RootID, -1)

	merged, err := Merge(base, incoming)
	if err != nil {
		t.Fatalf("Merge(): %v", err)
	}

	if got := merged.NodeCount(); got != 7 {
		t.Fatalf("NodeCount() = %d, want 7", got)
	}
	// The original keeps its id; the incoming one got a fresh id.
	if n, _ := merged.Node("quit"); n.Label != "Quit" {
		t.Errorf("node quit label = %q, want Quit", n.Label)
	}
	kids := merged.Children(RootID)
	grafted, _ := merged.Node(kids[len(kids)-1])
	if grafted.ID == "quit" {
		t.Error("colliding id was not reassigned")
	}
	if grafted.Label != "Quit Hard" {
		t.Errorf("grafted label = %q, want Quit Hard", grafted.Label)
	}
}

func TestMergeKeepsOptionBoxPairs(t *testing.T) {
	base := NewTree()
	mustAdd(t, base, Node{ID: "b1", Kind: KindFolder, Label: "File"}, RootID, -1)

	incoming := fileMenu(t)

	merged, err := Merge(base, incoming)
	if err != nil {
		t.Fatalf("Merge(): %v", err)
	}
	if err := merged.Validate(); err != nil {
		t.Fatalf("Validate(): %v", err)
	}
	// The incoming File contents landed inside the existing empty File.
	if got := labelsOf(merged, "b1"); !slices.Equal(got, []string{"New", "Open", "Open Options", ""}) {
		t.Errorf("File labels = %v", got)
	}
}

func TestMergeLeavesInputsUntouched(t *testing.T) {
	base := fileMenu(t)
	incoming := NewTree()
	mustAdd(t, incoming, Node{ID: "i1", Kind: KindCommand, Label: "Extra", Language: LangPython}, RootID, -1)

	if _, err := Merge(base, incoming); err != nil {
		t.Fatalf("Merge(): %v", err)
	}

	if got := base.NodeCount(); got != 6 {
		t.Errorf("base NodeCount() = %d, want 6", got)
	}
	if got := incoming.NodeCount(); got != 1 {
		t.Errorf("incoming NodeCount() = %d, want 1", got)
	}
}

func TestMergeRejectsInvalidResult(t *testing.T) {
	base := NewTree()
	mustAdd(t, base, Node{ID: "b1", Kind: KindFolder, Label: "Tools"}, RootID, -1)

	// The incoming folder's first child is an option box; merged into the
	// empty Tools folder it would be first among its siblings.
	incoming := NewTree()
	mustAdd(t, incoming, Node{ID: "i1", Kind: KindFolder, Label: "Tools"}, RootID, -1)
	mustAdd(t, incoming, Node{ID: "i2", Kind: KindCommand, Label: "Opts", Language: LangPython, OptionBox: true}, "i1", -1)

	_, err := Merge(base, incoming)
	if !errors.Is(err, errors.ErrCodeMergeRejected) {
		t.Fatalf("Merge() error = %v, want code %s", err, errors.ErrCodeMergeRejected)
	}
	if base.NodeCount() != 1 {
		t.Errorf("base NodeCount() = %d after rejected merge, want 1", base.NodeCount())
	}
}

func TestMergeNilIncoming(t *testing.T) {
	base := fileMenu(t)
	merged, err := Merge(base, nil)
	if err != nil {
		t.Fatalf("Merge(): %v", err)
	}
	if merged.NodeCount() != base.NodeCount() {
		t.Errorf("NodeCount() = %d, want %d", merged.NodeCount(), base.NodeCount())
	}
}
