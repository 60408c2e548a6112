package menu

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/jiapeiLu/menubuilder/pkg/errors"
)

func TestEngineAdd(t *testing.T) {
	tests := []struct {
		name     string
		node     Node
		parent   NodeID
		index    int
		wantCode errors.Code
		check    func(t *testing.T, e *Engine, id NodeID)
	}{
		{
			name:   "AssignsID",
			node:   Node{Kind: KindCommand, Label: "Render", Command: "render()"},
			parent: RootID,
			index:  -1,
			check: func(t *testing.T, e *Engine, id NodeID) {
				if id == RootID {
					t.Error("Add() returned empty id")
				}
			},
		},
		{
			name:   "KeepsExplicitID",
			node:   Node{ID: "render", Kind: KindCommand, Label: "Render"},
			parent: RootID,
			index:  -1,
			check: func(t *testing.T, e *Engine, id NodeID) {
				if id != "render" {
					t.Errorf("Add() id = %s, want render", id)
				}
			},
		},
		{
			name:   "DefaultsLanguageToPython",
			node:   Node{Kind: KindCommand, Label: "Render", Command: "render()"},
			parent: RootID,
			index:  -1,
			check: func(t *testing.T, e *Engine, id NodeID) {
				n, _ := e.Node(id)
				if n.Language != LangPython {
					t.Errorf("Language = %q, want %q", n.Language, LangPython)
				}
			},
		},
		{
			name:     "RejectsUnknownLanguage",
			node:     Node{Kind: KindCommand, Label: "Render", Language: "perl"},
			parent:   RootID,
			index:    -1,
			wantCode: errors.ErrCodeUnsupported,
		},
		{
			name:     "RejectsBlankLabel",
			node:     Node{Kind: KindCommand, Label: "   "},
			parent:   RootID,
			index:    -1,
			wantCode: errors.ErrCodeMissingLabel,
		},
		{
			name:     "RejectsBlankFolderLabel",
			node:     Node{Kind: KindFolder},
			parent:   RootID,
			index:    -1,
			wantCode: errors.ErrCodeMissingLabel,
		},
		{
			name:   "NormalizesSeparator",
			node:   Node{Kind: KindSeparator, Label: "ignored", Language: LangMEL, Command: "junk;"},
			parent: "file",
			index:  -1,
			check: func(t *testing.T, e *Engine, id NodeID) {
				n, _ := e.Node(id)
				if n.Label != "" || n.Language != "" || n.Command != "" {
					t.Errorf("separator kept payload: %+v", n)
				}
			},
		},
		{
			name:   "ClearsFolderCommandPayload",
			node:   Node{Kind: KindFolder, Label: "Tools", Language: LangPython, Command: "junk"},
			parent: RootID,
			index:  -1,
			check: func(t *testing.T, e *Engine, id NodeID) {
				n, _ := e.Node(id)
				if n.Language != "" || n.Command != "" {
					t.Errorf("folder kept command payload: %+v", n)
				}
			},
		},
		{
			name:     "RejectsOptionBoxAtFront",
			node:     Node{Kind: KindCommand, Label: "Opts", OptionBox: true},
			parent:   RootID,
			index:    0,
			wantCode: errors.ErrCodeInvalidOptionBox,
		},
		{
			name:     "RejectsInsertBetweenPair",
			node:     Node{Kind: KindCommand, Label: "X"},
			parent:   "file",
			index:    2,
			wantCode: errors.ErrCodeInvalidOptionBox,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(fileMenu(t))
			id, err := e.Add(tt.node, tt.parent, tt.index)

			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("Add() error = %v, want code %s", err, tt.wantCode)
				}
				if e.Dirty() {
					t.Error("Dirty() = true after rejected add")
				}
				return
			}
			if err != nil {
				t.Fatalf("Add(): %v", err)
			}
			if !e.Dirty() {
				t.Error("Dirty() = false after add")
			}
			if tt.check != nil {
				tt.check(t, e, id)
			}
		})
	}
}

func TestEngineMovePairAsUnit(t *testing.T) {
	e := NewEngine(fileMenu(t))

	// Moving the anchor drags its option box along.
	if err := e.Move("open", RootID, 0); err != nil {
		t.Fatalf("Move(): %v", err)
	}
	if got := childIDs(e.Tree(), RootID); !slices.Equal(got, []string{"open", "openbox", "file", "quit"}) {
		t.Errorf("root children = %v, want [open openbox file quit]", got)
	}
	if got := childIDs(e.Tree(), "file"); !slices.Equal(got, []string{"new", "sep"}) {
		t.Errorf("folder children = %v, want [new sep]", got)
	}
	if err := e.Tree().Validate(); err != nil {
		t.Errorf("Validate() after pair move: %v", err)
	}
}

func TestEngineMovePairWithinParent(t *testing.T) {
	e := NewEngine(fileMenu(t))

	if err := e.Move("open", "file", 0); err != nil {
		t.Fatalf("Move(): %v", err)
	}
	if got := childIDs(e.Tree(), "file"); !slices.Equal(got, []string{"open", "openbox", "new", "sep"}) {
		t.Errorf("folder children = %v, want [open openbox new sep]", got)
	}
	if err := e.Tree().Validate(); err != nil {
		t.Errorf("Validate() after reorder: %v", err)
	}
}

func TestEngineMoveRejected(t *testing.T) {
	e := NewEngine(fileMenu(t))

	if err := e.Move("quit", "file", 2); !errors.Is(err, errors.ErrCodeInvalidOptionBox) {
		t.Fatalf("Move() error = %v, want code %s", err, errors.ErrCodeInvalidOptionBox)
	}
	if e.Dirty() {
		t.Error("Dirty() = true after rejected move")
	}
	if got := childIDs(e.Tree(), RootID); !slices.Equal(got, []string{"file", "quit"}) {
		t.Errorf("root children = %v, want unchanged", got)
	}
}

func TestEngineDelete(t *testing.T) {
	tests := []struct {
		name        string
		id          NodeID
		policy      CascadePolicy
		wantCode    errors.Code
		wantRemoved []NodeID
		wantDemoted []NodeID
		wantRoot    []string
	}{
		{
			name:        "DemoteFolder",
			id:          "file",
			policy:      CascadeDemote,
			wantRemoved: []NodeID{"file"},
			wantDemoted: []NodeID{"new", "open", "openbox", "sep"},
			wantRoot:    []string{"new", "open", "openbox", "sep", "quit"},
		},
		{
			name:        "DeleteFolderSubtree",
			id:          "file",
			policy:      CascadeDelete,
			wantRemoved: []NodeID{"file", "new", "open", "openbox", "sep"},
			wantRoot:    []string{"quit"},
		},
		{
			name:        "CommandTakesItsOptionBox",
			id:          "open",
			policy:      CascadeDemote,
			wantRemoved: []NodeID{"open", "openbox"},
			wantRoot:    []string{"file", "quit"},
		},
		{
			name:        "OptionBoxAlone",
			id:          "openbox",
			policy:      CascadeDemote,
			wantRemoved: []NodeID{"openbox"},
			wantRoot:    []string{"file", "quit"},
		},
		{
			name:        "LeafCommand",
			id:          "quit",
			policy:      CascadeDelete,
			wantRemoved: []NodeID{"quit"},
			wantRoot:    []string{"file"},
		},
		{
			name:     "UnknownID",
			id:       "ghost",
			policy:   CascadeDemote,
			wantCode: errors.ErrCodeNodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(fileMenu(t))
			res, err := e.Delete(tt.id, tt.policy)

			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("Delete() error = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Delete(): %v", err)
			}
			if !slices.Equal(res.Removed, tt.wantRemoved) {
				t.Errorf("Removed = %v, want %v", res.Removed, tt.wantRemoved)
			}
			if !slices.Equal(res.Demoted, tt.wantDemoted) {
				t.Errorf("Demoted = %v, want %v", res.Demoted, tt.wantDemoted)
			}
			if got := childIDs(e.Tree(), RootID); !slices.Equal(got, tt.wantRoot) {
				t.Errorf("root children = %v, want %v", got, tt.wantRoot)
			}
			if err := e.Tree().Validate(); err != nil {
				t.Errorf("Validate() after delete: %v", err)
			}
			if !e.Dirty() {
				t.Error("Dirty() = false after delete")
			}
		})
	}
}

func TestEngineDeleteDemotePreservesNodes(t *testing.T) {
	e := NewEngine(fileMenu(t))

	if _, err := e.Delete("file", CascadeDemote); err != nil {
		t.Fatalf("Delete(): %v", err)
	}
	for _, id := range []NodeID{"new", "open", "openbox", "sep"} {
		if _, ok := e.Node(id); !ok {
			t.Errorf("demoted node %s no longer in tree", id)
		}
	}
	if _, ok := e.Node("file"); ok {
		t.Error("deleted folder still in tree")
	}
}

func TestEngineToggleOptionBox(t *testing.T) {
	e := NewEngine(fileMenu(t))

	if err := e.ToggleOptionBox("new", true); !errors.Is(err, errors.ErrCodeInvalidOptionBox) {
		t.Errorf("ToggleOptionBox(new) error = %v, want code %s", err, errors.ErrCodeInvalidOptionBox)
	}
	if e.Dirty() {
		t.Error("Dirty() = true after rejected toggle")
	}

	if err := e.ToggleOptionBox("openbox", false); err != nil {
		t.Fatalf("ToggleOptionBox(openbox, false): %v", err)
	}
	if n, _ := e.Node("openbox"); n.OptionBox {
		t.Error("option box flag still set after disable")
	}
	if !e.Dirty() {
		t.Error("Dirty() = false after toggle")
	}

	// Now that openbox is a plain command it can anchor; open no longer
	// anchors anything, so enabling on openbox succeeds.
	if err := e.ToggleOptionBox("openbox", true); err != nil {
		t.Fatalf("ToggleOptionBox(openbox, true): %v", err)
	}
	if err := e.Tree().Validate(); err != nil {
		t.Errorf("Validate() after toggles: %v", err)
	}
}

func TestEngineToggleNoopNotDirty(t *testing.T) {
	e := NewEngine(fileMenu(t))

	if err := e.ToggleOptionBox("new", false); err != nil {
		t.Fatalf("ToggleOptionBox(): %v", err)
	}
	if e.Dirty() {
		t.Error("Dirty() = true after no-op toggle")
	}
}

func TestEngineEditSession(t *testing.T) {
	e := NewEngine(fileMenu(t))

	snap, err := e.BeginEdit("open")
	if err != nil {
		t.Fatalf("BeginEdit(): %v", err)
	}
	if snap.Label != "Open" || snap.Language != LangPython {
		t.Errorf("snapshot = %+v, want label Open, language python", snap)
	}
	if id, ok := e.Editing(); !ok || id != "open" {
		t.Errorf("Editing() = %v, %v, want open, true", id, ok)
	}

	// Every structural mutation is rejected while the session is open.
	if _, err := e.Add(Node{Kind: KindSeparator}, RootID, -1); !errors.Is(err, errors.ErrCodeEditInProgress) {
		t.Errorf("Add() error = %v, want code %s", err, errors.ErrCodeEditInProgress)
	}
	if err := e.Move("quit", "file", -1); !errors.Is(err, errors.ErrCodeEditInProgress) {
		t.Errorf("Move() error = %v, want code %s", err, errors.ErrCodeEditInProgress)
	}
	if _, err := e.Delete("quit", CascadeDemote); !errors.Is(err, errors.ErrCodeEditInProgress) {
		t.Errorf("Delete() error = %v, want code %s", err, errors.ErrCodeEditInProgress)
	}
	if err := e.ToggleOptionBox("openbox", false); !errors.Is(err, errors.ErrCodeEditInProgress) {
		t.Errorf("ToggleOptionBox() error = %v, want code %s", err, errors.ErrCodeEditInProgress)
	}
	if err := e.Replace(NewTree()); !errors.Is(err, errors.ErrCodeEditInProgress) {
		t.Errorf("Replace() error = %v, want code %s", err, errors.ErrCodeEditInProgress)
	}
	if err := e.MergeFrom(NewTree()); !errors.Is(err, errors.ErrCodeEditInProgress) {
		t.Errorf("MergeFrom() error = %v, want code %s", err, errors.ErrCodeEditInProgress)
	}
	if _, err := e.BeginEdit("quit"); !errors.Is(err, errors.ErrCodeEditInProgress) {
		t.Errorf("BeginEdit() error = %v, want code %s", err, errors.ErrCodeEditInProgress)
	}

	if err := e.CommitEdit(Attrs{Label: "Open Scene", Language: LangMEL, Command: "openScene;"}); err != nil {
		t.Fatalf("CommitEdit(): %v", err)
	}
	if _, ok := e.Editing(); ok {
		t.Error("Editing() = true after commit")
	}
	n, _ := e.Node("open")
	if n.Label != "Open Scene" || n.Language != LangMEL || n.Command != "openScene;" {
		t.Errorf("node after commit = %+v", n)
	}
	if !e.Dirty() {
		t.Error("Dirty() = false after commit")
	}
}

func TestEngineCommitEditRejected(t *testing.T) {
	e := NewEngine(fileMenu(t))

	if _, err := e.BeginEdit("open"); err != nil {
		t.Fatalf("BeginEdit(): %v", err)
	}
	if err := e.CommitEdit(Attrs{Label: "  "}); !errors.Is(err, errors.ErrCodeMissingLabel) {
		t.Fatalf("CommitEdit() error = %v, want code %s", err, errors.ErrCodeMissingLabel)
	}

	// A failed commit keeps the session open and the node untouched.
	if id, ok := e.Editing(); !ok || id != "open" {
		t.Errorf("Editing() = %v, %v after failed commit, want open, true", id, ok)
	}
	if n, _ := e.Node("open"); n.Label != "Open" {
		t.Errorf("label = %q after failed commit, want Open", n.Label)
	}

	if err := e.CommitEdit(Attrs{Label: "Open"}); err != nil {
		t.Fatalf("CommitEdit() retry: %v", err)
	}
}

func TestEngineCommitEditBadLanguage(t *testing.T) {
	e := NewEngine(fileMenu(t))

	if _, err := e.BeginEdit("open"); err != nil {
		t.Fatalf("BeginEdit(): %v", err)
	}
	if err := e.CommitEdit(Attrs{Label: "Open", Language: "lua"}); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Fatalf("CommitEdit() error = %v, want code %s", err, errors.ErrCodeUnsupported)
	}
	if _, ok := e.Editing(); !ok {
		t.Error("Editing() = false after failed commit")
	}
}

func TestEngineCommitEditFolderIgnoresCommandAttrs(t *testing.T) {
	e := NewEngine(fileMenu(t))

	if _, err := e.BeginEdit("file"); err != nil {
		t.Fatalf("BeginEdit(): %v", err)
	}
	if err := e.CommitEdit(Attrs{Label: "Project", Language: LangMEL, Command: "junk;"}); err != nil {
		t.Fatalf("CommitEdit(): %v", err)
	}

	n, _ := e.Node("file")
	if n.Label != "Project" {
		t.Errorf("label = %q, want Project", n.Label)
	}
	if n.Language != "" || n.Command != "" {
		t.Errorf("folder picked up command payload: %+v", n)
	}
}

func TestEngineCommitWithoutSession(t *testing.T) {
	e := NewEngine(fileMenu(t))
	if err := e.CommitEdit(Attrs{Label: "X"}); !errors.Is(err, errors.ErrCodeNoEditSession) {
		t.Errorf("CommitEdit() error = %v, want code %s", err, errors.ErrCodeNoEditSession)
	}
}

func TestEngineCancelEdit(t *testing.T) {
	e := NewEngine(fileMenu(t))

	// Idempotent with no session open.
	e.CancelEdit()

	if _, err := e.BeginEdit("open"); err != nil {
		t.Fatalf("BeginEdit(): %v", err)
	}
	e.CancelEdit()

	if _, ok := e.Editing(); ok {
		t.Error("Editing() = true after cancel")
	}
	if n, _ := e.Node("open"); n.Label != "Open" {
		t.Errorf("label = %q after cancel, want Open", n.Label)
	}
	if e.Dirty() {
		t.Error("Dirty() = true after cancelled edit")
	}

	// The engine accepts mutations again.
	if _, err := e.Add(Node{Kind: KindSeparator}, RootID, -1); err != nil {
		t.Errorf("Add() after cancel: %v", err)
	}
}

func TestEngineReplace(t *testing.T) {
	e := NewEngine(fileMenu(t))
	if _, err := e.Delete("quit", CascadeDemote); err != nil {
		t.Fatalf("Delete(): %v", err)
	}
	if !e.Dirty() {
		t.Fatal("Dirty() = false after delete")
	}

	fresh := NewTree()
	if err := e.Replace(fresh); err != nil {
		t.Fatalf("Replace(): %v", err)
	}
	if e.Dirty() {
		t.Error("Dirty() = true after replace")
	}
	if e.Tree() != fresh {
		t.Error("Tree() does not return the replacement")
	}
}

func TestEngineMergeFrom(t *testing.T) {
	e := NewEngine(fileMenu(t))

	incoming := NewTree()
	mustAdd(t, incoming, Node{ID: "f2", Kind: KindFolder, Label: "File"}, RootID, -1)
	mustAdd(t, incoming, Node{ID: "save", Kind: KindCommand, Label: "Save", Language: LangPython}, "f2", -1)

	if err := e.MergeFrom(incoming); err != nil {
		t.Fatalf("MergeFrom(): %v", err)
	}
	// Same-label folders merged: Save lands under the existing File folder.
	if got := childIDs(e.Tree(), "file"); !slices.Equal(got, []string{"new", "open", "openbox", "sep", "save"}) {
		t.Errorf("folder children = %v, want [new open openbox sep save]", got)
	}
	if !e.Dirty() {
		t.Error("Dirty() = false after merge")
	}
}

func TestEngineMergeFromRejected(t *testing.T) {
	e := NewEngine(fileMenu(t))

	// An incoming tree whose folder starts with an option box merges into
	// the empty destination slot and fails wholesale validation.
	incoming := NewTree()
	mustAdd(t, incoming, Node{ID: "f2", Kind: KindFolder, Label: "Broken"}, RootID, -1)
	mustAdd(t, incoming, Node{ID: "b", Kind: KindCommand, Label: "Opts", Language: LangPython, OptionBox: true}, "f2", -1)

	if err := e.MergeFrom(incoming); !errors.Is(err, errors.ErrCodeMergeRejected) {
		t.Fatalf("MergeFrom() error = %v, want code %s", err, errors.ErrCodeMergeRejected)
	}
	// The engine keeps its previous tree on rejection.
	if e.Tree().Contains("f2") {
		t.Error("rejected merge leaked nodes into the tree")
	}
	if got := e.Tree().NodeCount(); got != 6 {
		t.Errorf("NodeCount() = %d, want 6", got)
	}
}

func TestEngineRandomOpsKeepTreeValid(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	e := NewEngine(nil)

	ids := func() []NodeID {
		var out []NodeID
		e.Tree().Walk(func(n *Node, _ int) bool {
			out = append(out, n.ID)
			return true
		})
		return out
	}

	for i := 0; i < 500; i++ {
		all := ids()
		pick := func() NodeID {
			if len(all) == 0 {
				return "missing"
			}
			return all[rng.Intn(len(all))]
		}
		parent := RootID
		if len(all) > 0 && rng.Intn(3) > 0 {
			parent = pick()
		}

		switch rng.Intn(5) {
		case 0, 1:
			n := Node{
				Kind:      Kind(rng.Intn(3)),
				Label:     fmt.Sprintf("Node %d", i),
				Language:  LangPython,
				OptionBox: rng.Intn(4) == 0,
			}
			_, _ = e.Add(n, parent, rng.Intn(4)-1)
		case 2:
			_ = e.Move(pick(), parent, rng.Intn(4)-1)
		case 3:
			_, _ = e.Delete(pick(), CascadePolicy(rng.Intn(2)))
		case 4:
			_ = e.ToggleOptionBox(pick(), rng.Intn(2) == 0)
		}

		if err := e.Tree().Validate(); err != nil {
			t.Fatalf("tree invalid after operation %d: %v", i+1, err)
		}
	}
}
