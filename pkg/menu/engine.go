package menu

import (
	"strings"

	"github.com/jiapeiLu/menubuilder/pkg/errors"
)

// CascadePolicy controls what happens to a folder's children when the
// folder is deleted.
type CascadePolicy int

const (
	// CascadeDemote moves the children up into the folder's position,
	// preserving their order. This is the default policy.
	CascadeDemote CascadePolicy = iota
	// CascadeDelete removes the folder's entire subtree.
	CascadeDelete
)

// String returns the policy name used in CLI flags and display.
func (p CascadePolicy) String() string {
	if p == CascadeDelete {
		return "delete"
	}
	return "demote"
}

// DeleteResult reports what a delete actually did, so a presentation layer
// can tell the user which entries disappeared and which just moved up.
type DeleteResult struct {
	Removed []NodeID // Deleted nodes, depth-first, target first
	Demoted []NodeID // Children promoted into the deleted folder's position
}

// Engine owns one tree and serializes all structural edits to it. Every
// operation validates first and mutates only on success, so expected
// violations return coded errors with the tree unchanged and nothing
// panics.
//
// The engine also carries the edit session state machine and a dirty flag
// that flips on every committed mutation. It is not safe for concurrent
// use; the intended deployment funnels all edits through one engine on one
// goroutine.
type Engine struct {
	tree    *Tree
	editing NodeID
	inEdit  bool
	dirty   bool
}

// NewEngine creates an engine owning the given tree. A nil tree starts the
// engine on a fresh empty one.
func NewEngine(t *Tree) *Engine {
	if t == nil {
		t = NewTree()
	}
	return &Engine{tree: t}
}

// Tree returns the engine's tree for reading. Callers must not mutate it
// directly; edits go through the engine so validation and the edit-session
// guard apply.
func (e *Engine) Tree() *Tree { return e.tree }

// Node returns a snapshot of the node with the given id.
func (e *Engine) Node(id NodeID) (Node, bool) {
	n, ok := e.tree.Node(id)
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Dirty reports whether the tree changed since it was last opened or saved.
func (e *Engine) Dirty() bool { return e.dirty }

// ClearDirty marks the current state as persisted. Called after a save.
func (e *Engine) ClearDirty() { e.dirty = false }

// Editing returns the id under edit and true while an edit session is open.
func (e *Engine) Editing() (NodeID, bool) { return e.editing, e.inEdit }

// guardMutation rejects structural edits while an edit session is open.
func (e *Engine) guardMutation() error {
	if e.inEdit {
		return errors.New(errors.ErrCodeEditInProgress, "node %s is being edited; commit or cancel first", e.editing)
	}
	return nil
}

// Add validates and inserts a new node under parent at index (-1 appends),
// returning the assigned id. Fields the node's kind ignores are cleared so
// every stored node carries exactly its kind's payload; an option-box flag
// on a non-command is rejected rather than cleared since that is a
// placement rule, not an ignored field.
//
// An empty id is replaced with a fresh one. Explicit ids are kept, which
// the document layer relies on, and collide with DUPLICATE_ID.
func (e *Engine) Add(n Node, parent NodeID, index int) (NodeID, error) {
	if err := e.guardMutation(); err != nil {
		return RootID, err
	}
	prepared, err := prepareNode(n)
	if err != nil {
		return RootID, err
	}
	if err := e.tree.CanInsertAt(prepared, parent, index); err != nil {
		return RootID, err
	}
	if err := e.tree.Add(prepared, parent, index); err != nil {
		return RootID, err
	}
	e.dirty = true
	return prepared.ID, nil
}

// prepareNode normalizes a node for insertion: assigns an id if missing,
// clears kind-ignored fields, and validates the kind-required ones.
func prepareNode(n Node) (Node, error) {
	if n.ID == RootID {
		n.ID = NewNodeID()
	}
	switch n.Kind {
	case KindFolder:
		if err := errors.ValidateLabel(n.Label); err != nil {
			return Node{}, err
		}
		n.Language, n.Command = "", ""
	case KindCommand:
		if err := errors.ValidateLabel(n.Label); err != nil {
			return Node{}, err
		}
		if n.Language == "" {
			n.Language = LangPython
		}
		if !n.Language.Valid() {
			return Node{}, errors.New(errors.ErrCodeUnsupported, "unknown command language %q", n.Language)
		}
	case KindSeparator:
		n.Label, n.Language, n.Command, n.Icon = "", "", "", ""
	default:
		return Node{}, errors.New(errors.ErrCodeInternal, "unknown node kind %d", n.Kind)
	}
	return n, nil
}

// Move relocates id under parent at index (-1 appends), carrying its whole
// subtree. A command with an attached option box moves as a unit with the
// box kept directly behind it. The index addresses the destination child
// list after the moved nodes are detached.
func (e *Engine) Move(id, parent NodeID, index int) error {
	if err := e.guardMutation(); err != nil {
		return err
	}
	if err := e.tree.CanMoveTo(id, parent, index); err != nil {
		return err
	}
	follower, hasFollower := e.tree.OptionBoxFollower(id)
	if err := e.tree.Move(id, parent, index); err != nil {
		return err
	}
	if hasFollower {
		if err := e.tree.Move(follower, parent, e.tree.IndexOf(id)+1); err != nil {
			return err
		}
	}
	e.dirty = true
	return nil
}

// Delete removes the node with the given id. For a folder with children the
// policy decides the cascade: CascadeDemote promotes the children into the
// folder's position in order, CascadeDelete removes the whole subtree. A
// command's attached option box is removed with it, since the box cannot
// exist without its command.
func (e *Engine) Delete(id NodeID, policy CascadePolicy) (DeleteResult, error) {
	if err := e.guardMutation(); err != nil {
		return DeleteResult{}, err
	}
	node, ok := e.tree.Node(id)
	if !ok {
		return DeleteResult{}, errors.New(errors.ErrCodeNodeNotFound, "no node with id %s", id)
	}

	var result DeleteResult
	switch {
	case node.Kind == KindFolder && len(e.tree.Children(id)) > 0 && policy == CascadeDemote:
		parent, _ := e.tree.Parent(id)
		idx := e.tree.IndexOf(id)
		children := append([]NodeID(nil), e.tree.Children(id)...)
		for i, child := range children {
			if err := e.tree.Move(child, parent, idx+i); err != nil {
				return DeleteResult{}, err
			}
		}
		removed, err := e.tree.Remove(id)
		if err != nil {
			return DeleteResult{}, err
		}
		result.Removed = removed
		result.Demoted = children
	default:
		if follower, ok := e.tree.OptionBoxFollower(id); ok {
			removed, err := e.tree.Remove(follower)
			if err != nil {
				return DeleteResult{}, err
			}
			result.Removed = removed
		}
		removed, err := e.tree.Remove(id)
		if err != nil {
			return DeleteResult{}, err
		}
		result.Removed = append(removed, result.Removed...)
	}
	e.dirty = true
	return result, nil
}

// ToggleOptionBox sets the node's option-box flag. Enabling re-checks the
// placement rules at the node's current position; disabling is always
// legal. Toggling to the current state is a no-op and does not dirty the
// tree.
func (e *Engine) ToggleOptionBox(id NodeID, enable bool) error {
	if err := e.guardMutation(); err != nil {
		return err
	}
	if err := e.tree.CanToggleOptionBox(id, enable); err != nil {
		return err
	}
	node, _ := e.tree.Node(id)
	if node.OptionBox == enable {
		return nil
	}
	node.OptionBox = enable
	e.dirty = true
	return nil
}

// BeginEdit opens an edit session on the node and returns a snapshot of its
// current attributes for the editor to prefill. While the session is open
// every other mutation is rejected with EDIT_IN_PROGRESS; only
// [Engine.CommitEdit] and [Engine.CancelEdit] end it.
func (e *Engine) BeginEdit(id NodeID) (Node, error) {
	if e.inEdit {
		return Node{}, errors.New(errors.ErrCodeEditInProgress, "node %s is already being edited", e.editing)
	}
	node, ok := e.tree.Node(id)
	if !ok {
		return Node{}, errors.New(errors.ErrCodeNodeNotFound, "no node with id %s", id)
	}
	e.editing = id
	e.inEdit = true
	return *node, nil
}

// CommitEdit validates attrs against the edited node's kind and applies
// them. On validation failure the session stays open and the node keeps its
// previous attributes, so the editor can correct and retry. Attributes the
// kind ignores are not applied; a separator accepts nothing and commits as
// a plain session end.
func (e *Engine) CommitEdit(attrs Attrs) error {
	if !e.inEdit {
		return errors.New(errors.ErrCodeNoEditSession, "no edit session open")
	}
	node, ok := e.tree.Node(e.editing)
	if !ok {
		e.inEdit = false
		return errors.New(errors.ErrCodeInternal, "edited node %s vanished", e.editing)
	}

	switch node.Kind {
	case KindFolder:
		if err := errors.ValidateLabel(attrs.Label); err != nil {
			return err
		}
		node.Label = attrs.Label
		node.Icon = attrs.Icon
	case KindCommand:
		if err := errors.ValidateLabel(attrs.Label); err != nil {
			return err
		}
		lang := attrs.Language
		if lang == "" {
			lang = LangPython
		}
		if !lang.Valid() {
			return errors.New(errors.ErrCodeUnsupported, "unknown command language %q", attrs.Language)
		}
		node.Label = attrs.Label
		node.Language = lang
		node.Command = attrs.Command
		node.Icon = attrs.Icon
	case KindSeparator:
		// Nothing editable.
	}

	e.inEdit = false
	e.dirty = true
	return nil
}

// CancelEdit discards the open edit session, if any. Calling it without a
// session is a no-op, so editors can call it unconditionally on escape.
func (e *Engine) CancelEdit() {
	e.inEdit = false
	e.editing = RootID
}

// Replace swaps in a different tree, typically one freshly decoded from a
// document, and resets the dirty flag. Rejected while an edit session is
// open.
func (e *Engine) Replace(t *Tree) error {
	if err := e.guardMutation(); err != nil {
		return err
	}
	if t == nil {
		t = NewTree()
	}
	e.tree = t
	e.dirty = false
	return nil
}

// MergeFrom merges another tree into the engine's tree using [Merge]. On
// success the engine adopts the merged result and marks it dirty; on
// rejection the current tree is untouched.
func (e *Engine) MergeFrom(incoming *Tree) error {
	if err := e.guardMutation(); err != nil {
		return err
	}
	merged, err := Merge(e.tree, incoming)
	if err != nil {
		return err
	}
	e.tree = merged
	e.dirty = true
	return nil
}

// DescribeNode returns a short human-readable description of a node for
// logs and status lines: the label (or kind for separators) plus kind
// detail.
func DescribeNode(n Node) string {
	switch n.Kind {
	case KindSeparator:
		return "separator"
	case KindFolder:
		return n.Label + "/"
	default:
		var b strings.Builder
		b.WriteString(n.Label)
		if n.OptionBox {
			b.WriteString(" (option box)")
		}
		return b.String()
	}
}
