package menu

import (
	"slices"
	"strings"

	"github.com/jiapeiLu/menubuilder/pkg/errors"
)

// This file holds the legality checks for structural edits. All checks are
// pure: they answer whether an operation would keep the tree renderable and
// never mutate anything. The engine consults them before every edit so a
// presentation layer can also call them directly for cheap drag-and-drop
// feedback.

// CanInsertAt reports whether a node shaped like n could be inserted as a
// child of parent at index (-1 appends) without breaking the placement
// rules. The node's id is ignored; only kind and option-box state matter.
//
// Two positions around an option box are never valid targets: directly
// before one (the insert would separate the box from its command) and, for
// an incoming option box, anywhere its preceding sibling is not a plain
// command. Rejection is explicit; nothing snaps an illegal index to a legal
// one. Use [Tree.NormalizeInsertIndex] when a UI wants that behavior for
// previews.
func (t *Tree) CanInsertAt(n Node, parent NodeID, index int) error {
	if !t.isContainer(parent) {
		if !t.Contains(parent) && parent != RootID {
			return errors.New(errors.ErrCodeNodeNotFound, "no node with id %s", parent)
		}
		return errors.New(errors.ErrCodeParentNotFolder, "parent %s is not a folder", parent)
	}
	sibs := t.children[parent]
	idx, err := normalizeIndex(index, len(sibs))
	if err != nil {
		return err
	}
	return t.checkPlacement(n, sibs, idx)
}

// checkPlacement runs the option-box placement rules for inserting n at idx
// into the given sibling list.
func (t *Tree) checkPlacement(n Node, sibs []NodeID, idx int) error {
	if n.OptionBox {
		if n.Kind != KindCommand {
			return errors.New(errors.ErrCodeInvalidOptionBox, "only commands can be option boxes")
		}
		if idx == 0 {
			return errors.New(errors.ErrCodeInvalidOptionBox, "an option box cannot be first among its siblings")
		}
		if prev := t.nodes[sibs[idx-1]]; !prev.anchorsOptionBox() {
			return errors.New(errors.ErrCodeInvalidOptionBox, "an option box must directly follow a command that is not an option box")
		}
	}
	if idx < len(sibs) {
		if next := t.nodes[sibs[idx]]; next.IsOptionBox() {
			return errors.New(errors.ErrCodeInvalidOptionBox, "cannot insert between a command and its option box")
		}
	}
	return nil
}

// CanMoveTo reports whether id could move under parent at index (-1
// appends). Index addresses the destination's child list after the moved
// nodes are detached. A command with an attached option box moves as a
// unit, so the check treats both as leaving their current positions.
//
// Moving a node into its own subtree is rejected with CYCLIC_MOVE.
func (t *Tree) CanMoveTo(id, parent NodeID, index int) error {
	node, ok := t.nodes[id]
	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "no node with id %s", id)
	}
	if !t.isContainer(parent) {
		if !t.Contains(parent) && parent != RootID {
			return errors.New(errors.ErrCodeNodeNotFound, "no node with id %s", parent)
		}
		return errors.New(errors.ErrCodeParentNotFolder, "parent %s is not a folder", parent)
	}
	if id == parent || t.IsAncestor(id, parent) {
		return errors.New(errors.ErrCodeCyclicMove, "cannot move %s into its own subtree", id)
	}

	moving := []NodeID{id}
	if follower, ok := t.OptionBoxFollower(id); ok {
		moving = append(moving, follower)
	}
	sibs := slices.DeleteFunc(slices.Clone(t.children[parent]), func(c NodeID) bool {
		return slices.Contains(moving, c)
	})
	idx, err := normalizeIndex(index, len(sibs))
	if err != nil {
		return err
	}
	return t.checkPlacement(*node, sibs, idx)
}

// CanToggleOptionBox reports whether the node's option-box flag can change
// to enable. Disabling is always legal, including on nodes that are not
// option boxes. Enabling requires a command whose current position satisfies
// the placement rules and which does not itself anchor an option box.
func (t *Tree) CanToggleOptionBox(id NodeID, enable bool) error {
	node, ok := t.nodes[id]
	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "no node with id %s", id)
	}
	if !enable || node.OptionBox {
		return nil
	}
	if node.Kind != KindCommand {
		return errors.New(errors.ErrCodeInvalidOptionBox, "only commands can be option boxes")
	}

	sibs := t.children[t.parent[id]]
	idx := slices.Index(sibs, id)
	if idx == 0 {
		return errors.New(errors.ErrCodeInvalidOptionBox, "an option box cannot be first among its siblings")
	}
	if prev := t.nodes[sibs[idx-1]]; !prev.anchorsOptionBox() {
		return errors.New(errors.ErrCodeInvalidOptionBox, "an option box must directly follow a command that is not an option box")
	}
	if _, ok := t.OptionBoxFollower(id); ok {
		return errors.New(errors.ErrCodeInvalidOptionBox, "command anchors an option box of its own")
	}
	return nil
}

// OptionBoxFollower returns the id of the option box attached to the given
// command (its immediate next sibling) and true, or RootID and false if the
// node has no attached option box.
func (t *Tree) OptionBoxFollower(id NodeID) (NodeID, bool) {
	node, ok := t.nodes[id]
	if !ok || !node.anchorsOptionBox() {
		return RootID, false
	}
	sibs := t.children[t.parent[id]]
	idx := slices.Index(sibs, id)
	if idx+1 >= len(sibs) {
		return RootID, false
	}
	if next := t.nodes[sibs[idx+1]]; next.IsOptionBox() {
		return next.ID, true
	}
	return RootID, false
}

// NormalizeInsertIndex snaps an insertion index for parent's child list to
// the nearest following position that does not fall between a command and
// its option box. It exists for drop-target previews; the legality checks
// never call it, so a caller that skips it still gets a hard rejection.
func (t *Tree) NormalizeInsertIndex(parent NodeID, index int) int {
	sibs := t.children[parent]
	if index < 0 || index > len(sibs) {
		return len(sibs)
	}
	for index < len(sibs) && t.nodes[sibs[index]].IsOptionBox() {
		index++
	}
	return index
}

// PathString returns the node's path as ancestor and node labels joined
// with "/", or the empty string for an unknown id.
func (t *Tree) PathString(id NodeID) string {
	labels, ok := t.Path(id)
	if !ok {
		return ""
	}
	return strings.Join(labels, "/")
}

// Validate checks the whole tree against the structural rules and returns
// nil if it is renderable. Trees built through [Engine] operations stay
// valid by construction; Validate exists for trees of outside origin, such
// as decoded documents and merge results.
//
// Violations are reported with the offending node's path and the violated
// rule. The first violation in render order wins. Checks, in order:
//
//  1. Arena integrity: child lists, parent index, and the node map agree,
//     and every node is reachable from the virtual root.
//  2. Kind constraints: children only under folders, command payload only
//     on commands.
//  3. Labels present on folders and commands.
//  4. Option-box placement within every sibling list.
func (t *Tree) Validate() error {
	if err := t.validateIntegrity(); err != nil {
		return err
	}

	var walk func(parent NodeID) error
	walk = func(parent NodeID) error {
		var prev *Node
		for _, id := range t.children[parent] {
			n := t.nodes[id]
			if err := t.validateNode(n, prev); err != nil {
				return err
			}
			if len(t.children[id]) > 0 {
				if !n.Kind.CanHaveChildren() {
					return errors.New(errors.ErrCodeChildrenNotAllowed, "%s: a %s cannot have children", t.PathString(id), n.Kind)
				}
				if err := walk(id); err != nil {
					return err
				}
			}
			prev = n
		}
		return nil
	}
	return walk(RootID)
}

// validateNode checks one node's kind constraints, label, and option-box
// placement against its preceding sibling.
func (t *Tree) validateNode(n, prev *Node) error {
	path := t.PathString(n.ID)
	switch n.Kind {
	case KindFolder:
		if strings.TrimSpace(n.Label) == "" {
			return errors.New(errors.ErrCodeMissingLabel, "%s: folder has no label", path)
		}
		if n.OptionBox {
			return errors.New(errors.ErrCodeInvalidOptionBox, "%s: only commands can be option boxes", path)
		}
	case KindCommand:
		if strings.TrimSpace(n.Label) == "" {
			return errors.New(errors.ErrCodeMissingLabel, "%s: command has no label", path)
		}
		if !n.Language.Valid() {
			return errors.New(errors.ErrCodeUnsupported, "%s: unknown command language %q", path, n.Language)
		}
	case KindSeparator:
		if n.Command != "" || n.Language != "" {
			return errors.New(errors.ErrCodeKindMismatch, "%s: separator carries command data", path)
		}
		if n.OptionBox {
			return errors.New(errors.ErrCodeInvalidOptionBox, "%s: only commands can be option boxes", path)
		}
	default:
		return errors.New(errors.ErrCodeInternal, "%s: unknown node kind %d", path, n.Kind)
	}

	if n.OptionBox && (prev == nil || !prev.anchorsOptionBox()) {
		if prev == nil {
			return errors.New(errors.ErrCodeInvalidOptionBox, "%s: an option box cannot be first among its siblings", path)
		}
		return errors.New(errors.ErrCodeInvalidOptionBox, "%s: an option box must directly follow a command that is not an option box", path)
	}
	return nil
}

// validateIntegrity cross-checks the arena's three maps. Failures here mean
// the tree was corrupted by code bypassing the Tree methods, so they report
// as internal errors rather than rule violations.
func (t *Tree) validateIntegrity() error {
	reached := 0
	var walk func(parent NodeID) error
	walk = func(parent NodeID) error {
		for _, id := range t.children[parent] {
			n, ok := t.nodes[id]
			if !ok {
				return errors.New(errors.ErrCodeInternal, "child list of %s references unknown node %s", parent, id)
			}
			if n.ID != id {
				return errors.New(errors.ErrCodeInternal, "node %s stored under id %s", n.ID, id)
			}
			if t.parent[id] != parent {
				return errors.New(errors.ErrCodeInternal, "parent index for %s disagrees with child list of %s", id, parent)
			}
			reached++
			if reached > len(t.nodes) {
				return errors.New(errors.ErrCodeInternal, "containment contains a cycle")
			}
			if err := walk(id); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(RootID); err != nil {
		return err
	}
	if reached != len(t.nodes) {
		return errors.New(errors.ErrCodeInternal, "%d nodes unreachable from the root", len(t.nodes)-reached)
	}
	return nil
}
