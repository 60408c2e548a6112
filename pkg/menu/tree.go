package menu

import (
	"slices"

	"github.com/jiapeiLu/menubuilder/pkg/errors"
)

// Tree is the arena holding one menu document's nodes. Nodes are addressed
// by id; containment lives in ordered child-id lists per container plus a
// child-to-parent index, never inside the nodes themselves. This keeps moves
// O(children) splices and makes "same node after arbitrary moves" a stable
// property of the id.
//
// Tree methods enforce referential integrity: ids resolve, indices are in
// bounds, containers are folders, and no node becomes its own ancestor.
// The option-box placement rules are not checked here; callers go through
// [Engine] operations, which consult the legality checks in this package
// before mutating, or run [Tree.Validate] over trees of unknown origin.
//
// The zero value is not usable. Use [NewTree]. A Tree is not safe for
// concurrent use.
type Tree struct {
	nodes    map[NodeID]*Node
	children map[NodeID][]NodeID // container id -> ordered child ids
	parent   map[NodeID]NodeID   // child id -> container id
}

// NewTree creates an empty tree containing only the virtual root.
func NewTree() *Tree {
	return &Tree{
		nodes:    make(map[NodeID]*Node),
		children: make(map[NodeID][]NodeID),
		parent:   make(map[NodeID]NodeID),
	}
}

// NodeCount returns the number of nodes in the tree, excluding the virtual root.
func (t *Tree) NodeCount() int { return len(t.nodes) }

// Node returns the node with the given id and true, or nil and false if the
// id is unknown. The returned pointer refers to the node stored in the tree;
// callers that only read should treat it as immutable and let mutations go
// through the engine.
func (t *Tree) Node(id NodeID) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Contains reports whether the tree holds a node with the given id.
func (t *Tree) Contains(id NodeID) bool {
	_, ok := t.nodes[id]
	return ok
}

// isContainer reports whether id can hold children: the virtual root or an
// existing folder.
func (t *Tree) isContainer(id NodeID) bool {
	if id == RootID {
		return true
	}
	n, ok := t.nodes[id]
	return ok && n.Kind.CanHaveChildren()
}

// Children returns the ordered child ids of the given container.
// Passing [RootID] returns the top-level entries. The returned slice is a
// read-only view into the tree and must not be modified.
func (t *Tree) Children(id NodeID) []NodeID { return t.children[id] }

// Parent returns the container holding id and true, or RootID and false if
// the id is unknown. Top-level nodes report RootID and true.
func (t *Tree) Parent(id NodeID) (NodeID, bool) {
	if !t.Contains(id) {
		return RootID, false
	}
	return t.parent[id], true
}

// IndexOf returns the node's position among its siblings, or -1 if the id
// is unknown.
func (t *Tree) IndexOf(id NodeID) int {
	if !t.Contains(id) {
		return -1
	}
	return slices.Index(t.children[t.parent[id]], id)
}

// IsAncestor reports whether ancestor lies on the containment path from the
// virtual root to id (the node is not its own ancestor). Passing RootID as
// ancestor reports true for any existing id.
func (t *Tree) IsAncestor(ancestor, id NodeID) bool {
	if !t.Contains(id) {
		return false
	}
	if ancestor == RootID {
		return true
	}
	for cur := t.parent[id]; cur != RootID; cur = t.parent[cur] {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// normalizeIndex maps the append sentinel -1 to the end of the sibling list
// and bounds-checks everything else.
func normalizeIndex(index, length int) (int, error) {
	if index == -1 {
		return length, nil
	}
	if index < 0 || index > length {
		return 0, errors.New(errors.ErrCodeInvalidIndex, "index %d out of range [0..%d]", index, length)
	}
	return index, nil
}

// Add inserts n as a child of parent at the given index (-1 appends).
// The node's id must be non-empty and unique in the tree; parent must be
// RootID or an existing folder.
//
// Add checks referential integrity only. Placement legality, such as the
// option-box rules, is the caller's responsibility; [Engine.Add] performs
// both, and bulk builders like the document decoder validate wholesale with
// [Tree.Validate] afterwards.
func (t *Tree) Add(n Node, parent NodeID, index int) error {
	if n.ID == RootID {
		return errors.New(errors.ErrCodeInternal, "node id must not be empty")
	}
	if t.Contains(n.ID) {
		return errors.New(errors.ErrCodeDuplicateID, "duplicate node id %s", n.ID)
	}
	if !t.isContainer(parent) {
		if !t.Contains(parent) && parent != RootID {
			return errors.New(errors.ErrCodeNodeNotFound, "no node with id %s", parent)
		}
		return errors.New(errors.ErrCodeParentNotFolder, "parent %s is not a folder", parent)
	}
	idx, err := normalizeIndex(index, len(t.children[parent]))
	if err != nil {
		return err
	}

	node := n
	t.nodes[node.ID] = &node
	t.children[parent] = slices.Insert(t.children[parent], idx, node.ID)
	t.parent[node.ID] = parent
	return nil
}

// Move detaches id and re-attaches it under parent at the given index
// (-1 appends). The index addresses the destination's child list as it looks
// after the detach, so moving a node to a later position within its own
// parent uses the post-removal indices.
//
// Moving a node into itself or one of its descendants is rejected, as that
// would disconnect the subtree from the root.
func (t *Tree) Move(id, parent NodeID, index int) error {
	if !t.Contains(id) {
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

	oldParent := t.parent[id]
	length := len(t.children[parent])
	if parent == oldParent {
		length-- // the node itself is detached first
	}
	idx, err := normalizeIndex(index, length)
	if err != nil {
		return err
	}

	t.children[oldParent] = slices.DeleteFunc(t.children[oldParent], func(c NodeID) bool { return c == id })
	t.children[parent] = slices.Insert(t.children[parent], idx, id)
	t.parent[id] = parent
	return nil
}

// Remove deletes the node and its entire subtree, returning the removed ids
// in depth-first order starting with id itself. Removing an unknown id
// returns an error and leaves the tree unchanged.
func (t *Tree) Remove(id NodeID) ([]NodeID, error) {
	if !t.Contains(id) {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "no node with id %s", id)
	}

	var removed []NodeID
	var collect func(NodeID)
	collect = func(cur NodeID) {
		removed = append(removed, cur)
		for _, child := range t.children[cur] {
			collect(child)
		}
	}
	collect(id)

	p := t.parent[id]
	t.children[p] = slices.DeleteFunc(t.children[p], func(c NodeID) bool { return c == id })
	for _, r := range removed {
		delete(t.nodes, r)
		delete(t.children, r)
		delete(t.parent, r)
	}
	return removed, nil
}

// Path returns the labels on the containment path from the outermost
// ancestor down to the node itself, and true, or nil and false for an
// unknown id. Separators contribute their kind name since their labels are
// ignored.
func (t *Tree) Path(id NodeID) ([]string, bool) {
	if !t.Contains(id) {
		return nil, false
	}
	var labels []string
	for cur := id; cur != RootID; cur = t.parent[cur] {
		n := t.nodes[cur]
		label := n.Label
		if n.Kind == KindSeparator {
			label = n.Kind.String()
		}
		labels = append(labels, label)
	}
	slices.Reverse(labels)
	return labels, true
}

// Walk visits every node in render order (pre-order, siblings in list
// order), passing the node and its depth below the root (top-level nodes
// have depth 0). Returning false from visit skips the node's children.
func (t *Tree) Walk(visit func(n *Node, depth int) bool) {
	var walk func(id NodeID, depth int)
	walk = func(id NodeID, depth int) {
		for _, child := range t.children[id] {
			if visit(t.nodes[child], depth) {
				walk(child, depth+1)
			}
		}
	}
	walk(RootID, 0)
}

// Clone returns a deep copy of the tree. Node ids are preserved; the copy
// shares no state with the original.
func (t *Tree) Clone() *Tree {
	c := NewTree()
	for id, n := range t.nodes {
		node := *n
		c.nodes[id] = &node
	}
	for id, kids := range t.children {
		if len(kids) > 0 {
			c.children[id] = slices.Clone(kids)
		}
	}
	for id, p := range t.parent {
		c.parent[id] = p
	}
	return c
}
