package menu

import (
	"github.com/jiapeiLu/menubuilder/pkg/errors"
)

// Merge combines incoming into base and returns the merged tree. Both
// inputs are left untouched.
//
// The walk descends both trees level by level. An incoming folder whose
// label matches an existing folder among the destination's children merges
// into it recursively instead of creating a duplicate; every other node is
// appended after the destination's existing children, keeping the incoming
// sibling order. Incoming ids that collide with ids already present are
// replaced with fresh ones.
//
// The merged tree is validated as a whole before it is returned. Any
// violation rejects the merge with MERGE_REJECTED and the validation
// failure as cause.
func Merge(base, incoming *Tree) (*Tree, error) {
	merged := base.Clone()
	if incoming == nil {
		return merged, nil
	}
	if err := mergeLevel(merged, RootID, incoming, RootID); err != nil {
		return nil, err
	}
	if err := merged.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMergeRejected, err, "merge would produce an invalid menu")
	}
	return merged, nil
}

// mergeLevel merges the children of srcParent in src into dstParent in dst.
func mergeLevel(dst *Tree, dstParent NodeID, src *Tree, srcParent NodeID) error {
	for _, srcID := range src.Children(srcParent) {
		srcNode, ok := src.Node(srcID)
		if !ok {
			return errors.New(errors.ErrCodeInternal, "merge source references missing node %s", srcID)
		}
		if srcNode.Kind == KindFolder {
			if match, ok := folderByLabel(dst, dstParent, srcNode.Label); ok {
				if err := mergeLevel(dst, match, src, srcID); err != nil {
					return err
				}
				continue
			}
		}
		if err := graft(dst, dstParent, src, srcID); err != nil {
			return err
		}
	}
	return nil
}

// folderByLabel finds a folder child of parent with the given label. Only
// folders participate in label matching; commands and separators never
// merge.
func folderByLabel(t *Tree, parent NodeID, label string) (NodeID, bool) {
	for _, id := range t.Children(parent) {
		if n, ok := t.Node(id); ok && n.Kind == KindFolder && n.Label == label {
			return id, true
		}
	}
	return RootID, false
}

// graft copies the subtree rooted at srcID into dst under dstParent,
// re-assigning any colliding ids.
func graft(dst *Tree, dstParent NodeID, src *Tree, srcID NodeID) error {
	srcNode, ok := src.Node(srcID)
	if !ok {
		return errors.New(errors.ErrCodeInternal, "merge source references missing node %s", srcID)
	}
	node := *srcNode
	if dst.Contains(node.ID) {
		node.ID = NewNodeID()
	}
	if err := dst.Add(node, dstParent, -1); err != nil {
		return err
	}
	for _, child := range src.Children(srcID) {
		if err := graft(dst, node.ID, src, child); err != nil {
			return err
		}
	}
	return nil
}
