// Package document converts menu trees to and from their persisted JSON
// form and manages the on-disk library of named documents.
//
// The format is human-editable and designed for round-trip fidelity: encode
// then decode reproduces an identical tree, including ids and sibling
// order. Decoding treats every document as untrusted input and re-validates
// the structural rules wholesale, reporting the offending node's path and
// the violated rule instead of repairing anything.
package document

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/jiapeiLu/menubuilder/pkg/errors"
	"github.com/jiapeiLu/menubuilder/pkg/menu"
)

// FormatVersion is written into every encoded document. Decoding accepts
// documents up to this version; version 0 marks pre-versioning files and
// is read like version 1.
const FormatVersion = 1

// Document is the serialization format for one menu tree.
type Document struct {
	Version int    `json:"version"`
	Items   []Item `json:"items"`
}

// Item is one persisted node. Kind-specific fields are omitted when empty:
// a separator serializes as id and kind alone, and only folders carry a
// children array. Paths are never persisted; they are derived from nesting.
type Item struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Label     string `json:"label,omitempty"`
	Language  string `json:"language,omitempty"`
	Command   string `json:"command,omitempty"`
	Icon      string `json:"icon,omitempty"`
	OptionBox bool   `json:"option_box,omitempty"`
	Children  []Item `json:"children,omitempty"`
}

// =============================================================================
// Serialization API
// =============================================================================

// Encode converts a tree to pretty-printed JSON bytes.
func Encode(t *menu.Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(t, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes a tree as JSON to w.
func Write(t *menu.Tree, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromTree(t)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	return nil
}

// WriteFile writes a tree to a JSON file created with 0644 permissions.
func WriteFile(t *menu.Tree, path string) error {
	data, err := Encode(t)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}

// Decode parses JSON bytes into a validated tree. Malformed JSON and
// documents violating the structural rules are rejected with
// INVALID_DOCUMENT; nothing is repaired silently, so a load failure never
// clobbers a caller's current tree.
func Decode(data []byte) (*menu.Tree, error) {
	return Read(bytes.NewReader(data))
}

// Read decodes a JSON document from r into a validated tree.
func Read(r io.Reader) (*menu.Tree, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "malformed document")
	}
	return ToTree(doc)
}

// ReadFile reads and decodes the JSON document at path.
func ReadFile(path string) (*menu.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeDocumentNotFound, "no document at %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()
	return Read(f)
}

// =============================================================================
// Tree ↔ Document Conversion
// =============================================================================

// FromTree converts a tree to its serialization format, preserving ids and
// sibling order.
func FromTree(t *menu.Tree) Document {
	return Document{
		Version: FormatVersion,
		Items:   itemsFromTree(t, menu.RootID),
	}
}

func itemsFromTree(t *menu.Tree, parent menu.NodeID) []Item {
	var items []Item
	for _, id := range t.Children(parent) {
		n, ok := t.Node(id)
		if !ok {
			continue
		}
		items = append(items, itemFromNode(t, n))
	}
	return items
}

func itemFromNode(t *menu.Tree, n *menu.Node) Item {
	item := Item{ID: string(n.ID), Kind: n.Kind.String()}
	switch n.Kind {
	case menu.KindFolder:
		item.Label = n.Label
		item.Icon = n.Icon
		item.Children = itemsFromTree(t, n.ID)
	case menu.KindCommand:
		item.Label = n.Label
		item.Language = string(n.Language)
		item.Command = n.Command
		item.Icon = n.Icon
		item.OptionBox = n.OptionBox
	case menu.KindSeparator:
		// Id and kind only.
	}
	return item
}

// ToTree builds a tree from a decoded document and validates it wholesale.
// Items missing an id get a fresh one, which lets hand-written fragments
// skip ids; everything else about an invalid document is rejected, with the
// first offending item named by path.
func ToTree(doc Document) (*menu.Tree, error) {
	if doc.Version > FormatVersion {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "document version %d is newer than supported version %d", doc.Version, FormatVersion)
	}
	t := menu.NewTree()
	if err := addItems(t, menu.RootID, doc.Items, ""); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "document violates menu rules")
	}
	return t, nil
}

func addItems(t *menu.Tree, parent menu.NodeID, items []Item, parentPath string) error {
	for _, item := range items {
		path := itemName(item)
		if parentPath != "" {
			path = parentPath + "/" + path
		}

		kind, ok := kindFromString(item.Kind)
		if !ok {
			return errors.New(errors.ErrCodeInvalidDocument, "%s: unknown node kind %q", path, item.Kind)
		}
		if len(item.Children) > 0 && !kind.CanHaveChildren() {
			return errors.New(errors.ErrCodeInvalidDocument, "%s: a %s cannot have children", path, kind)
		}

		n := menu.Node{
			ID:        menu.NodeID(item.ID),
			Kind:      kind,
			Label:     item.Label,
			Language:  menu.Language(item.Language),
			Command:   item.Command,
			Icon:      item.Icon,
			OptionBox: item.OptionBox,
		}
		if n.ID == menu.RootID {
			n.ID = menu.NewNodeID()
		}
		if kind == menu.KindCommand && n.Language == "" {
			n.Language = menu.LangPython
		}

		if err := t.Add(n, parent, -1); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDocument, err, "%s", path)
		}
		if err := addItems(t, n.ID, item.Children, path); err != nil {
			return err
		}
	}
	return nil
}

// itemName returns the label for path reporting, falling back to the kind
// for unlabeled items such as separators.
func itemName(item Item) string {
	if item.Label != "" {
		return item.Label
	}
	return item.Kind
}

func kindFromString(s string) (menu.Kind, bool) {
	switch s {
	case menu.KindFolder.String():
		return menu.KindFolder, true
	case menu.KindCommand.String():
		return menu.KindCommand, true
	case menu.KindSeparator.String():
		return menu.KindSeparator, true
	default:
		return 0, false
	}
}
