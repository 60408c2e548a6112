package menu

import "github.com/google/uuid"

// NodeID identifies a node within a tree. Ids are assigned once at creation
// and never reused, so a stale id held by a caller fails lookup instead of
// silently addressing a different node.
type NodeID string

// RootID is the id of the virtual root container. The root is not a node:
// it cannot be looked up, moved, or deleted, and it never appears in a
// serialized document. Top-level menu entries are its children.
const RootID NodeID = ""

// NewNodeID returns a fresh unique node id.
func NewNodeID() NodeID {
	return NodeID(uuid.NewString())
}

// Kind distinguishes the three node types of a menu tree.
// A node's kind is fixed at creation; converting an entry is modeled as
// delete plus re-add by callers.
type Kind int

const (
	// KindFolder opens a submenu and may have children.
	KindFolder Kind = iota
	// KindCommand is a clickable entry bound to a script snippet.
	KindCommand
	// KindSeparator draws a divider line between entries.
	KindSeparator
)

// String returns the lowercase kind name used in documents and display.
func (k Kind) String() string {
	switch k {
	case KindFolder:
		return "folder"
	case KindCommand:
		return "command"
	case KindSeparator:
		return "separator"
	default:
		return "unknown"
	}
}

// CanHaveChildren reports whether nodes of this kind may contain children.
// Only folders are containers; commands and separators are leaves.
func (k Kind) CanHaveChildren() bool { return k == KindFolder }

// Language identifies the scripting language a command snippet is written in.
type Language string

const (
	LangPython Language = "python"
	LangMEL    Language = "mel"
)

// Valid reports whether l is a known command language.
func (l Language) Valid() bool {
	return l == LangPython || l == LangMEL
}

// Node is a single menu entry. The zero value is not usable on its own; pass
// nodes to [Engine.Add], which assigns an id and validates kind-specific
// fields before insertion.
//
// Field applicability by kind:
//   - Label: required for folders and commands, ignored for separators
//   - Language, Command, OptionBox: commands only
//   - Icon: any kind; an opaque reference the model never resolves
type Node struct {
	ID        NodeID   // Unique within a tree, assigned at creation
	Kind      Kind     // Fixed at creation
	Label     string   // Display text
	Language  Language // Scripting language of Command
	Command   string   // Source text handed verbatim to an executor
	Icon      string   // Opaque icon reference (path or host identifier)
	OptionBox bool     // Renders attached to the preceding command
}

// IsOptionBox reports whether the node renders as an option box.
func (n Node) IsOptionBox() bool { return n.Kind == KindCommand && n.OptionBox }

// anchorsOptionBox reports whether a following option box may attach to n.
// Per the placement rule, only a command that is not itself an option box
// can anchor one.
func (n Node) anchorsOptionBox() bool { return n.Kind == KindCommand && !n.OptionBox }

// Attrs carries the editable attributes applied by [Engine.CommitEdit].
// Kind and option-box state are not editable attributes: kind is fixed at
// creation and the option-box flag changes through [Engine.ToggleOptionBox]
// so its placement rules are enforced in one place.
type Attrs struct {
	Label    string
	Language Language
	Command  string
	Icon     string
}
