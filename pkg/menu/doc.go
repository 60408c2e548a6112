// Package menu provides the menu structure model and structural-edit engine
// that power the menubuilder tool.
//
// # Overview
//
// A menu document is a tree of nodes: folders open submenus, commands are
// clickable entries bound to a script snippet, and separators draw divider
// lines. An option box is a command that renders as a small settings icon
// attached to the entry directly above it, so its position in the sibling
// order is load bearing.
//
// This package owns that structure and nothing else. It executes no commands,
// knows no host menu API, and performs no I/O. Serialization lives in
// [document], import adapters in [importer], and every presentation concern in
// the callers.
//
// # Basic Usage
//
// Create a [Tree] with [NewTree] and drive all mutations through an [Engine]:
//
//	eng := menu.NewEngine(menu.NewTree())
//	folder, _ := eng.Add(menu.Node{Kind: menu.KindFolder, Label: "Tools"}, menu.RootID, -1)
//	eng.Add(menu.Node{Kind: menu.KindCommand, Label: "Export", Language: menu.LangPython}, folder, -1)
//
// Engine operations validate before they mutate: an operation either applies
// completely or returns a coded error with the tree unchanged. Use
// [Tree.Validate] to re-check a tree that arrived from outside, such as a
// decoded document.
//
// # Structural Rules
//
// Five rules hold after every committed operation:
//
//  1. Node ids are unique across the tree.
//  2. An option box directly follows a command that is not itself an
//     option box. It is never the first of its siblings.
//  3. Only commands can be option boxes.
//  4. No node is its own ancestor.
//  5. Folders have no command payload; commands and separators have no
//     children.
//
// Operations that would break a rule are rejected with an error from
// [github.com/jiapeiLu/menubuilder/pkg/errors] naming the violated rule.
// Nothing in this package renormalizes silently.
//
// # Edit Sessions
//
// The engine carries a one-slot edit session for attribute editing. While a
// node is being edited ([Engine.BeginEdit]), every other mutation is rejected
// with EDIT_IN_PROGRESS until the session ends via [Engine.CommitEdit] or
// [Engine.CancelEdit]. A failed commit keeps the session open and the tree
// untouched.
//
// # Concurrency
//
// Trees and engines are not safe for concurrent use. The intended deployment
// is a single-user tool where all mutations funnel through one engine on one
// goroutine.
//
// [document]: github.com/jiapeiLu/menubuilder/pkg/document
// [importer]: github.com/jiapeiLu/menubuilder/pkg/importer
package menu
