// Package render turns a validated menu tree into renderer-ready forms.
//
// # Overview
//
// Rendering is read-only and always validates first: a tree that violates
// the menu rules renders nothing. The package provides:
//
//   - [Items]: a flat, ordered item sequence for host menu builders
//   - [WriteText] and [Text]: an indented listing for terminals
//   - [ToDOT], [RenderSVG], [RenderPNG]: a Graphviz menu map for export
//
// # Item Sequence
//
// [Items] is the contract between the structure model and any menu
// builder. Entries arrive in build order with their depth, so a builder
// opens a submenu on each folder and closes it when the depth drops back.
// An option box never appears as an entry of its own; it rides on its
// anchor command's [Item.OptionBox] field.
//
//	items, err := render.Items(tree)
//	for _, it := range items {
//		// build one widget per item
//	}
//
// # Menu Map
//
// The DOT export draws one box per entry with edges from each folder to
// its children, in Graphviz's node-link style.
//
//	dot, err := render.ToDOT(tree, render.Options{Title: "Rigging"})
//	svg, err := render.RenderSVG(dot)
//	png, err := render.RenderPNG(dot, 2.0) // 2x scale
package render
