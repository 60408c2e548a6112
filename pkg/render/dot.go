package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/jiapeiLu/menubuilder/pkg/errors"
	"github.com/jiapeiLu/menubuilder/pkg/menu"
)

// Options configures menu map rendering.
type Options struct {
	// Title labels the synthetic root node. Empty means "Menu".
	Title string
	// Detailed adds the command language to command labels.
	Detailed bool
}

// ToDOT converts the menu to Graphviz DOT format: a menu map with one box
// per entry and an edge from each folder to its children. Commands with an
// option box carry a [+] marker. The resulting DOT string can be rendered
// with [RenderSVG] or [RenderPNG].
func ToDOT(t *menu.Tree, opts Options) (string, error) {
	items, err := Items(t)
	if err != nil {
		return "", err
	}

	title := opts.Title
	if title == "" {
		title = "Menu"
	}

	var nodes, edges bytes.Buffer
	fmt.Fprintf(&nodes, "  %q [label=%q, shape=folder, fillcolor=lightyellow];\n", "menu-root", title)

	// Stack of the enclosing folder's DOT id per depth.
	parents := []string{"menu-root"}
	for _, it := range items {
		parents = parents[:it.Depth+1]
		fmt.Fprintf(&nodes, "  %q [%s];\n", string(it.ID), strings.Join(nodeAttrs(it, opts), ", "))
		fmt.Fprintf(&edges, "  %q -> %q;\n", parents[it.Depth], string(it.ID))
		if it.Kind == menu.KindFolder {
			parents = append(parents, string(it.ID))
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph menu {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")
	buf.Write(nodes.Bytes())
	buf.WriteString("\n")
	buf.Write(edges.Bytes())
	buf.WriteString("}\n")
	return buf.String(), nil
}

func nodeAttrs(it Item, opts Options) []string {
	switch it.Kind {
	case menu.KindFolder:
		return []string{fmt.Sprintf("label=%q", it.Label), "shape=folder", "fillcolor=lightyellow"}
	case menu.KindSeparator:
		return []string{`label="----"`, `style="rounded,filled,dashed"`, "fillcolor=lightgrey"}
	default:
		label := it.Label
		if it.OptionBox != nil {
			label += " [+]"
		}
		if opts.Detailed {
			label += "\n(" + string(it.Language) + ")"
		}
		return []string{fmt.Sprintf("label=%q", label)}
	}
}

// RenderSVG renders a DOT menu map to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render SVG")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// RenderPNG renders a DOT menu map as PNG via SVG conversion. A scale of
// 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return ToPNG(svg, scale)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the SVG root tag so the viewBox starts at the
// origin and the width/height match it, which keeps downstream converters
// from clipping the image.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
