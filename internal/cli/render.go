package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jiapeiLu/menubuilder/pkg/menu"
	"github.com/jiapeiLu/menubuilder/pkg/render"
)

const (
	formatText = "text"
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPNG  = "png"

	defaultPNGScale = 2.0
)

// formatExts maps a format name to its output file extension.
var formatExts = map[string]string{
	formatText: "txt",
	formatDOT:  "dot",
	formatSVG:  "svg",
	formatPNG:  "png",
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (or base path for multiple formats)
	formats  []string // output formats: text, dot, svg, png
	title    string   // diagram title (defaults to the document name)
	detailed bool     // include command text in diagram nodes
	scale    float64  // raster scale factor for PNG output
}

// renderCommand creates the render command for exporting a menu document.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: defaultPNGScale}

	cmd := &cobra.Command{
		Use:   "render [document]",
		Short: "Render a menu document as text, DOT, SVG, or PNG",
		Long: `Render a menu document in one or more formats.

text prints an indented tree, dot emits Graphviz source, and svg and png
draw the menu as a left-to-right diagram. A single text or dot render
goes to stdout unless --output names a file; svg and png always write
files. With several formats, file names derive from the document name
(or --output as a base path), e.g. TempBar.svg and TempBar.png.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}

			store, err := c.openStore()
			if err != nil {
				return err
			}
			name := c.resolveDocument(args)
			t, err := c.loadDocument(store, name)
			if err != nil {
				return err
			}
			if opts.title == "" {
				opts.title = name
			}

			c.Logger.Infof("Rendering %s", name)
			if len(opts.formats) == 1 {
				return c.renderSingle(t, name, opts.formats[0], &opts)
			}
			return c.renderMultiple(t, name, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): text (default), dot, svg, png (comma-separated)")
	cmd.Flags().StringVar(&opts.title, "title", "", "diagram title (default: document name)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include command text in diagram nodes")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "raster scale factor for PNG output")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["text"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatText}
	}
	return strings.Split(s, ",")
}

// validateFormats checks that all requested formats are known.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if _, ok := formatExts[f]; !ok {
			return fmt.Errorf("invalid format: %s (must be 'text', 'dot', 'svg', or 'png')", f)
		}
	}
	return nil
}

// renderBasePath derives the base output path from the output flag and the
// document name. A known format extension on the output is stripped so
// derived names stay clean when several formats are written.
func renderBasePath(output, name string) string {
	if output == "" {
		return name
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	for _, known := range formatExts {
		if ext == known {
			return strings.TrimSuffix(output, "."+ext)
		}
	}
	return output
}

// renderSingle renders one format. Text and DOT default to stdout; SVG and
// PNG default to a file named after the document.
func (c *CLI) renderSingle(t *menu.Tree, name, format string, opts *renderOpts) error {
	data, err := renderFormat(t, format, opts)
	if err != nil {
		return err
	}
	c.Logger.Debugf("Generated %s: %d bytes", format, len(data))

	path := opts.output
	if path == "" && (format == formatSVG || format == formatPNG) {
		path = name + "." + formatExts[format]
	}

	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}
	if path != "" {
		printSuccess("Rendered %s", name)
		printFile(path)
	}
	return nil
}

// renderMultiple renders all requested formats to files derived from the
// base path.
func (c *CLI) renderMultiple(t *menu.Tree, name string, opts *renderOpts) error {
	base := renderBasePath(opts.output, name)

	var paths []string
	for _, format := range opts.formats {
		data, err := renderFormat(t, format, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
		c.Logger.Debugf("Generated %s: %d bytes", format, len(data))

		path := base + "." + formatExts[format]
		out, err := openOutput(path)
		if err != nil {
			return err
		}
		if _, err := out.Write(data); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		paths = append(paths, path)
	}

	printSuccess("Rendered %s in %d formats", name, len(paths))
	for _, path := range paths {
		printFile(path)
	}
	return nil
}

// renderFormat produces the bytes for one output format.
func renderFormat(t *menu.Tree, format string, opts *renderOpts) ([]byte, error) {
	switch format {
	case formatText:
		text, err := render.Text(t)
		if err != nil {
			return nil, err
		}
		return []byte(text), nil
	case formatDOT:
		dot, err := render.ToDOT(t, render.Options{Title: opts.title, Detailed: opts.detailed})
		if err != nil {
			return nil, err
		}
		return []byte(dot), nil
	case formatSVG:
		dot, err := render.ToDOT(t, render.Options{Title: opts.title, Detailed: opts.detailed})
		if err != nil {
			return nil, err
		}
		return render.RenderSVG(dot)
	case formatPNG:
		dot, err := render.ToDOT(t, render.Options{Title: opts.title, Detailed: opts.detailed})
		if err != nil {
			return nil, err
		}
		return render.RenderPNG(dot, opts.scale)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
