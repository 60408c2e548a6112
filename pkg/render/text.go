package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jiapeiLu/menubuilder/pkg/errors"
	"github.com/jiapeiLu/menubuilder/pkg/menu"
)

// separatorRule is how divider entries print in text output.
const separatorRule = "--------"

// WriteText writes an indented text listing of the menu to w. Folders end
// with a slash, separators print as a rule, and a command with an option
// box carries a [+] marker.
func WriteText(w io.Writer, t *menu.Tree) error {
	items, err := Items(t)
	if err != nil {
		return err
	}
	for _, it := range items {
		if _, err := fmt.Fprintln(w, textLine(it)); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write menu listing")
		}
	}
	return nil
}

// Text renders the indented listing as a string.
func Text(t *menu.Tree) (string, error) {
	var b strings.Builder
	if err := WriteText(&b, t); err != nil {
		return "", err
	}
	return b.String(), nil
}

func textLine(it Item) string {
	indent := strings.Repeat("  ", it.Depth)
	switch it.Kind {
	case menu.KindFolder:
		return indent + it.Label + "/"
	case menu.KindSeparator:
		return indent + separatorRule
	default:
		line := indent + it.Label
		if it.OptionBox != nil {
			line += " [+]"
		}
		return line
	}
}
