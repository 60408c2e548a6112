package importer

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jiapeiLu/menubuilder/pkg/menu"
)

// melProcRE matches a proc declaration, with an optional global modifier
// and an optional return type such as string or string[].
var melProcRE = regexp.MustCompile(`(?m)^[ \t]*(?:global[ \t]+)?proc[ \t]+(?:[a-zA-Z_]\w*(?:\[\])?[ \t]+)?([a-zA-Z_]\w*)[ \t]*\(`)

// MELLister scans MEL sources for proc declarations.
type MELLister struct{}

func (*MELLister) Language() menu.Language { return menu.LangMEL }

func (*MELLister) Supports(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".mel")
}

func (*MELLister) List(src []byte) []Callable {
	var calls []Callable
	for _, m := range melProcRE.FindAllSubmatchIndex(src, -1) {
		calls = append(calls, Callable{
			Name: string(src[m[2]:m[3]]),
			Line: lineAt(src, m[0]),
		})
	}
	return calls
}
