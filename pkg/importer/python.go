package importer

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jiapeiLu/menubuilder/pkg/menu"
)

// pythonDefRE matches a def statement at any indentation. Methods and
// nested functions are listed too; picking the right entry point is the
// user's call.
var pythonDefRE = regexp.MustCompile(`(?m)^[ \t]*def[ \t]+([a-zA-Z_]\w*)[ \t]*\(`)

// PythonLister scans Python sources for function definitions.
type PythonLister struct{}

func (*PythonLister) Language() menu.Language { return menu.LangPython }

func (*PythonLister) Supports(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".py")
}

func (*PythonLister) List(src []byte) []Callable {
	var calls []Callable
	for _, m := range pythonDefRE.FindAllSubmatchIndex(src, -1) {
		calls = append(calls, Callable{
			Name: string(src[m[2]:m[3]]),
			Line: lineAt(src, m[0]),
		})
	}
	return calls
}
