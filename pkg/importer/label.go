package importer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	cmdsPrefixRE = regexp.MustCompile(`^cmds\.`)
	callSuffixRE = regexp.MustCompile(`\.(main|run|execute)\s*\(\)\s*$`)
	importCallRE = regexp.MustCompile(`import\s+(\w+);\s*(\w+)`)
	camelCaseRE  = regexp.MustCompile(`([a-z])([A-Z])`)
)

// GenerateLabel turns a technical command or function name into a readable
// menu label. It strips the cmds. prefix and .main()/.run()/.execute()
// suffixes, reduces an "import a; a.run()" one-liner to its module name,
// splits snake_case and camelCase into words, and capitalizes each word.
//
//	GenerateLabel("find_key_range")    = "Find Key Range"
//	GenerateLabel("cmds.polySphere")   = "Poly Sphere"
//	GenerateLabel("import rig; rig.main()") = "Rig"
func GenerateLabel(command string) string {
	core := cmdsPrefixRE.ReplaceAllString(command, "")
	core = callSuffixRE.ReplaceAllString(core, "")
	if m := importCallRE.FindStringSubmatch(core); m != nil && strings.HasPrefix(m[2], m[1]) {
		core = m[1]
	}
	spaced := strings.ReplaceAll(core, "_", " ")
	spaced = camelCaseRE.ReplaceAllString(spaced, "$1 $2")
	words := strings.Fields(spaced)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(word string) string {
	r := []rune(word)
	return strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
}

// ModuleName returns the Python module name for a script path, the base
// name with its extension removed.
func ModuleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// PythonCommand builds the command text for running fn from the named
// module. The module is reloaded on every run so edits to the script take
// effect without restarting the host.
func PythonCommand(module, fn string) string {
	return fmt.Sprintf("import %s\nfrom importlib import reload\nreload(%s)\n%s.%s()", module, module, module, fn)
}

// MELCommand builds the command text for calling a MEL proc.
func MELCommand(fn string) string {
	return fn + "();"
}
