package importer

import (
	"os"
	"strings"

	"github.com/jiapeiLu/menubuilder/pkg/errors"
	"github.com/jiapeiLu/menubuilder/pkg/menu"
)

// Draft is a command entry recovered from a shelf file, ready to be added
// to a menu. Drafts keep the shelf's button order.
type Draft struct {
	Label    string
	Language menu.Language
	Command  string
	Icon     string
}

// Node converts the draft into a command node for the engine.
func (d Draft) Node() menu.Node {
	return menu.Node{
		Kind:     menu.KindCommand,
		Label:    d.Label,
		Language: d.Language,
		Command:  d.Command,
		Icon:     d.Icon,
	}
}

// ImportShelfFile reads a saved Maya shelf (a shelf_*.mel file) and
// returns its buttons as command drafts.
func ImportShelfFile(path string) ([]Draft, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "read %s", path)
	}
	return ImportShelf(src), nil
}

// ImportShelf scans MEL shelf source for shelfButton statements and maps
// each to a draft. The scan is lexical: flags are read off each statement
// without evaluating the surrounding proc. Buttons with no command are
// decorative and are skipped, as are separators and popup menus.
func ImportShelf(src []byte) []Draft {
	var drafts []Draft
	toks := tokenizeMEL(src)
	for i := 0; i < len(toks); i++ {
		if toks[i].quoted || toks[i].text != "shelfButton" {
			continue
		}
		flags := map[string]string{}
		j := i + 1
		for ; j < len(toks) && toks[j].text != ";"; j++ {
			if toks[j].quoted || !strings.HasPrefix(toks[j].text, "-") {
				continue
			}
			if j+1 < len(toks) && toks[j+1].quoted {
				flags[toks[j].text] = toks[j+1].text
				j++
			}
		}
		i = j
		if d, ok := draftFromFlags(flags); ok {
			drafts = append(drafts, d)
		}
	}
	return drafts
}

func draftFromFlags(flags map[string]string) (Draft, bool) {
	command := flags["-command"]
	if strings.TrimSpace(command) == "" {
		return Draft{}, false
	}
	lang := menu.LangMEL
	if flags["-sourceType"] == string(menu.LangPython) {
		lang = menu.LangPython
	}
	label := flags["-label"]
	if label == "" {
		label = flags["-imageOverlayLabel"]
	}
	if label == "" {
		label = flags["-annotation"]
	}
	if label == "" {
		label = GenerateLabel(command)
	}
	icon := flags["-image1"]
	if icon == "" {
		icon = flags["-image"]
	}
	return Draft{Label: label, Language: lang, Command: command, Icon: icon}, true
}

// melToken is one lexical unit of a shelf file. Quoted tokens carry their
// unescaped string content.
type melToken struct {
	text   string
	quoted bool
}

func tokenizeMEL(src []byte) []melToken {
	var toks []melToken
	s := string(src)
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == ';':
			toks = append(toks, melToken{text: ";"})
			i++
		case c == '"':
			text, next := readMELString(s, i+1)
			toks = append(toks, melToken{text: text, quoted: true})
			i = next
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i < len(s) && s[i] != '\n' {
				i++
			}
		default:
			start := i
			for i < len(s) && !strings.ContainsRune(" \t\n\r;\"", rune(s[i])) {
				i++
			}
			toks = append(toks, melToken{text: s[start:i]})
		}
	}
	return toks
}

// readMELString consumes a double-quoted MEL string starting just after
// the opening quote and returns its unescaped content plus the offset
// past the closing quote.
func readMELString(s string, i int) (string, int) {
	var b strings.Builder
	for i < len(s) {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(s[i+1])
			}
			i += 2
			continue
		}
		if c == '"' {
			return b.String(), i + 1
		}
		b.WriteByte(c)
		i++
	}
	return b.String(), i
}
