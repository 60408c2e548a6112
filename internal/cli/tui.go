package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jiapeiLu/menubuilder/pkg/document"
	"github.com/jiapeiLu/menubuilder/pkg/errors"
	"github.com/jiapeiLu/menubuilder/pkg/menu"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Key Bindings
// =============================================================================

// editorKeyMap holds the key bindings of the tree editor.
type editorKeyMap struct {
	Up           key.Binding
	Down         key.Binding
	MoveUp       key.Binding
	MoveDown     key.Binding
	Indent       key.Binding
	Outdent      key.Binding
	AddCommand   key.Binding
	AddFolder    key.Binding
	AddSeparator key.Binding
	Delete       key.Binding
	DeleteTree   key.Binding
	Edit         key.Binding
	ToggleBox    key.Binding
	Save         key.Binding
	Quit         key.Binding
}

func defaultEditorKeys() editorKeyMap {
	return editorKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "move down"),
		),
		Indent: key.NewBinding(
			key.WithKeys(">"),
			key.WithHelp(">", "into folder above"),
		),
		Outdent: key.NewBinding(
			key.WithKeys("<"),
			key.WithHelp("<", "out of folder"),
		),
		AddCommand: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add command"),
		),
		AddFolder: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "add folder"),
		),
		AddSeparator: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "add separator"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		DeleteTree: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete subtree"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter", "e"),
			key.WithHelp("⏎", "edit"),
		),
		ToggleBox: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "option box"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// =============================================================================
// Editor Model
// =============================================================================

// editorMode switches the editor between tree browsing and the attribute
// form.
type editorMode int

const (
	modeBrowse editorMode = iota
	modeForm
)

// editorRow is one visible line of the tree, option boxes included.
type editorRow struct {
	id    menu.NodeID
	depth int
	node  menu.Node
}

// formField is one labeled input of the attribute form.
type formField struct {
	label string
	input textinput.Model
}

// editorModel is the bubbletea model for the interactive tree editor. All
// mutations go through the engine, so every structural rule holds at every
// frame; a refused edit surfaces in the status line with the tree
// untouched.
type editorModel struct {
	store *document.Store
	name  string
	eng   *menu.Engine
	keys  editorKeyMap

	rows   []editorRow
	cursor int
	offset int
	height int

	mode     editorMode
	form     []formField
	formKind menu.Kind
	focus    int

	status    string
	statusErr bool
	quitArmed bool
	saves     int
}

// newEditorModel creates an editor on the engine's current tree.
func newEditorModel(store *document.Store, name string, eng *menu.Engine) editorModel {
	m := editorModel{
		store:  store,
		name:   name,
		eng:    eng,
		keys:   defaultEditorKeys(),
		height: 15,
	}
	m.rows = buildRows(eng.Tree())
	return m
}

// buildRows flattens the tree into visible lines in render order. Option
// boxes appear as their own row directly under their command.
func buildRows(t *menu.Tree) []editorRow {
	var rows []editorRow
	t.Walk(func(n *menu.Node, depth int) bool {
		rows = append(rows, editorRow{id: n.ID, depth: depth, node: *n})
		return true
	})
	return rows
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

// refresh rebuilds the visible rows after a mutation and keeps the cursor
// in range.
func (m *editorModel) refresh() {
	m.rows = buildRows(m.eng.Tree())
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

// report sets the status line from an operation result.
func (m *editorModel) report(err error, okMsg string) {
	if err != nil {
		m.status = errors.UserMessage(err)
		m.statusErr = true
		return
	}
	m.status = okMsg
	m.statusErr = false
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if m.mode == modeForm {
			return m.updateForm(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

// =============================================================================
// Browse Mode
// =============================================================================

func (m editorModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	armed := m.quitArmed
	m.quitArmed = false

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.eng.Dirty() && !armed {
			m.quitArmed = true
			m.status = "unsaved changes: press q again to discard, ctrl+s to save"
			m.statusErr = true
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			if m.cursor < m.offset {
				m.offset = m.cursor
			}
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			if m.cursor >= m.offset+m.height {
				m.offset = m.cursor - m.height + 1
			}
		}

	case key.Matches(msg, m.keys.Save):
		if err := m.store.Save(m.name, m.eng.Tree()); err != nil {
			m.report(err, "")
			return m, nil
		}
		m.eng.ClearDirty()
		m.saves++
		m.report(nil, "saved "+m.name)

	case key.Matches(msg, m.keys.AddCommand):
		return m.addNode(menu.Node{Kind: menu.KindCommand, Label: "New Command", Language: menu.LangPython})

	case key.Matches(msg, m.keys.AddFolder):
		return m.addNode(menu.Node{Kind: menu.KindFolder, Label: "New Folder"})

	case key.Matches(msg, m.keys.AddSeparator):
		return m.addNode(menu.Node{Kind: menu.KindSeparator})

	case key.Matches(msg, m.keys.Delete):
		m.deleteCursor(menu.CascadeDemote)

	case key.Matches(msg, m.keys.DeleteTree):
		m.deleteCursor(menu.CascadeDelete)

	case key.Matches(msg, m.keys.MoveUp):
		m.moveCursorRow(true)

	case key.Matches(msg, m.keys.MoveDown):
		m.moveCursorRow(false)

	case key.Matches(msg, m.keys.Indent):
		m.indentCursor()

	case key.Matches(msg, m.keys.Outdent):
		m.outdentCursor()

	case key.Matches(msg, m.keys.ToggleBox):
		m.toggleOptionBox()

	case key.Matches(msg, m.keys.Edit):
		return m.openForm()
	}

	return m, nil
}

// insertionPoint returns where a new node should go: after the cursor row
// among its siblings, or appended inside the cursor's folder, or appended
// at top level when the tree is empty. The index is snapped past any
// option box so a new entry never splits a pair.
func (m *editorModel) insertionPoint() (menu.NodeID, int) {
	if len(m.rows) == 0 {
		return menu.RootID, -1
	}
	t := m.eng.Tree()
	row := m.rows[m.cursor]
	if row.node.Kind == menu.KindFolder {
		return row.id, -1
	}
	parent, _ := t.Parent(row.id)
	return parent, t.NormalizeInsertIndex(parent, t.IndexOf(row.id)+1)
}

// addNode inserts a new node at the insertion point and opens the form on
// it so it can be named immediately. Separators have nothing to edit and
// stay as inserted.
func (m editorModel) addNode(n menu.Node) (tea.Model, tea.Cmd) {
	parent, index := m.insertionPoint()
	id, err := m.eng.Add(n, parent, index)
	if err != nil {
		m.report(err, "")
		return m, nil
	}
	m.refresh()
	m.cursorTo(id)
	m.report(nil, "added "+menu.DescribeNode(n))
	if n.Kind == menu.KindSeparator {
		return m, nil
	}
	return m.openForm()
}

// cursorTo places the cursor on the row with the given id.
func (m *editorModel) cursorTo(id menu.NodeID) {
	for i, r := range m.rows {
		if r.id == id {
			m.cursor = i
			break
		}
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

// deleteCursor removes the entry under the cursor with the given cascade
// policy.
func (m *editorModel) deleteCursor(policy menu.CascadePolicy) {
	if len(m.rows) == 0 {
		return
	}
	row := m.rows[m.cursor]
	res, err := m.eng.Delete(row.id, policy)
	if err != nil {
		m.report(err, "")
		return
	}
	m.refresh()
	msg := fmt.Sprintf("deleted %d entries", len(res.Removed))
	if len(res.Removed) == 1 {
		msg = "deleted " + menu.DescribeNode(row.node)
	}
	if len(res.Promoted) > 0 {
		msg += fmt.Sprintf(", promoted %d children", len(res.Promoted))
	}
	m.report(nil, msg)
}

// moveCursorRow moves the cursor row one slot up or down among its
// siblings. The neighboring slot is sized by whether the neighbor is a
// command/option-box pair, which always moves as a unit.
func (m *editorModel) moveCursorRow(up bool) {
	if len(m.rows) == 0 {
		return
	}
	row := m.rows[m.cursor]
	if row.node.IsOptionBox() {
		m.report(nil, "option boxes move with their command")
		return
	}

	t := m.eng.Tree()
	parent, _ := t.Parent(row.id)
	sibs := t.Children(parent)
	idx := t.IndexOf(row.id)

	var target int
	if up {
		if idx == 0 {
			return
		}
		target = idx - 1
		if n, ok := t.Node(sibs[idx-1]); ok && n.IsOptionBox() {
			target = idx - 2
		}
	} else {
		next := idx + 1
		if _, ok := t.OptionBoxFollower(row.id); ok {
			next = idx + 2
		}
		if next >= len(sibs) {
			return
		}
		target = idx + 1
		if _, ok := t.OptionBoxFollower(sibs[next]); ok {
			target = idx + 2
		}
	}

	if err := m.eng.Move(row.id, parent, target); err != nil {
		m.report(err, "")
		return
	}
	m.refresh()
	m.cursorTo(row.id)
	m.report(nil, "moved "+menu.DescribeNode(row.node))
}

// indentCursor moves the cursor row into the nearest preceding folder
// sibling, appended at its end.
func (m *editorModel) indentCursor() {
	if len(m.rows) == 0 {
		return
	}
	row := m.rows[m.cursor]
	if row.node.IsOptionBox() {
		m.report(nil, "option boxes move with their command")
		return
	}

	t := m.eng.Tree()
	parent, _ := t.Parent(row.id)
	sibs := t.Children(parent)
	idx := t.IndexOf(row.id)

	var folder menu.NodeID
	for i := idx - 1; i >= 0; i-- {
		if n, ok := t.Node(sibs[i]); ok && n.Kind == menu.KindFolder {
			folder = n.ID
			break
		}
	}
	if folder == menu.RootID {
		m.report(nil, "no folder above to move into")
		return
	}

	if err := m.eng.Move(row.id, folder, -1); err != nil {
		m.report(err, "")
		return
	}
	m.refresh()
	m.cursorTo(row.id)
	m.report(nil, "moved into folder")
}

// outdentCursor moves the cursor row out of its folder, placed directly
// after it.
func (m *editorModel) outdentCursor() {
	if len(m.rows) == 0 {
		return
	}
	row := m.rows[m.cursor]
	if row.node.IsOptionBox() {
		m.report(nil, "option boxes move with their command")
		return
	}

	t := m.eng.Tree()
	parent, ok := t.Parent(row.id)
	if !ok || parent == menu.RootID {
		m.report(nil, "already at top level")
		return
	}
	grand, _ := t.Parent(parent)

	if err := m.eng.Move(row.id, grand, t.IndexOf(parent)+1); err != nil {
		m.report(err, "")
		return
	}
	m.refresh()
	m.cursorTo(row.id)
	m.report(nil, "moved out of folder")
}

// toggleOptionBox attaches an option box to the command under the cursor,
// or removes the one it has. On a box row the box itself is removed.
func (m *editorModel) toggleOptionBox() {
	if len(m.rows) == 0 {
		return
	}
	row := m.rows[m.cursor]
	t := m.eng.Tree()

	if row.node.IsOptionBox() {
		if _, err := m.eng.Delete(row.id, menu.CascadeDemote); err != nil {
			m.report(err, "")
			return
		}
		m.refresh()
		m.report(nil, "removed option box")
		return
	}

	if boxID, ok := t.OptionBoxFollower(row.id); ok {
		if _, err := m.eng.Delete(boxID, menu.CascadeDemote); err != nil {
			m.report(err, "")
			return
		}
		m.refresh()
		m.report(nil, "removed option box")
		return
	}

	parent, _ := t.Parent(row.id)
	box := menu.Node{
		Kind:      menu.KindCommand,
		OptionBox: true,
		Label:     row.node.Label + " Options",
		Language:  row.node.Language,
	}
	id, err := m.eng.Add(box, parent, t.IndexOf(row.id)+1)
	if err != nil {
		m.report(err, "")
		return
	}
	m.refresh()
	m.cursorTo(id)
	m.report(nil, "added option box")
}

// =============================================================================
// Form Mode
// =============================================================================

// openForm starts an edit session on the cursor row and builds the
// attribute form from the node snapshot.
func (m editorModel) openForm() (tea.Model, tea.Cmd) {
	if len(m.rows) == 0 {
		return m, nil
	}
	row := m.rows[m.cursor]
	if row.node.Kind == menu.KindSeparator {
		m.report(nil, "separators have no attributes")
		return m, nil
	}

	snapshot, err := m.eng.BeginEdit(row.id)
	if err != nil {
		m.report(err, "")
		return m, nil
	}

	m.form = newEditForm(snapshot)
	m.formKind = snapshot.Kind
	m.focus = 0
	m.mode = modeForm
	m.status = ""
	m.statusErr = false
	return m, textinput.Blink
}

// newEditForm builds the input fields for a node. Folders expose label and
// icon; commands expose everything.
func newEditForm(n menu.Node) []formField {
	mk := func(label, value, placeholder string) formField {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 512
		ti.Width = 48
		ti.SetValue(value)
		return formField{label: label, input: ti}
	}

	fields := []formField{mk("Label", n.Label, "menu label")}
	if n.Kind == menu.KindCommand {
		fields = append(fields,
			mk("Language", string(n.Language), "python or mel"),
			mk("Command", n.Command, "command text"),
		)
	}
	fields = append(fields, mk("Icon", n.Icon, "icon name"))
	fields[0].input.Focus()
	return fields
}

// formAttrs collects the form values into editable attributes.
func (m editorModel) formAttrs() menu.Attrs {
	attrs := menu.Attrs{Label: strings.TrimSpace(m.form[0].input.Value())}
	if m.formKind == menu.KindCommand {
		attrs.Language = menu.Language(strings.TrimSpace(m.form[1].input.Value()))
		attrs.Command = m.form[2].input.Value()
		attrs.Icon = strings.TrimSpace(m.form[3].input.Value())
	} else {
		attrs.Icon = strings.TrimSpace(m.form[1].input.Value())
	}
	return attrs
}

func (m editorModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.eng.CancelEdit()
		m.mode = modeBrowse
		m.report(nil, "edit cancelled")
		return m, nil

	case "enter":
		if err := m.eng.CommitEdit(m.formAttrs()); err != nil {
			// The session stays open; fix the field and retry.
			m.report(err, "")
			return m, nil
		}
		m.mode = modeBrowse
		m.refresh()
		m.report(nil, "updated")
		return m, nil

	case "tab", "down":
		return m.focusField(m.focus + 1)

	case "shift+tab", "up":
		return m.focusField(m.focus - 1)
	}

	var cmd tea.Cmd
	m.form[m.focus].input, cmd = m.form[m.focus].input.Update(msg)
	return m, cmd
}

// focusField moves input focus, wrapping around the field list.
func (m editorModel) focusField(next int) (tea.Model, tea.Cmd) {
	if next < 0 {
		next = len(m.form) - 1
	}
	if next >= len(m.form) {
		next = 0
	}
	m.form[m.focus].input.Blur()
	m.focus = next
	m.form[m.focus].input.Focus()
	return m, textinput.Blink
}

// =============================================================================
// View
// =============================================================================

func (m editorModel) View() string {
	if m.mode == modeForm {
		return m.formView()
	}
	return m.browseView()
}

func (m editorModel) browseView() string {
	var b strings.Builder

	title := "Editing " + m.name
	if m.eng.Dirty() {
		title += " •"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  a/f/s add  ⏎ edit  o option box  d/D delete  K/J move  </> nest  ctrl+s save  q quit"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(listDimStyle.Render("  empty menu: press a to add a command"))
		b.WriteString("\n")
	}

	end := m.offset + m.height
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.offset; i < end; i++ {
		b.WriteString(m.rowLine(i))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

// rowLine formats one tree row with cursor, indentation, and kind marker.
func (m editorModel) rowLine(i int) string {
	r := m.rows[i]

	cursor := "  "
	if i == m.cursor {
		cursor = "▸ "
	}
	indent := strings.Repeat("  ", r.depth)

	var text string
	switch {
	case r.node.Kind == menu.KindFolder:
		text = r.node.Label + "/"
	case r.node.Kind == menu.KindSeparator:
		text = separatorRule
	case r.node.IsOptionBox():
		text = "↳ " + r.node.Label
	default:
		text = r.node.Label
	}
	line := cursor + indent + text

	switch {
	case i == m.cursor:
		return listSelectedStyle.Render(line)
	case r.node.Kind == menu.KindSeparator, r.node.IsOptionBox():
		return listDimStyle.Render(line)
	case r.node.Kind == menu.KindFolder:
		return styleFolder.Render(line)
	default:
		return listNormalStyle.Render(line)
	}
}

func (m editorModel) formView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Edit " + m.formKind.String()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("tab next field  ⏎ apply  esc cancel"))
	b.WriteString("\n\n")

	for i, f := range m.form {
		label := fmt.Sprintf("%-9s", f.label)
		if i == m.focus {
			b.WriteString(listSelectedStyle.Render(label))
		} else {
			b.WriteString(listDimStyle.Render(label))
		}
		b.WriteString(f.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

// statusLine renders the last operation result.
func (m editorModel) statusLine() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return StyleError.Render(iconError + " " + m.status)
	}
	return listDimStyle.Render(m.status)
}
