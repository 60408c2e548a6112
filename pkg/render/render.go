package render

import (
	"github.com/jiapeiLu/menubuilder/pkg/menu"
)

// Item is one renderable menu entry. Items arrive in build order: a folder
// item is followed by its children at the next depth, so a renderer can
// open a submenu on a folder and close it when the depth drops back.
type Item struct {
	ID       menu.NodeID
	Kind     menu.Kind
	Label    string
	Language menu.Language
	Command  string
	Icon     string
	Depth    int
	// OptionBox is the secondary control attached to a command entry,
	// nil for entries without one. Option boxes never appear as items
	// of their own.
	OptionBox *Box
}

// Box is the option-box control attached to a command item.
type Box struct {
	ID       menu.NodeID
	Language menu.Language
	Command  string
	Icon     string
}

// Items flattens the tree into an ordered item sequence for a menu
// builder. The tree is validated first; an invalid tree renders nothing.
func Items(t *menu.Tree) ([]Item, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	var items []Item
	var walk func(parent menu.NodeID, depth int)
	walk = func(parent menu.NodeID, depth int) {
		for _, id := range t.Children(parent) {
			n, ok := t.Node(id)
			if !ok {
				continue
			}
			if n.IsOptionBox() {
				// Validation guarantees the anchor was just emitted.
				items[len(items)-1].OptionBox = &Box{
					ID:       n.ID,
					Language: n.Language,
					Command:  n.Command,
					Icon:     n.Icon,
				}
				continue
			}
			items = append(items, Item{
				ID:       n.ID,
				Kind:     n.Kind,
				Label:    n.Label,
				Language: n.Language,
				Command:  n.Command,
				Icon:     n.Icon,
				Depth:    depth,
			})
			if n.Kind == menu.KindFolder {
				walk(n.ID, depth+1)
			}
		}
	}
	walk(menu.RootID, 0)
	return items, nil
}
