package doc

import (
	"sort"

	"escrido/internal/content"
)

// RootGroupName names the root of every group tree.
const RootGroupName = "Contents"

// Group is a node of the group tree. Pages hold the pages whose innermost
// @ingroup is this node.
type Group struct {
	Name     string
	Level    int
	Parent   *Group
	Children []*Group
	Pages    []*Page
}

func (g *Group) child(name string) *Group {
	for _, c := range g.Children {
		if c.Name == name {
			return c
		}
	}
	c := &Group{Name: name, Level: g.Level + 1, Parent: g}
	g.Children = append(g.Children, c)
	return c
}

// Path returns the group names from the top level down to g. The root has
// an empty path.
func (g *Group) Path() []string {
	var out []string
	for n := g; n != nil && n.Parent != nil; n = n.Parent {
		out = append([]string{n.Name}, out...)
	}
	return out
}

// Walk visits g and its descendants depth first, parents before children.
func (g *Group) Walk(fn func(*Group)) {
	fn(g)
	for _, c := range g.Children {
		c.Walk(fn)
	}
}

// MaxLevel returns the deepest level below g.
func (g *Group) MaxLevel() int {
	max := 0
	g.Walk(func(n *Group) {
		if n.Level > max {
			max = n.Level
		}
	})
	return max
}

// TypeIDs returns the page type ids of the group: mainpage and page first,
// then the others in order of appearance. Types with no page are left out.
func (g *Group) TypeIDs() []string {
	present := make(map[string]bool)
	var others []string
	for _, p := range g.Pages {
		if !present[p.typeID] {
			present[p.typeID] = true
			if p.typeID != "mainpage" && p.typeID != "page" {
				others = append(others, p.typeID)
			}
		}
	}
	var out []string
	for _, id := range []string{"mainpage", "page"} {
		if present[id] {
			out = append(out, id)
		}
	}
	return append(out, others...)
}

// PagesOf returns the pages of the group with the given type id.
func (g *Group) PagesOf(typeID string) []*Page {
	var out []*Page
	for _, p := range g.Pages {
		if p.typeID == typeID {
			out = append(out, p)
		}
	}
	return out
}

// Groups returns the ordered group tree. It is rebuilt after any change of
// the page list.
func (d *Documentation) Groups() *Group {
	if d.tree != nil {
		return d.tree
	}
	root := &Group{Name: RootGroupName}
	for _, p := range d.pages {
		n := root
		for _, name := range p.GroupNames() {
			n = n.child(name)
		}
		n.Pages = append(n.Pages, p)
	}
	root.order(d.orderList())
	d.tree = root
	return root
}

// orderList is the mainpage identifier followed by its @order entries.
func (d *Documentation) orderList() []string {
	mp := d.MainPage()
	if mp == nil {
		return nil
	}
	return append([]string{mp.ident}, mp.OrderList()...)
}

// order puts the entries named in refs first, in refs order, and sorts the
// rest alphanumerically by title or group name.
func (g *Group) order(refs []string) {
	g.Pages = orderBy(g.Pages, refs, func(p *Page) string { return p.ident }, (*Page).Title)
	g.Children = orderBy(g.Children, refs, func(c *Group) string { return c.Name }, func(c *Group) string { return c.Name })
	for _, c := range g.Children {
		c.order(refs)
	}
}

func orderBy[T any](items []T, refs []string, key, title func(T) string) []T {
	rest := append([]T(nil), items...)
	out := make([]T, 0, len(items))
	for _, r := range refs {
		for i, it := range rest {
			if key(it) == r {
				out = append(out, it)
				rest = append(rest[:i], rest[i+1:]...)
				break
			}
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return content.LessAlnum(title(rest[i]), title(rest[j]))
	})
	return append(out, rest...)
}

// NavOrder returns all pages in reading order: group by group, and within a
// group by type in TypeIDs order.
func (d *Documentation) NavOrder() []*Page {
	if d.nav != nil {
		return d.nav
	}
	var nav []*Page
	d.Groups().Walk(func(g *Group) {
		for _, id := range g.TypeIDs() {
			nav = append(nav, g.PagesOf(id)...)
		}
	})
	d.nav = nav
	return nav
}

// Prev returns the page before p in reading order, wrapping around.
func (d *Documentation) Prev(p *Page) *Page {
	return d.neighbour(p, -1)
}

// Next returns the page after p in reading order, wrapping around.
func (d *Documentation) Next(p *Page) *Page {
	return d.neighbour(p, 1)
}

func (d *Documentation) neighbour(p *Page, step int) *Page {
	nav := d.NavOrder()
	for i, q := range nav {
		if q == p {
			return nav[(i+step+len(nav))%len(nav)]
		}
	}
	return nil
}
