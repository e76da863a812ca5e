package dashboard

import (
	"sort"
	"time"
)

// TransitionDuration is the animation length applied to updated marks.
const TransitionDuration = 500 * time.Millisecond

// Node is one element of a chart scene. Scenes are plain trees; they are
// cloned before every render so a Surface handed to a caller is never mutated.
type Node struct {
	Tag        string
	Class      string
	Key        string
	Attrs      map[string]string
	Styles     map[string]string
	Text       string
	Children   []*Node
	Animations []Animation
}

// Animation records an attribute interpolated from a previous render.
type Animation struct {
	Attr     string
	From     string
	To       string
	Duration time.Duration
}

// NewNode builds an element with the given tag and class.
func NewNode(tag, class string) *Node {
	return &Node{Tag: tag, Class: class, Attrs: map[string]string{}, Styles: map[string]string{}}
}

// Set assigns an attribute without animation.
func (n *Node) Set(attr, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = map[string]string{}
	}
	n.Attrs[attr] = value
	return n
}

// Style assigns an inline style property.
func (n *Node) Style(prop, value string) *Node {
	if n.Styles == nil {
		n.Styles = map[string]string{}
	}
	n.Styles[prop] = value
	return n
}

// Attr returns the attribute value.
func (n *Node) Attr(attr string) string {
	return n.Attrs[attr]
}

// Transition assigns an attribute, animating from the previous value when one
// existed and differs.
func (n *Node) Transition(attr, value string) *Node {
	prev, had := n.Attrs[attr]
	n.Set(attr, value)
	if had && prev != value {
		n.Animations = append(n.Animations, Animation{
			Attr:     attr,
			From:     prev,
			To:       value,
			Duration: TransitionDuration,
		})
	}
	return n
}

// Append adds a child and returns it.
func (n *Node) Append(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// Find returns the first direct child with class.
func (n *Node) Find(class string) *Node {
	for _, child := range n.Children {
		if child.Class == class {
			return child
		}
	}
	return nil
}

// FindAll returns every direct child with class, in document order.
func (n *Node) FindAll(class string) []*Node {
	var out []*Node
	for _, child := range n.Children {
		if child.Class == class {
			out = append(out, child)
		}
	}
	return out
}

// Remove drops every direct child with one of the classes. It returns the
// number of removed children.
func (n *Node) Remove(classes ...string) int {
	drop := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		drop[c] = struct{}{}
	}
	kept := n.Children[:0]
	removed := 0
	for _, child := range n.Children {
		if _, ok := drop[child.Class]; ok {
			removed++
			continue
		}
		kept = append(kept, child)
	}
	n.Children = kept
	return removed
}

// Walk visits n and its descendants depth first.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Clone deep-copies the node. Animations are not carried over: they describe
// the render that produced n, not the next one.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		Tag:   n.Tag,
		Class: n.Class,
		Key:   n.Key,
		Text:  n.Text,
	}
	out.Attrs = make(map[string]string, len(n.Attrs))
	for k, v := range n.Attrs {
		out.Attrs[k] = v
	}
	out.Styles = make(map[string]string, len(n.Styles))
	for k, v := range n.Styles {
		out.Styles[k] = v
	}
	if len(n.Children) > 0 {
		out.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			out.Children[i] = child.Clone()
		}
	}
	return out
}

// JoinStats counts what a reconciliation did.
type JoinStats struct {
	Entered int `json:"entered"`
	Updated int `json:"updated"`
	Exited  int `json:"exited"`
}

// Add accumulates other into s.
func (s *JoinStats) Add(other JoinStats) {
	s.Entered += other.Entered
	s.Updated += other.Updated
	s.Exited += other.Exited
}

// Join reconciles the children of parent carrying class with keys.
// Children whose key is absent from keys exit (are removed); keys without a
// child enter through enter; every surviving or entered child then goes
// through update with its data index. Joined children keep their relative
// position among parent's other children and end up in keys order.
func Join(parent *Node, class string, keys []string, enter func(key string, i int) *Node, update func(n *Node, i int, entered bool)) JoinStats {
	var stats JoinStats
	existing := map[string]*Node{}
	insertAt := -1
	others := make([]*Node, 0, len(parent.Children))
	for _, child := range parent.Children {
		if child.Class != class {
			others = append(others, child)
			continue
		}
		if insertAt < 0 {
			insertAt = len(others)
		}
		if _, dup := existing[child.Key]; dup {
			stats.Exited++
			continue
		}
		existing[child.Key] = child
	}
	if insertAt < 0 {
		insertAt = len(others)
	}

	joined := make([]*Node, 0, len(keys))
	for i, key := range keys {
		node, ok := existing[key]
		entered := !ok
		if entered {
			node = enter(key, i)
			node.Class = class
			node.Key = key
			stats.Entered++
		} else {
			delete(existing, key)
			stats.Updated++
		}
		if update != nil {
			update(node, i, entered)
		}
		joined = append(joined, node)
	}
	stats.Exited += len(existing)

	children := make([]*Node, 0, len(others)+len(joined))
	children = append(children, others[:insertAt]...)
	children = append(children, joined...)
	children = append(children, others[insertAt:]...)
	parent.Children = children
	return stats
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
