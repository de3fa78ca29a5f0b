package fieldpath

import (
	"slices"
	"strconv"

	"github.com/rise-and-shine/datamask/value"
	"github.com/samber/lo"
)

// Location is a value addressed by a path inside a tree.
type Location struct {
	// Path is the concrete path of the location, e.g. $.a.'1'[0].
	Path string
	// Value is the value found at the location.
	Value any

	set func(any)
}

// Set replaces the value at the location in its parent container.
func (l Location) Set(v any) {
	if l.set != nil {
		l.set(v)
	}
}

type step struct {
	node  any
	trail string
	set   func(any)
	next  int // index of the next segment to consume
}

// Select returns every location in root addressed by p, in document order.
// A location reached through more than one route is returned once.
func Select(root any, p Path) []Location {
	var found []Location
	stack := []step{{node: root, trail: "$"}}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if cur.next >= len(p) {
			found = append(found, Location{Path: cur.trail, Value: cur.node, set: cur.set})
			continue
		}

		var children []step
		seg := p[cur.next]
		if seg.Kind == Recursive {
			if cur.next+1 < len(p) {
				children = descend(cur, p[cur.next+1], cur.next+2)
			}
		} else {
			children = match(cur, seg, cur.next+1)
		}

		// reversed so the stack pops them in document order
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	return lo.UniqBy(found, func(l Location) string { return l.Path })
}

// match applies a single non-recursive segment to the node of cur.
func match(cur step, seg Segment, next int) []step {
	switch seg.Kind {
	case Literal:
		m, ok := value.AsMapping(cur.node)
		if !ok {
			return nil
		}
		v, ok := m.Get(seg.Key)
		if !ok {
			return nil
		}
		return []step{mappingChild(cur, m, seg.Key, v, next)}

	case Index:
		elems, ok := value.Elements(cur.node)
		if !ok {
			return nil
		}
		i := seg.Index
		if i < 0 {
			i += len(elems)
		}
		if i < 0 || i >= len(elems) {
			return nil
		}
		return []step{sequenceChild(cur, elems, i, next)}

	case Wildcard:
		return children(cur, next)

	default:
		return nil
	}
}

// children returns every direct child of the node of cur.
func children(cur step, next int) []step {
	if m, ok := value.AsMapping(cur.node); ok {
		keys := m.Keys()
		out := make([]step, 0, len(keys))
		for _, k := range keys {
			v, _ := m.Get(k)
			out = append(out, mappingChild(cur, m, k, v, next))
		}
		return out
	}

	if elems, ok := value.Elements(cur.node); ok {
		out := make([]step, 0, len(elems))
		for i := range elems {
			out = append(out, sequenceChild(cur, elems, i, next))
		}
		return out
	}

	return nil
}

// descend applies seg to cur's node and to every node below it.
func descend(cur step, seg Segment, next int) []step {
	var out []step
	pending := []step{cur}

	for len(pending) > 0 {
		node := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		out = append(out, match(node, seg, next)...)

		below := children(node, 0)
		slices.Reverse(below)
		pending = append(pending, below...)
	}

	return out
}

func mappingChild(parent step, m value.Mapping, key string, v any, next int) step {
	return step{
		node:  v,
		trail: parent.trail + "." + Quote(key),
		set:   func(nv any) { m.Set(key, nv) },
		next:  next,
	}
}

func sequenceChild(parent step, elems []any, i int, next int) step {
	return step{
		node:  elems[i],
		trail: parent.trail + "[" + strconv.Itoa(i) + "]",
		set:   func(nv any) { elems[i] = nv },
		next:  next,
	}
}
