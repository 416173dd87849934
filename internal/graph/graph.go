// Package graph renders the inheritance graph around a class as Graphviz DOT.
package graph

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/hashicorp/go-set/v3"

	"hier/internal/classpool"
	"hier/internal/hierarchy"
)

// EdgeKind distinguishes superclass edges from interface edges.
type EdgeKind uint8

const (
	Extends EdgeKind = iota + 1
	Implements
)

func (k EdgeKind) String() string {
	switch k {
	case Extends:
		return "extends"
	case Implements:
		return "implements"
	default:
		return "unknown"
	}
}

// Edge connects a class to its superclass or to an interface it declares.
type Edge struct {
	From *classpool.Class
	To   *classpool.Class
	Kind EdgeKind
}

// Options controls how far Collect walks.
type Options struct {
	// Superinterfaces also follows interfaces' own declared interfaces.
	Superinterfaces bool
}

// Collect walks c and its superclass chain. For every class on the chain it
// emits the interfaces it declares, then the edge to its superclass.
func Collect(r *hierarchy.Resolver, c *classpool.Class, opts Options) ([]Edge, error) {
	var edges []Edge
	seen := set.New[Edge](16)
	add := func(e Edge) bool {
		if !seen.Insert(e) {
			return false
		}
		edges = append(edges, e)
		return true
	}

	var expand func(iface *classpool.Class) error
	expand = func(iface *classpool.Class) error {
		supers, err := r.Interfaces(iface)
		if err != nil {
			return err
		}
		for _, s := range supers {
			if add(Edge{From: iface, To: s, Kind: Implements}) {
				if err := expand(s); err != nil {
					return err
				}
			}
		}
		return nil
	}

	cursor := c
	for {
		ifaces, err := r.Interfaces(cursor)
		if err != nil {
			return nil, err
		}
		for _, ic := range ifaces {
			if add(Edge{From: cursor, To: ic, Kind: Implements}) && opts.Superinterfaces {
				if err := expand(ic); err != nil {
					return nil, err
				}
			}
		}
		super, ok, err := cursor.Superclass()
		if err != nil {
			return nil, err
		}
		if !ok {
			return edges, nil
		}
		add(Edge{From: cursor, To: super, Kind: Extends})
		cursor = super
	}
}

// WriteDOT renders edges as a digraph. Interface edges are dashed.
func WriteDOT(w io.Writer, edges []Edge) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph {")
	for _, e := range edges {
		fmt.Fprintf(bw, "  %s -> %s", strconv.Quote(e.From.SourceName()), strconv.Quote(e.To.SourceName()))
		if e.Kind == Implements {
			fmt.Fprint(bw, " [style=dashed]")
		}
		fmt.Fprintln(bw, ";")
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}
