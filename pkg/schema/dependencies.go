package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycle is returned when table dependencies form a cycle.
var ErrCycle = errors.New("dependency cycle between tables")

// CreateOrder returns tables ordered so every table comes after the tables
// its columns reference. Tables without a dependency between them keep their
// relative order.
func CreateOrder(tables []Table) ([]Table, error) {
	return resolve(tables, func(t Table) []string {
		return t.References()
	})
}

// DropOrder is the reverse of CreateOrder.
func DropOrder(tables []Table) ([]Table, error) {
	ordered, err := CreateOrder(tables)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	}
	return ordered, nil
}

// LoadOrder returns tables ordered so every table comes after the tables it
// references and the tables it must be loaded after.
func LoadOrder(tables []Table) ([]Table, error) {
	return resolve(tables, func(t Table) []string {
		return append(t.References(), t.LoadAfter...)
	})
}

const (
	unvisited = iota
	visiting
	visited
)

type resolverContext struct {
	byName  map[string]Table
	state   map[string]int
	path    []string
	ordered []Table
	deps    func(Table) []string
}

func resolve(tables []Table, deps func(Table) []string) ([]Table, error) {
	resolverCtx := &resolverContext{
		byName:  make(map[string]Table, len(tables)),
		state:   make(map[string]int, len(tables)),
		ordered: make([]Table, 0, len(tables)),
		deps:    deps,
	}
	for _, t := range tables {
		if _, exists := resolverCtx.byName[t.Name]; exists {
			return nil, fmt.Errorf("table %s is declared more than once", t.Name)
		}
		resolverCtx.byName[t.Name] = t
	}
	for _, t := range tables {
		if err := resolverCtx.visit(t); err != nil {
			return nil, err
		}
	}
	return resolverCtx.ordered, nil
}

func (c *resolverContext) visit(t Table) error {
	switch c.state[t.Name] {
	case visited:
		return nil
	case visiting:
		return fmt.Errorf("%w: %s -> %s", ErrCycle, strings.Join(c.path, " -> "), t.Name)
	}
	c.state[t.Name] = visiting
	c.path = append(c.path, t.Name)

	for _, name := range c.deps(t) {
		dep, ok := c.byName[name]
		if !ok {
			return fmt.Errorf("table %s depends on unknown table %s", t.Name, name)
		}
		if err := c.visit(dep); err != nil {
			return err
		}
	}

	c.path = c.path[:len(c.path)-1]
	c.state[t.Name] = visited
	c.ordered = append(c.ordered, t)
	return nil
}
