package schema

import (
	"fmt"
	"sort"
)

// Table describes one persisted entity table and the tables its foreign keys
// point at.
type Table struct {
	Name         string
	PrimaryKey   string
	Columns      []string
	Dependencies []string
}

// DependencyGraph orders tables so that every table comes after the tables
// it references.
type DependencyGraph struct {
	tables map[string]*Table
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		tables: make(map[string]*Table),
	}
}

func (g *DependencyGraph) AddTable(table *Table) {
	g.tables[table.Name] = table
}

// BuildInsertionOrder returns a topological order. Ties are broken by name
// so the order is stable between runs.
func (g *DependencyGraph) BuildInsertionOrder() ([]string, error) {
	visited := make(map[string]bool)
	temp := make(map[string]bool)
	var order []string

	var visit func(string) error
	visit = func(tableName string) error {
		if temp[tableName] {
			return fmt.Errorf("circular dependency detected involving table: %s", tableName)
		}
		if visited[tableName] {
			return nil
		}

		temp[tableName] = true
		if table := g.tables[tableName]; table != nil {
			deps := append([]string(nil), table.Dependencies...)
			sort.Strings(deps)
			for _, dep := range deps {
				if dep == tableName {
					continue
				}
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		temp[tableName] = false
		visited[tableName] = true
		order = append(order, tableName)
		return nil
	}

	names := make([]string, 0, len(g.tables))
	for name := range g.tables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}

	return order, nil
}
