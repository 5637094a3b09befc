// Package queries holds the menu of canned analytical queries shown by the
// terminal front end.
package queries

import (
	_ "embed"
	"fmt"
	"maps"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/GregMSThompson/dbadmin/internal/models"
)

//go:embed queries.yaml
var builtin []byte

type Catalog struct {
	queries []models.PredefinedQuery
	byID    map[string]int
}

// Parse reads a YAML list of queries. Ids must be unique and every entry
// needs an id, a name and a query.
func Parse(data []byte) (*Catalog, error) {
	var list []models.PredefinedQuery
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing query catalog: %w", err)
	}

	c := &Catalog{queries: list, byID: make(map[string]int, len(list))}
	for i, q := range list {
		if q.ID == "" || q.Name == "" || q.SQL == "" {
			return nil, fmt.Errorf("query catalog entry %d: id, name and query are required", i)
		}
		if _, dup := c.byID[q.ID]; dup {
			return nil, fmt.Errorf("query catalog: duplicate id %q", q.ID)
		}
		c.byID[q.ID] = i
	}
	return c, nil
}

var builtinCatalog = sync.OnceValue(func() *Catalog {
	c, err := Parse(builtin)
	if err != nil {
		panic(err)
	}
	return c
})

// Builtin returns the embedded catalog.
func Builtin() *Catalog {
	return builtinCatalog()
}

// List returns the queries in menu order.
func (c *Catalog) List() []models.PredefinedQuery {
	out := make([]models.PredefinedQuery, len(c.queries))
	copy(out, c.queries)
	return out
}

// Find returns the query with the given id. The returned parameters map
// is a copy and may be modified.
func (c *Catalog) Find(id string) (models.PredefinedQuery, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.PredefinedQuery{}, false
	}
	q := c.queries[i]
	if q.Parameters != nil {
		q.Parameters = maps.Clone(q.Parameters)
	}
	return q, true
}
