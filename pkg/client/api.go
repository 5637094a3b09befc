package client

import (
	"context"
	"net/http"

	"github.com/GregMSThompson/dbadmin/internal/dto"
	"github.com/GregMSThompson/dbadmin/internal/form"
	"github.com/GregMSThompson/dbadmin/internal/models"
)

func (c *Client) ListTables(ctx context.Context) ([]models.Relation, error) {
	var out []models.Relation
	err := c.do(ctx, http.MethodGet, "/tables", nil, &out, "fetching tables")
	return out, err
}

func (c *Client) TableSchema(ctx context.Context, table string) ([]models.Column, error) {
	var out []models.Column
	err := c.do(ctx, http.MethodGet, "/tables/"+escape(table)+"/schema", nil, &out, "fetching "+table+" schema")
	return out, err
}

func (c *Client) TableForm(ctx context.Context, table string) ([]form.Field, error) {
	var out []form.Field
	err := c.do(ctx, http.MethodGet, "/tables/"+escape(table)+"/form", nil, &out, "fetching "+table+" form")
	return out, err
}

func (c *Client) TableRows(ctx context.Context, table string) ([]models.Row, error) {
	var out []models.Row
	err := c.do(ctx, http.MethodGet, "/tables/"+escape(table), nil, &out, "fetching "+table+" data")
	return out, err
}

func (c *Client) Insert(ctx context.Context, table string, data *models.Row) (*models.Row, error) {
	out := models.NewRow(0)
	if err := c.do(ctx, http.MethodPost, "/tables/"+escape(table), data, out, "inserting into "+table); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Update(ctx context.Context, table, id string, data *models.Row) (*models.Row, error) {
	out := models.NewRow(0)
	if err := c.do(ctx, http.MethodPut, "/tables/"+escape(table)+"/"+escape(id), data, out, "updating "+table); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Delete(ctx context.Context, table, id string) (dto.MessageResponse, error) {
	var out dto.MessageResponse
	err := c.do(ctx, http.MethodDelete, "/tables/"+escape(table)+"/"+escape(id), nil, &out, "deleting from "+table)
	return out, err
}

func (c *Client) ListViews(ctx context.Context) ([]models.Relation, error) {
	var out []models.Relation
	err := c.do(ctx, http.MethodGet, "/views", nil, &out, "fetching views")
	return out, err
}

func (c *Client) ViewRows(ctx context.Context, view string) ([]models.Row, error) {
	var out []models.Row
	err := c.do(ctx, http.MethodGet, "/views/"+escape(view), nil, &out, "fetching "+view+" data")
	return out, err
}

// ExecuteQuery posts raw SQL with substitution parameters. A nil map is
// sent as an empty object.
func (c *Client) ExecuteQuery(ctx context.Context, query string, params map[string]any) ([]models.Row, error) {
	if params == nil {
		params = map[string]any{}
	}
	var out []models.Row
	err := c.do(ctx, http.MethodPost, "/execute-query", dto.ExecuteQueryRequest{Query: query, Parameters: params}, &out, "executing query")
	return out, err
}

// RunQuery executes a catalog entry with its default parameters, with
// overrides applied on top.
func (c *Client) RunQuery(ctx context.Context, q models.PredefinedQuery, overrides map[string]any) ([]models.Row, error) {
	params := make(map[string]any, len(q.Parameters)+len(overrides))
	for k, v := range q.Parameters {
		params[k] = v
	}
	for k, v := range overrides {
		params[k] = v
	}
	return c.ExecuteQuery(ctx, q.SQL, params)
}
