package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
)

// Query builds a PostgREST request against one table
type Query struct {
	client *Client
	table  string
	token  string
	params url.Values
}

// From starts a query on table
func (c *Client) From(table string) *Query {
	return &Query{client: c, table: table, params: url.Values{}}
}

// As runs the query with the caller's access token so row-level security
// applies. An empty token falls back to the service key, then the anon key.
func (q *Query) As(token string) *Query {
	q.token = token
	return q
}

// Select sets the returned columns
func (q *Query) Select(columns string) *Query {
	q.params.Set("select", columns)
	return q
}

// Eq adds a column = value filter
func (q *Query) Eq(column, value string) *Query {
	q.params.Add(column, "eq."+value)
	return q
}

// Order sorts by column
func (q *Query) Order(column string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.params.Set("order", column+"."+dir)
	return q
}

func (q *Query) path() string {
	return "/rest/v1/" + url.PathEscape(q.table)
}

func (q *Query) bearer() string {
	if q.token != "" {
		return q.token
	}
	return q.client.serviceKey
}

// Execute runs a GET and decodes the row array into out
func (q *Query) Execute(ctx context.Context, out interface{}) error {
	return q.client.do(ctx, request{
		method: http.MethodGet,
		path:   q.path(),
		query:  q.params,
		bearer: q.bearer(),
	}, out)
}

// Single runs a GET expecting exactly one row
func (q *Query) Single(ctx context.Context, out interface{}) error {
	err := q.client.do(ctx, request{
		method:  http.MethodGet,
		path:    q.path(),
		query:   q.params,
		bearer:  q.bearer(),
		headers: map[string]string{"Accept": "application/vnd.pgrst.object+json"},
	}, out)

	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotAcceptable {
		return ErrNoRows
	}
	return err
}

// Insert posts row and decodes the stored representation into out
func (q *Query) Insert(ctx context.Context, row interface{}, out interface{}) error {
	prefer := "return=minimal"
	if out != nil {
		prefer = "return=representation"
	}
	return q.client.do(ctx, request{
		method:  http.MethodPost,
		path:    q.path(),
		query:   q.params,
		bearer:  q.bearer(),
		headers: map[string]string{"Prefer": prefer},
		body:    row,
	}, out)
}

// Update patches every row matching the filters and returns how many rows
// the service reported back.
func (q *Query) Update(ctx context.Context, patch interface{}) (int64, error) {
	var rows []json.RawMessage
	err := q.client.do(ctx, request{
		method:  http.MethodPatch,
		path:    q.path(),
		query:   q.params,
		bearer:  q.bearer(),
		headers: map[string]string{"Prefer": "return=representation"},
		body:    patch,
	}, &rows)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}
