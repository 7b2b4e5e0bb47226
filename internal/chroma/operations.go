package chroma

import (
	"context"
	"encoding/json"
	"net/http"
)

// Heartbeat returns the server's liveness payload.
func (c *Client) Heartbeat(ctx context.Context) (json.RawMessage, error) {
	return Issue[json.RawMessage](ctx, c, c.session.Paths().Heartbeat(), RequestOptions{})
}

// ServerVersion returns the server's version string.
func (c *Client) ServerVersion(ctx context.Context) (string, error) {
	return Issue[string](ctx, c, c.session.Paths().ServerVersion(), RequestOptions{})
}

// ListCollections returns every collection in the default database.
func (c *Client) ListCollections(ctx context.Context) ([]Collection, error) {
	return Issue[[]Collection](ctx, c, c.BasePath()+"/collections", RequestOptions{})
}

// GetCollection returns one collection by name (or id on servers that accept it).
func (c *Client) GetCollection(ctx context.Context, nameOrID string) (Collection, error) {
	return Issue[Collection](ctx, c, collectionPath(c.session.Paths(), nameOrID), RequestOptions{})
}

// CreateCollection creates a collection, or returns the existing one when GetOrCreate is set.
func (c *Client) CreateCollection(ctx context.Context, req CreateCollectionRequest) (Collection, error) {
	return Issue[Collection](ctx, c, c.BasePath()+"/collections", RequestOptions{
		Method: http.MethodPost,
		Body:   req,
	})
}

// CountRecords returns the number of records in a collection.
func (c *Client) CountRecords(ctx context.Context, collectionID string) (int, error) {
	return Issue[int](ctx, c, collectionPath(c.session.Paths(), collectionID)+"/count", RequestOptions{})
}

// GetItems returns one page of records.
func (c *Client) GetItems(ctx context.Context, collectionID string, req GetRequest) (ItemBatch, error) {
	return Issue[ItemBatch](ctx, c, collectionPath(c.session.Paths(), collectionID)+"/get", RequestOptions{
		Method: http.MethodPost,
		Body:   req,
	})
}

// Query runs a similarity search.
func (c *Client) Query(ctx context.Context, collectionID string, req QueryRequest) (QueryResult, error) {
	return Issue[QueryResult](ctx, c, collectionPath(c.session.Paths(), collectionID)+"/query", RequestOptions{
		Method: http.MethodPost,
		Body:   req,
	})
}

// DeleteCollection removes a collection by name.
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	_, err := Issue[json.RawMessage](ctx, c, collectionPath(c.session.Paths(), name), RequestOptions{
		Method:     http.MethodDelete,
		AllowEmpty: true,
	})
	return err
}

// AddItems writes records to a collection.
func (c *Client) AddItems(ctx context.Context, collectionID string, req AddRequest) error {
	_, err := Issue[json.RawMessage](ctx, c, collectionPath(c.session.Paths(), collectionID)+"/add", RequestOptions{
		Method:     http.MethodPost,
		Body:       req,
		AllowEmpty: true,
	})
	return err
}

// DeleteItems removes records by id or filter.
func (c *Client) DeleteItems(ctx context.Context, collectionID string, req DeleteRequest) error {
	_, err := Issue[json.RawMessage](ctx, c, collectionPath(c.session.Paths(), collectionID)+"/delete", RequestOptions{
		Method:     http.MethodPost,
		Body:       req,
		AllowEmpty: true,
	})
	return err
}
