package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client is the Qdrant REST API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the api-key header required by Qdrant Cloud.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the default 10s-timeout client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a new Qdrant client.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CollectionExists reports whether the named collection is present.
func (c *Client) CollectionExists(ctx context.Context, name string) (bool, error) {
	status, err := c.do(ctx, http.MethodGet, "/collections/"+name, nil, nil, http.StatusOK, http.StatusNotFound)
	if err != nil {
		return false, err
	}
	return status == http.StatusOK, nil
}

// EnsureCollection creates the collection unless it already exists, then makes sure
// every key in keywordIndexes has a keyword payload index. Index creation is idempotent.
func (c *Client) EnsureCollection(ctx context.Context, req CreateCollectionRequest, keywordIndexes ...string) error {
	ok, err := c.CollectionExists(ctx, req.Name)
	if err != nil {
		return err
	}
	if !ok {
		if err := c.CreateCollection(ctx, req); err != nil {
			return err
		}
	}
	for _, key := range keywordIndexes {
		if err := c.CreatePayloadIndex(ctx, req.Name, key, SchemaKeyword); err != nil {
			return err
		}
	}
	return nil
}

// CreateCollection creates a new collection with the given configuration.
func (c *Client) CreateCollection(ctx context.Context, req CreateCollectionRequest) error {
	_, err := c.do(ctx, http.MethodPut, "/collections/"+req.Name, req, nil, http.StatusOK, http.StatusCreated)
	return err
}

// CreatePayloadIndex indexes a payload field so filtered searches stay fast.
func (c *Client) CreatePayloadIndex(ctx context.Context, collection, field, schema string) error {
	req := PayloadIndexRequest{FieldName: field, FieldSchema: schema}
	_, err := c.do(ctx, http.MethodPut, "/collections/"+collection+"/index?wait=true", req, nil, http.StatusOK)
	return err
}

// UpsertPoints inserts or updates points and waits until they are searchable.
func (c *Client) UpsertPoints(ctx context.Context, collection string, req UpsertPointsRequest) error {
	_, err := c.do(ctx, http.MethodPut, "/collections/"+collection+"/points?wait=true", req, nil, http.StatusOK)
	return err
}

// SearchPoints performs a similarity search in a collection.
func (c *Client) SearchPoints(ctx context.Context, collection string, req SearchRequest) (*SearchResponse, error) {
	var result SearchResponse
	if _, err := c.do(ctx, http.MethodPost, "/collections/"+collection+"/points/search", req, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeletePoints deletes points by id.
func (c *Client) DeletePoints(ctx context.Context, collection string, ids []string) error {
	return c.deletePoints(ctx, collection, DeletePointsRequest{Points: ids})
}

// DeleteByFilter deletes every point matching filter.
func (c *Client) DeleteByFilter(ctx context.Context, collection string, filter *Filter) error {
	if filter == nil || len(filter.Must) == 0 {
		return fmt.Errorf("qdrant: refusing to delete with an empty filter")
	}
	return c.deletePoints(ctx, collection, DeletePointsRequest{Filter: filter})
}

func (c *Client) deletePoints(ctx context.Context, collection string, req DeletePointsRequest) error {
	_, err := c.do(ctx, http.MethodPost, "/collections/"+collection+"/points/delete?wait=true", req, nil, http.StatusOK)
	return err
}

// do sends body as JSON and decodes the response into out when the status is the first
// of accepted. Any other accepted status is returned without decoding.
func (c *Client) do(ctx context.Context, method, path string, body, out any, accepted ...int) (int, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		httpReq.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("failed to call qdrant API: %w", err)
	}
	defer resp.Body.Close()

	for i, code := range accepted {
		if resp.StatusCode != code {
			continue
		}
		if i == 0 && out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
			}
		}
		return resp.StatusCode, nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
}
