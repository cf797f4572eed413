// internal/catalog/client.go

// Package catalog is the read-only client for the upstream catalog API. The
// stores never talk to the catalog themselves: handlers fetch a product
// snapshot here and hand it to the store operation.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/uzagro/storefront/internal/models"
)

// ErrProductNotFound is returned when the catalog has no product under the
// requested slug or id.
var ErrProductNotFound = errors.New("catalog: product not found")

// Source is what handlers depend on; tests substitute a stub.
type Source interface {
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetProductBySlug fetches a single product snapshot by its slug.
func (c *Client) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return c.fetchProduct(ctx, "/v1/products/"+url.PathEscape(slug))
}

// GetProduct fetches a single product snapshot by its numeric id.
func (c *Client) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return c.fetchProduct(ctx, "/v1/products/"+strconv.FormatInt(id, 10))
}

func (c *Client) fetchProduct(ctx context.Context, path string) (*models.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrProductNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Product *models.Product `json:"product"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}
	if !envelope.Success || envelope.Data.Product == nil {
		return nil, ErrProductNotFound
	}

	return envelope.Data.Product, nil
}
