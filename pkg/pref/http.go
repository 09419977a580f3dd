package pref

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Value is the JSON body exchanged with the preference API.
type Value struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// HTTPStore is a Store backed by the server's /api/pref endpoints.
type HTTPStore struct {
	base   string
	client *http.Client
}

// NewHTTPStore creates a store rooted at base (e.g.
// "https://example.com/api/pref"). A nil client uses http.DefaultClient.
func NewHTTPStore(base string, client *http.Client) *HTTPStore {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPStore{base: strings.TrimSuffix(base, "/"), client: client}
}

func (h *HTTPStore) url(key string) string {
	return h.base + "/" + url.PathEscape(key)
}

// Get implements Store.
func (h *HTTPStore) Get(ctx context.Context, key string) (string, error) {
	resp, err := h.do(ctx, http.MethodGet, key, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", statusError(http.MethodGet, resp)
	}
	var v Value
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return "", fmt.Errorf("pref: decode %s: %w", key, err)
	}
	return v.Value, nil
}

// Set implements Store.
func (h *HTTPStore) Set(ctx context.Context, key, value string) error {
	body, err := json.Marshal(Value{Key: key, Value: value})
	if err != nil {
		return err
	}
	resp, err := h.do(ctx, http.MethodPut, key, bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return statusError(http.MethodPut, resp)
	}
	return nil
}

// Delete implements Store.
func (h *HTTPStore) Delete(ctx context.Context, key string) error {
	resp, err := h.do(ctx, http.MethodDelete, key, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 && resp.StatusCode != http.StatusNotFound {
		return statusError(http.MethodDelete, resp)
	}
	return nil
}

func (h *HTTPStore) do(ctx context.Context, method, key string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, h.url(key), body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pref: %s %s: %w", method, key, err)
	}
	return resp, nil
}

func statusError(method string, resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("pref: %s %s: %s: %s", method, resp.Request.URL.Path, resp.Status, strings.TrimSpace(string(msg)))
}
