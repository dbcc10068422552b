package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client is a thin wrapper around the kvvec HTTP API.
//
// Every method returns *APIError when the server answers with a status of
// 400 or above. Pop, Find and DeleteEntry report a missing result as
// (zero, false, nil) instead.
//
//	c := client.New("http://localhost:8080")
//	_, err := c.CreateVector(ctx, "orders", 16)
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("kvvec: %d %s", e.StatusCode, e.Message)
}

type Entry struct {
	Key   int32 `json:"key"`
	Value int32 `json:"value"`
}

type VectorInfo struct {
	Name     string `json:"name"`
	Length   int    `json:"length"`
	Capacity int    `json:"capacity"`
	Grows    int    `json:"grows"`
}

type Vector struct {
	VectorInfo
	Entries []Entry `json:"entries"`
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// do sends a request and decodes a JSON response into out when out is set.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var e struct {
			Error string `json:"error"`
		}
		msg := string(respBody)
		if json.Unmarshal(respBody, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

func isNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

func vectorPath(name string) string {
	return "/v1/vectors/" + url.PathEscape(name)
}

func (c *Client) HealthCheck(ctx context.Context) (bool, error) {
	var result struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/", nil, &result); err != nil {
		return false, err
	}
	return result.Status == "ok", nil
}

// CreateVector creates a vector. A zero capacity uses the server default.
func (c *Client) CreateVector(ctx context.Context, name string, capacity int) (VectorInfo, error) {
	var info VectorInfo
	payload := map[string]any{"name": name, "capacity": capacity}
	err := c.do(ctx, http.MethodPost, "/v1/vectors", payload, &info)
	return info, err
}

func (c *Client) GetVector(ctx context.Context, name string) (Vector, error) {
	var v Vector
	err := c.do(ctx, http.MethodGet, vectorPath(name), nil, &v)
	return v, err
}

func (c *Client) ListVectors(ctx context.Context) ([]VectorInfo, error) {
	var result struct {
		Vectors []VectorInfo `json:"vectors"`
	}
	err := c.do(ctx, http.MethodGet, "/v1/vectors", nil, &result)
	return result.Vectors, err
}

func (c *Client) DeleteVector(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, vectorPath(name), nil, nil)
}

func (c *Client) Push(ctx context.Context, name string, e Entry) (VectorInfo, error) {
	var info VectorInfo
	err := c.do(ctx, http.MethodPost, vectorPath(name)+"/entries", e, &info)
	return info, err
}

// Pop removes the last entry. ok is false when the vector is empty.
func (c *Client) Pop(ctx context.Context, name string) (e Entry, ok bool, err error) {
	err = c.do(ctx, http.MethodPost, vectorPath(name)+"/entries/pop", nil, &e)
	if isNotFound(err) {
		if _, getErr := c.GetVector(ctx, name); getErr != nil {
			return Entry{}, false, getErr
		}
		return Entry{}, false, nil
	}
	return e, err == nil, err
}

// Find returns the index of the first entry with key.
func (c *Client) Find(ctx context.Context, name string, key int32) (idx int, ok bool, err error) {
	var result struct {
		Index int `json:"index"`
	}
	err = c.do(ctx, http.MethodGet, vectorPath(name)+"/entries/"+strconv.Itoa(int(key)), nil, &result)
	if isNotFound(err) {
		if _, getErr := c.GetVector(ctx, name); getErr != nil {
			return -1, false, getErr
		}
		return -1, false, nil
	}
	if err != nil {
		return -1, false, err
	}
	return result.Index, true, nil
}

// DeleteEntry removes the first entry with key and reports whether one
// was removed.
func (c *Client) DeleteEntry(ctx context.Context, name string, key int32) (bool, error) {
	err := c.do(ctx, http.MethodDelete, vectorPath(name)+"/entries/"+strconv.Itoa(int(key)), nil, nil)
	if isNotFound(err) {
		if _, getErr := c.GetVector(ctx, name); getErr != nil {
			return false, getErr
		}
		return false, nil
	}
	return err == nil, err
}

func (c *Client) Sort(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, vectorPath(name)+"/sort", nil, nil)
}

func (c *Client) Seed(ctx context.Context) (uint64, error) {
	var result struct {
		Seed uint64 `json:"seed"`
	}
	err := c.do(ctx, http.MethodGet, "/v1/utils/seed", nil, &result)
	return result.Seed, err
}

func (c *Client) RandomString(ctx context.Context, length int) (string, error) {
	var result struct {
		Value string `json:"value"`
	}
	err := c.do(ctx, http.MethodGet, "/v1/utils/random?length="+strconv.Itoa(length), nil, &result)
	return result.Value, err
}
