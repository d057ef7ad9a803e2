// Package restapi implements remote.Store against a PostgREST-compatible
// backend, such as a hosted Supabase project. Records live under
// {baseURL}/rest/v1/{collection}.
package restapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/models"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/remote"
)

// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default client, which has a 30 second timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List fetches the rows matching q.
func (c *Client) List(ctx context.Context, collection string, q remote.Query) ([]remote.Document, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, collection, listParams(q), nil)
	if err != nil {
		return nil, remote.Transport("list "+collection, err)
	}
	return decodeDocuments(resp, "list "+collection)
}

// Get fetches one row by id.
func (c *Client) Get(ctx context.Context, collection, id string) (remote.Document, error) {
	params := idParams(id)
	params.Set("select", "*")
	params.Set("limit", "1")
	resp, err := c.doRequest(ctx, http.MethodGet, collection, params, nil)
	if err != nil {
		return nil, remote.Transport("get "+collection, err)
	}
	return single(resp, collection, id, "get")
}

// Insert posts one row and returns its representation.
func (c *Client) Insert(ctx context.Context, collection string, fields remote.Document) (remote.Document, error) {
	body := []remote.Document{remote.StripReserved(fields)}
	resp, err := c.doRequest(ctx, http.MethodPost, collection, url.Values{}, body)
	if err != nil {
		return nil, remote.Transport("insert "+collection, err)
	}
	docs, err := decodeDocuments(resp, "insert "+collection)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, remote.Transport("insert "+collection, fmt.Errorf("empty representation"))
	}
	return docs[0], nil
}

// Update patches one row and returns its representation.
func (c *Client) Update(ctx context.Context, collection, id string, patch remote.Document) (remote.Document, error) {
	resp, err := c.doRequest(ctx, http.MethodPatch, collection, idParams(id), remote.StripReserved(patch))
	if err != nil {
		return nil, remote.Transport("update "+collection, err)
	}
	return single(resp, collection, id, "update")
}

// Delete removes one row by id.
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, collection, idParams(id), nil)
	if err != nil {
		return remote.Transport("delete "+collection, err)
	}
	_, err = single(resp, collection, id, "delete")
	return err
}

// doRequest performs an HTTP request with the backend's auth headers.
func (c *Client) doRequest(ctx context.Context, method, collection string, params url.Values, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	endpoint := c.baseURL + "/rest/v1/" + url.PathEscape(collection)
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return c.httpClient.Do(req)
}

// --- helpers ---

func listParams(q remote.Query) url.Values {
	params := url.Values{}
	params.Set("select", "*")
	for _, f := range q.Where {
		params.Add(f.Field, "eq."+formatValue(f.Value))
	}
	order := q.Ordering()
	dir := "asc"
	if order.Descending {
		dir = "desc"
	}
	params.Set("order", order.Field+"."+dir)
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	return params
}

func idParams(id string) url.Values {
	params := url.Values{}
	params.Set(remote.FieldID, "eq."+id)
	return params
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	}
	return fmt.Sprint(v)
}

// codeInvalidText is the Postgres invalid_text_representation code, returned
// when a filter value does not parse as the column type.
const codeInvalidText = "22P02"

// apiError is the PostgREST error body.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func decodeDocuments(resp *http.Response, op string) ([]remote.Document, error) {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, statusError(resp.StatusCode, body, op)
	}
	if resp.StatusCode == http.StatusNoContent {
		return []remote.Document{}, nil
	}

	var docs []remote.Document
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, remote.Transport(op, fmt.Errorf("failed to decode response: %w", err))
	}
	for _, d := range docs {
		normalize(d)
	}
	if docs == nil {
		docs = []remote.Document{}
	}
	return docs, nil
}

// single decodes an id-scoped response. An id the id column cannot parse
// names no record, so it reads as not found.
func single(resp *http.Response, collection, id, op string) (remote.Document, error) {
	if resp.StatusCode == http.StatusBadRequest {
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Code == codeInvalidText {
			return nil, remote.NotFound(collection, id)
		}
		return nil, statusError(resp.StatusCode, body, op+" "+collection)
	}
	docs, err := decodeDocuments(resp, op+" "+collection)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, remote.NotFound(collection, id)
	}
	return docs[0], nil
}

// statusError maps a failed response onto the remote error taxonomy.
func statusError(status int, body []byte, op string) error {
	var apiErr apiError
	_ = json.Unmarshal(body, &apiErr)
	msg := apiErr.Message
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	switch {
	case status == http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, remote.ErrNotFound)
	case status == http.StatusBadRequest, status == http.StatusConflict, status == http.StatusUnprocessableEntity:
		return &models.ValidationError{Message: msg}
	}
	return remote.Transport(op, fmt.Errorf("status=%d, body=%s", status, msg))
}

// normalize turns numeric ids and foreign keys into strings and parses
// created_at so records decode into the models' string ids.
func normalize(d remote.Document) {
	for k, v := range d {
		if k == remote.FieldID || strings.HasSuffix(k, "_id") {
			if n, ok := v.(float64); ok {
				d[k] = strconv.FormatFloat(n, 'f', -1, 64)
			}
		}
	}
	if s, ok := d[remote.FieldCreatedAt].(string); ok {
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				d[remote.FieldCreatedAt] = t
				break
			}
		}
	}
}

// timestamptz renders as RFC 3339; plain timestamp columns carry no zone.
var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05.999999999"}
