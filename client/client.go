// Package client talks to the quick-contract REST API. Client implements
// store.Store, so the CLI and the service package work the same against a
// remote server as against a local store.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mbolis/quick-contract/model"
	"github.com/mbolis/quick-contract/store"
)

// Error is a non-2xx answer from the server. It unwraps to the sentinel
// error matching its status so callers can use errors.Is as with a local
// store.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%d %s", e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return model.ErrInvalid
	case http.StatusUnprocessableEntity:
		return model.ErrTransition
	case http.StatusNotFound:
		return store.ErrNotFound
	}
	return nil
}

// Tokens is the token pair the server issues on login.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithToken sends token as bearer on every call.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ store.Store = (*Client)(nil)

// Login trades user credentials for tokens and keeps the access token for
// the following calls.
func (c *Client) Login(ctx context.Context, username, password string) (Tokens, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/login", nil)
	if err != nil {
		return Tokens{}, err
	}
	req.SetBasicAuth(username, password)

	var tokens Tokens
	if err = c.send(req, &tokens); err != nil {
		return Tokens{}, err
	}
	c.token = tokens.AccessToken
	return tokens, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

func escape(id string) string {
	return url.PathEscape(id)
}

func (c *Client) ListBlueprints(ctx context.Context) ([]model.Blueprint, error) {
	return c.SearchBlueprints(ctx, "")
}

// SearchBlueprints lists the blueprints whose name or description contains
// query.
func (c *Client) SearchBlueprints(ctx context.Context, query string) ([]model.Blueprint, error) {
	var out struct {
		Blueprints []model.Blueprint `json:"blueprints"`
	}
	path := "/api/blueprints"
	if query != "" {
		path += "?" + url.Values{"q": {query}}.Encode()
	}
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out.Blueprints, err
}

func (c *Client) GetBlueprint(ctx context.Context, id string) (bp model.Blueprint, err error) {
	err = c.do(ctx, http.MethodGet, "/api/blueprints/"+escape(id), nil, &bp)
	return
}

// SaveBlueprint creates bp when it has no id and replaces it otherwise.
func (c *Client) SaveBlueprint(ctx context.Context, bp model.Blueprint) (saved model.Blueprint, err error) {
	if bp.ID == "" {
		err = c.do(ctx, http.MethodPost, "/api/blueprints", bp, &saved)
	} else {
		err = c.do(ctx, http.MethodPut, "/api/blueprints/"+escape(bp.ID), bp, &saved)
	}
	return
}

func (c *Client) DeleteBlueprint(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/blueprints/"+escape(id), nil, nil)
}

// ContractDraft asks the server to materialize blueprint id into an
// unsaved contract.
func (c *Client) ContractDraft(ctx context.Context, blueprintID string) (draft model.Contract, err error) {
	err = c.do(ctx, http.MethodGet, "/api/blueprints/"+escape(blueprintID)+"/contract-draft", nil, &draft)
	return
}

func (c *Client) ListContracts(ctx context.Context) ([]model.Contract, error) {
	return c.SearchContracts(ctx, store.ContractFilter{})
}

// SearchContracts lists the contracts matching f.
func (c *Client) SearchContracts(ctx context.Context, f store.ContractFilter) ([]model.Contract, error) {
	var out struct {
		Contracts []model.Contract `json:"contracts"`
	}
	query := url.Values{}
	if f.Query != "" {
		query.Set("q", f.Query)
	}
	if f.Bucket != "" {
		query.Set("bucket", string(f.Bucket))
	}
	path := "/api/contracts"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out.Contracts, err
}

func (c *Client) GetContract(ctx context.Context, id string) (contract model.Contract, err error) {
	err = c.do(ctx, http.MethodGet, "/api/contracts/"+escape(id), nil, &contract)
	return
}

// SaveContract creates contract when it has no id. Otherwise it updates
// its values, which the server only allows while the contract is created.
func (c *Client) SaveContract(ctx context.Context, contract model.Contract) (saved model.Contract, err error) {
	if contract.ID == "" {
		err = c.do(ctx, http.MethodPost, "/api/contracts", contract, &saved)
	} else {
		err = c.do(ctx, http.MethodPut, "/api/contracts/"+escape(contract.ID), contract, &saved)
	}
	return
}

func (c *Client) UpdateContractStatus(ctx context.Context, id string, status model.Status) (updated model.Contract, err error) {
	body := map[string]model.Status{"status": status}
	err = c.do(ctx, http.MethodPatch, "/api/contracts/"+escape(id)+"/status", body, &updated)
	return
}

// Advance moves contract id to its next status.
func (c *Client) Advance(ctx context.Context, id string) (updated model.Contract, err error) {
	err = c.do(ctx, http.MethodPost, "/api/contracts/"+escape(id)+"/advance", nil, &updated)
	return
}

// Revoke revokes contract id.
func (c *Client) Revoke(ctx context.Context, id string) (updated model.Contract, err error) {
	err = c.do(ctx, http.MethodPost, "/api/contracts/"+escape(id)+"/revoke", nil, &updated)
	return
}

func (c *Client) DeleteContract(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/contracts/"+escape(id), nil, nil)
}
