package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opencatalog/schemabridge/internal/errors"
)

// listPageLimit is the page size requested from the group listing endpoint.
const listPageLimit = 100

// restClient speaks the registry's REST surface under /v1. It performs no
// retries; transient failures propagate as retryable registry errors and
// retry policy stays with the caller.
type restClient struct {
	baseURL   string
	namespace string
	http      *http.Client
	log       *zap.Logger
}

// do issues one registry request. body (when non-nil) is sent as JSON and
// out (when non-nil) receives the decoded response. Transport failures map
// to UNREACHABLE, HTTP 404 to NOT_FOUND, and other non-2xx statuses to
// REQUEST_FAILED.
func (c *restClient) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	if query == nil {
		query = url.Values{}
	}
	if c.namespace != "" {
		query.Set("namespace", c.namespace)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.NewInternalError("failed to encode request body", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return errors.NewInternalError("failed to build registry request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("registry request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return errors.NewRegistryError(errors.CodeUnreachable,
			fmt.Sprintf("cannot reach registry at %s", c.baseURL), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errors.NewRegistryError(errors.CodeNotFound,
			fmt.Sprintf("%s %s returned 404", method, path), nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.NewRegistryError(errors.CodeRequestFailed,
			fmt.Sprintf("%s %s returned %d: %s", method, path, resp.StatusCode, snippet), nil)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.NewRegistryError(errors.CodeRequestFailed,
				fmt.Sprintf("%s %s returned an unreadable body", method, path), err)
		}
	}
	return nil
}

func (c *restClient) CreateGroup(ctx context.Context, name string, props GroupProperties) error {
	body := struct {
		GroupName       string          `json:"groupName"`
		GroupProperties GroupProperties `json:"groupProperties"`
	}{GroupName: name, GroupProperties: props}
	return c.do(ctx, http.MethodPost, "/v1/groups", nil, body, nil)
}

func (c *restClient) RemoveGroup(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/v1/groups/"+url.PathEscape(name), nil, nil, nil)
}

// groupPage is one page of the group listing response.
type groupPage struct {
	Groups            map[string]GroupProperties `json:"groups"`
	ContinuationToken string                     `json:"continuationToken"`
}

// restGroupIterator pages through the group listing lazily. The first
// request only happens on the first Next, so an unreachable registry
// surfaces as an iteration error, not a listing error.
type restGroupIterator struct {
	c     *restClient
	buf   []Group
	token string
	done  bool
}

func (it *restGroupIterator) Next(ctx context.Context) (Group, error) {
	for len(it.buf) == 0 {
		if it.done {
			return Group{}, Done
		}
		if err := it.fetchPage(ctx); err != nil {
			it.done = true
			return Group{}, err
		}
	}
	g := it.buf[0]
	it.buf = it.buf[1:]
	return g, nil
}

func (it *restGroupIterator) fetchPage(ctx context.Context) error {
	query := url.Values{}
	query.Set("limit", fmt.Sprintf("%d", listPageLimit))
	if it.token != "" {
		query.Set("continuationToken", it.token)
	}

	var page groupPage
	if err := it.c.do(ctx, http.MethodGet, "/v1/groups", query, nil, &page); err != nil {
		return err
	}

	// The registry reports groups as an object; sort names so listing
	// order is stable across calls.
	names := make([]string, 0, len(page.Groups))
	for name := range page.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		it.buf = append(it.buf, Group{Name: name, Properties: page.Groups[name]})
	}

	it.token = page.ContinuationToken
	if len(page.Groups) == 0 || page.ContinuationToken == "" {
		it.done = true
	}
	return nil
}

func (c *restClient) ListGroups(ctx context.Context) GroupIterator {
	return &restGroupIterator{c: c}
}

func (c *restClient) GetSchemas(ctx context.Context, group string) ([]SchemaWithVersion, error) {
	var out struct {
		Schemas []SchemaWithVersion `json:"schemas"`
	}
	path := "/v1/groups/" + url.PathEscape(group) + "/schemas"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Schemas, nil
}

func (c *restClient) AddSchema(ctx context.Context, group string, info SchemaInfo) (VersionInfo, error) {
	var version VersionInfo
	path := "/v1/groups/" + url.PathEscape(group) + "/schemas"
	if err := c.do(ctx, http.MethodPost, path, nil, info, &version); err != nil {
		return VersionInfo{}, err
	}
	return version, nil
}

func (c *restClient) DeleteSchemaVersion(ctx context.Context, group string, version VersionInfo) error {
	path := fmt.Sprintf("/v1/groups/%s/schemas/%s/versions/%d",
		url.PathEscape(group), url.PathEscape(version.Type), version.Version)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *restClient) GetLatestSchemaVersion(ctx context.Context, group, schemaType string) (SchemaWithVersion, error) {
	var out SchemaWithVersion
	path := fmt.Sprintf("/v1/groups/%s/schemas/%s/versions/latest",
		url.PathEscape(group), url.PathEscape(schemaType))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return SchemaWithVersion{}, err
	}
	return out, nil
}
