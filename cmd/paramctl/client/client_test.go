package client

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/opsline/paramstore/models/param"
	"github.com/opsline/paramstore/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(server *httptest.Server) *ParamStoreApiClient {
	c := NewParamStoreApiClient()
	c.BaseURI = server.URL
	return c
}

func TestDescribeParametersRequestBody(t *testing.T) {
	var captured []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/v1/parameters/describe", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		captured = body

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Parameters":[{"Name":"/app/db","Type":"String","Version":1,"LastModifiedDate":"2026-01-02T15:04:05Z"}]}`))
	}))
	defer server.Close()

	filter, err := param.NewParameterStringFilter(param.ParameterStringFilterConfig{
		Key:    util.StringPtr("Tag"),
		Option: util.StringPtr("Equals"),
		Values: util.StringSlicePtr([]string{"env"}),
	})
	require.NoError(t, err)

	c := newTestClient(server)
	resp, err := c.DescribeParameters(&param.DescribeParametersRequest{
		ParameterFilters: []*param.ParameterStringFilter{filter},
		MaxResults:       10,
	})
	require.NoError(t, err)
	require.Len(t, resp.Parameters, 1)
	assert.Equal(t, "/app/db", resp.Parameters[0].Name)

	// The filter fragment must serialize exactly per its request-body
	// contract.
	assert.JSONEq(t,
		`{"ParameterFilters":[{"Key":"Tag","Option":"Equals","Values":["env"]}],"MaxResults":10}`,
		string(captured))
}

func TestDescribeParametersAbsentVsEmptyValues(t *testing.T) {
	var captured []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		captured = body
		w.Write([]byte(`{"Parameters":[]}`))
	}))
	defer server.Close()

	absent, err := param.NewParameterStringFilter(param.ParameterStringFilterConfig{
		Key: util.StringPtr("Name"),
	})
	require.NoError(t, err)

	empty, err := param.NewParameterStringFilter(param.ParameterStringFilterConfig{
		Key:    util.StringPtr("Label"),
		Values: util.StringSlicePtr([]string{}),
	})
	require.NoError(t, err)

	c := newTestClient(server)
	_, err = c.DescribeParameters(&param.DescribeParametersRequest{
		ParameterFilters: []*param.ParameterStringFilter{absent, empty},
	})
	require.NoError(t, err)

	var decoded struct {
		ParameterFilters []map[string]any `json:"ParameterFilters"`
	}
	require.NoError(t, json.Unmarshal(captured, &decoded))
	require.Len(t, decoded.ParameterFilters, 2)

	// Absent Values must be omitted entirely; an explicit empty list must be
	// present as [].
	_, hasValues := decoded.ParameterFilters[0]["Values"]
	assert.False(t, hasValues)

	values, hasValues := decoded.ParameterFilters[1]["Values"]
	require.True(t, hasValues)
	assert.Equal(t, []any{}, values)
}

func TestDescribeParametersPages(t *testing.T) {
	var tokens []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req param.DescribeParametersRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		tokens = append(tokens, req.NextToken)

		if req.NextToken == "" {
			w.Write([]byte(`{"Parameters":[{"Name":"/a","Type":"String","Version":1,"LastModifiedDate":"2026-01-02T15:04:05Z"}],"NextToken":"page-2"}`))
			return
		}
		w.Write([]byte(`{"Parameters":[{"Name":"/b","Type":"String","Version":1,"LastModifiedDate":"2026-01-02T15:04:05Z"}]}`))
	}))
	defer server.Close()

	c := newTestClient(server)

	var names []string
	err := c.DescribeParametersPages(&param.DescribeParametersRequest{}, func(resp *param.DescribeParametersResponse) bool {
		for _, p := range resp.Parameters {
			names = append(names, p.Name)
		}
		return true
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"/a", "/b"}, names)
	assert.Equal(t, []string{"", "page-2"}, tokens)
}

func TestGetParametersByPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/parameters/get-by-path", r.URL.Path)

		var req param.GetParametersByPathRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "/prod", req.Path)
		assert.True(t, req.Recursive)

		w.Write([]byte(`{"Parameters":[{"Name":"/prod/db","Type":"SecureString","Value":"s","Version":2,"LastModifiedDate":"2026-01-02T15:04:05Z"}]}`))
	}))
	defer server.Close()

	c := newTestClient(server)
	resp, err := c.GetParametersByPath(&param.GetParametersByPathRequest{
		Path:      "/prod",
		Recursive: true,
	})
	require.NoError(t, err)
	require.Len(t, resp.Parameters, 1)
	assert.Equal(t, "s", resp.Parameters[0].Value)
}

func TestGetParameter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/prod/db", r.URL.Query().Get("name"))
		assert.Equal(t, "current", r.URL.Query().Get("label"))

		w.Write([]byte(`{"Parameter":{"Name":"/prod/db","Type":"String","Value":"v","Version":1,"LastModifiedDate":"2026-01-02T15:04:05Z"}}`))
	}))
	defer server.Close()

	c := newTestClient(server)
	p, err := c.GetParameter("/prod/db", map[string]string{"label": "current"})
	require.NoError(t, err)
	assert.Equal(t, "v", p.Value)
}

func TestGetParameterRejectsUnknownQueryParam(t *testing.T) {
	c := NewParamStoreApiClient()
	_, err := c.GetParameter("/prod/db", map[string]string{"decrypt": "true"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid query parameter")
}

func TestSignRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "topsecret", r.Header.Get("X-Auth-Token"))
		w.Write([]byte(`{"Parameters":[]}`))
	}))
	defer server.Close()

	c := newTestClient(server)
	c.SetToken("topsecret")
	_, err := c.DescribeParameters(&param.DescribeParametersRequest{})
	require.NoError(t, err)
}

func TestServerErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"Issues":[{"Severity":"error","Code":"invalid","Details":"bad filter"}]}`))
	}))
	defer server.Close()

	c := newTestClient(server)
	_, err := c.DescribeParameters(&param.DescribeParametersRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad filter")
}
