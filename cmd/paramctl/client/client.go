package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/opsline/paramstore/cmd/paramctl/internal/utils"
	"github.com/opsline/paramstore/models/param"
)

type ParamStoreApiClient struct {
	BaseURI    string
	HTTPClient *http.Client
	token      string
}

func NewParamStoreApiClient() *ParamStoreApiClient {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.HTTPClient = &http.Client{
		Timeout: 60 * time.Second,
	}
	retryClient.Logger = nil

	return &ParamStoreApiClient{
		BaseURI:    os.Getenv("PARAMSTORE_API_URL"),
		HTTPClient: retryClient.StandardClient(),
	}
}

func (c *ParamStoreApiClient) SetToken(token string) {
	if token == "" {
		return
	}
	c.token = token
}

// DescribeParameters lists parameter metadata matching the request's filter
// clauses. Filters are serialized through their request-body contract, so
// absent Option/Values are omitted from the payload.
func (c *ParamStoreApiClient) DescribeParameters(req *param.DescribeParametersRequest) (*param.DescribeParametersResponse, error) {
	resp := new(param.DescribeParametersResponse)
	if err := c.post("/v1/parameters/describe", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// DescribeParametersPages calls fn for each result page, following
// NextToken until the result set is exhausted or fn returns false.
func (c *ParamStoreApiClient) DescribeParametersPages(req *param.DescribeParametersRequest, fn func(*param.DescribeParametersResponse) bool) error {
	page := *req
	for {
		resp, err := c.DescribeParameters(&page)
		if err != nil {
			return err
		}
		if !fn(resp) || resp.NextToken == "" {
			return nil
		}
		page.NextToken = resp.NextToken
	}
}

// GetParametersByPath retrieves full parameter records under a hierarchy
// path.
func (c *ParamStoreApiClient) GetParametersByPath(req *param.GetParametersByPathRequest) (*param.GetParametersByPathResponse, error) {
	resp := new(param.GetParametersByPathResponse)
	if err := c.post("/v1/parameters/get-by-path", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetParametersByPathPages calls fn for each result page, following
// NextToken until the result set is exhausted or fn returns false.
func (c *ParamStoreApiClient) GetParametersByPathPages(req *param.GetParametersByPathRequest, fn func(*param.GetParametersByPathResponse) bool) error {
	page := *req
	for {
		resp, err := c.GetParametersByPath(&page)
		if err != nil {
			return err
		}
		if !fn(resp) || resp.NextToken == "" {
			return nil
		}
		page.NextToken = resp.NextToken
	}
}

// GetParameter fetches a single parameter by name.
func (c *ParamStoreApiClient) GetParameter(name string, queryParams any) (*param.Parameter, error) {
	var validParams = []string{"label", "version"}

	if name == "" {
		return nil, fmt.Errorf("parameter name is required")
	}
	endpoint := "/v1/parameters/?name=" + url.QueryEscape(name)

	query, err := utils.ParseQueryParams(queryParams, validParams)
	if err != nil {
		return nil, err
	}
	if query != "" {
		endpoint += "&" + query
	}

	resp := new(struct {
		Parameter param.Parameter `json:"Parameter"`
	})
	if err := c.get(endpoint, resp); err != nil {
		return nil, err
	}
	return &resp.Parameter, nil
}

// HTTP helper methods
func (c *ParamStoreApiClient) get(endpoint string, response any) error {
	return c.do(http.MethodGet, endpoint, nil, response)
}

func (c *ParamStoreApiClient) post(endpoint string, body, response any) error {
	return c.do(http.MethodPost, endpoint, body, response)
}

func (c *ParamStoreApiClient) do(method, endpoint string, body, response any) error {
	req, err := c.prepareRequest(method, endpoint, body)
	if err != nil {
		return err
	}
	c.signRequest(req)
	return c.sendRequest(req, response)
}

func (c *ParamStoreApiClient) prepareRequest(method, endpoint string, body any) (*http.Request, error) {
	uri := c.BaseURI + endpoint

	var bodyReader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(b)
	} else {
		bodyReader = bytes.NewReader([]byte{})
	}

	req, err := http.NewRequest(method, uri, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json; charset=utf-8")
	return req, nil
}

func (c *ParamStoreApiClient) signRequest(req *http.Request) {
	if c.token != "" {
		req.Header.Set("X-Auth-Token", c.token)
	}
}

func (c *ParamStoreApiClient) sendRequest(req *http.Request, response any) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	log.Default().Printf("Response Status: %s for %s", resp.Status, req.URL.String())

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server returned error status %d: %s\nBody: %s",
			resp.StatusCode, resp.Status, string(bodyBytes))
	}

	if response != nil {
		if err := json.Unmarshal(bodyBytes, response); err != nil {
			return fmt.Errorf("failed to parse response JSON: %w\nBody: %s", err, string(bodyBytes))
		}
	}

	return nil
}
