package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/opsline/paramstore/cmd/paramstore/filtering"
	"github.com/opsline/paramstore/cmd/paramstore/results"
	"github.com/opsline/paramstore/models/param"
	"github.com/rs/zerolog"
)

// ParameterReader is the slice of the datasource the router needs.
type ParameterReader interface {
	ReadParameters() ([]*param.Parameter, error)
	ReadParameter(name string) (*param.Parameter, error)
}

// ParamRouter wires the list operations to the filter engine, the datasource
// and the result cache.
type ParamRouter struct {
	filterService *filtering.FilterService
	dataSource    ParameterReader
	resultCache   *results.ResultCache
	apiToken      string
	log           zerolog.Logger
}

func NewParamRouter(
	filterService *filtering.FilterService,
	dataSource ParameterReader,
	apiToken string,
	log zerolog.Logger,
) *ParamRouter {
	cacheConfig := results.DefaultCacheConfig()

	return &ParamRouter{
		filterService: filterService,
		dataSource:    dataSource,
		resultCache:   results.NewResultCache(*cacheConfig, log),
		apiToken:      apiToken,
		log:           log,
	}
}

func (pr *ParamRouter) SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if pr.apiToken != "" {
		r.Use(pr.requireToken)
	}

	r.Route("/v1/parameters", func(r chi.Router) {
		r.Post("/describe", pr.handleDescribeParameters)
		r.Post("/get-by-path", pr.handleGetParametersByPath)
		r.Get("/", pr.handleGetParameter)
	})

	return r
}

// requireToken rejects requests whose X-Auth-Token does not match the
// configured API token.
func (pr *ParamRouter) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Auth-Token") != pr.apiToken {
			pr.log.Warn().Str("path", r.URL.Path).Msg("Rejected request with bad token")
			respondWithJSON(w, http.StatusUnauthorized, map[string]any{
				"Issues": []param.Issue{NewInvalidParameterIssue("Missing or invalid auth token")},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (pr *ParamRouter) handleDescribeParameters(w http.ResponseWriter, r *http.Request) {
	var req param.DescribeParametersRequest
	if issue, ok := decodeRequest(r.Body, &req); !ok {
		respondWithJSON(w, http.StatusBadRequest, param.DescribeParametersResponse{
			Parameters: []param.ParameterMetadata{},
			Issues:     []param.Issue{issue},
		})
		return
	}

	// Validate each filter clause against the describe option table. The
	// clauses themselves only guarantee a non-empty Key; everything else is
	// this service's job.
	var issues []param.Issue
	for _, filter := range req.ParameterFilters {
		validation := pr.filterService.ValidateFilter(filtering.OperationDescribeParameters, filter)
		if !validation.IsValid {
			issues = append(issues, issueFromValidation(validation))
		}
	}
	if len(issues) > 0 {
		respondWithJSON(w, http.StatusBadRequest, param.DescribeParametersResponse{
			Parameters: []param.ParameterMetadata{},
			Issues:     issues,
		})
		return
	}

	cacheKey := results.CacheKey(string(filtering.OperationDescribeParameters), canonicalQuery(req.ParameterFilters, ""))

	matched, err := pr.resolveResultSet(cacheKey, req.ParameterFilters, nil)
	if err != nil {
		pr.log.Error().Err(err).Msg("Failed to resolve describe-parameters result set")
		respondWithJSON(w, http.StatusInternalServerError, param.DescribeParametersResponse{
			Parameters: []param.ParameterMetadata{},
			Issues:     []param.Issue{NewProcessingIssue(err.Error())},
		})
		return
	}

	page, nextToken, err := results.Page(matched, req.MaxResults, req.NextToken)
	if err != nil {
		respondWithJSON(w, http.StatusBadRequest, param.DescribeParametersResponse{
			Parameters: []param.ParameterMetadata{},
			Issues:     []param.Issue{NewInvalidParameterIssue(err.Error())},
		})
		return
	}

	response := param.DescribeParametersResponse{
		Parameters: make([]param.ParameterMetadata, 0, len(page)),
		NextToken:  nextToken,
	}
	for _, p := range page {
		response.Parameters = append(response.Parameters, p.Metadata())
	}

	respondWithJSON(w, http.StatusOK, response)
}

func (pr *ParamRouter) handleGetParametersByPath(w http.ResponseWriter, r *http.Request) {
	var req param.GetParametersByPathRequest
	if issue, ok := decodeRequest(r.Body, &req); !ok {
		respondWithJSON(w, http.StatusBadRequest, param.GetParametersByPathResponse{
			Parameters: []param.Parameter{},
			Issues:     []param.Issue{issue},
		})
		return
	}

	if req.Path == "" {
		respondWithJSON(w, http.StatusBadRequest, param.GetParametersByPathResponse{
			Parameters: []param.Parameter{},
			Issues:     []param.Issue{NewInvalidParameterIssue("Path is required")},
		})
		return
	}

	var issues []param.Issue
	for _, filter := range req.ParameterFilters {
		validation := pr.filterService.ValidateFilter(filtering.OperationGetParametersByPath, filter)
		if !validation.IsValid {
			issues = append(issues, issueFromValidation(validation))
		}
	}
	if len(issues) > 0 {
		respondWithJSON(w, http.StatusBadRequest, param.GetParametersByPathResponse{
			Parameters: []param.Parameter{},
			Issues:     issues,
		})
		return
	}

	// The hierarchy constraint is part of the result set identity, so it goes
	// into the cache key alongside the filters.
	pathQuery := fmt.Sprintf("%s|recursive=%t", req.Path, req.Recursive)
	cacheKey := results.CacheKey(string(filtering.OperationGetParametersByPath), canonicalQuery(req.ParameterFilters, pathQuery))

	matchPath := func(p *param.Parameter) bool {
		if req.Recursive {
			return filtering.MatchesPathRecursive(p.Name, req.Path)
		}
		return filtering.MatchesPathOneLevel(p.Name, req.Path)
	}

	matched, err := pr.resolveResultSet(cacheKey, req.ParameterFilters, matchPath)
	if err != nil {
		pr.log.Error().Err(err).Msg("Failed to resolve get-parameters-by-path result set")
		respondWithJSON(w, http.StatusInternalServerError, param.GetParametersByPathResponse{
			Parameters: []param.Parameter{},
			Issues:     []param.Issue{NewProcessingIssue(err.Error())},
		})
		return
	}

	page, nextToken, err := results.Page(matched, req.MaxResults, req.NextToken)
	if err != nil {
		respondWithJSON(w, http.StatusBadRequest, param.GetParametersByPathResponse{
			Parameters: []param.Parameter{},
			Issues:     []param.Issue{NewInvalidParameterIssue(err.Error())},
		})
		return
	}

	response := param.GetParametersByPathResponse{
		Parameters: make([]param.Parameter, 0, len(page)),
		NextToken:  nextToken,
	}
	for _, p := range page {
		response.Parameters = append(response.Parameters, *p)
	}

	respondWithJSON(w, http.StatusOK, response)
}

func (pr *ParamRouter) handleGetParameter(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		respondWithJSON(w, http.StatusBadRequest, map[string]any{
			"Issues": []param.Issue{NewInvalidParameterIssue("name query parameter is required")},
		})
		return
	}

	parameter, err := pr.dataSource.ReadParameter(name)
	if err != nil {
		respondWithJSON(w, http.StatusNotFound, map[string]any{
			"Issues": []param.Issue{NewNotFoundIssue(fmt.Sprintf("No parameter named %s", name))},
		})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{"Parameter": parameter})
}

// resolveResultSet serves the full filtered set from cache, or reads the
// store and filters it. pathMatch is an extra predicate for the by-path
// hierarchy and may be nil.
func (pr *ParamRouter) resolveResultSet(
	cacheKey string,
	filters []*param.ParameterStringFilter,
	pathMatch func(*param.Parameter) bool,
) ([]*param.Parameter, error) {
	if resultSet, found := pr.resultCache.GetResultSet(cacheKey); found {
		pr.log.Debug().Str("key", cacheKey).Msg("Serving result set from cache")
		return resultSet.Parameters, nil
	}

	all, err := pr.dataSource.ReadParameters()
	if err != nil {
		return nil, fmt.Errorf("failed to read parameters: %w", err)
	}

	matched := make([]*param.Parameter, 0, len(all))
	for _, p := range all {
		if pathMatch != nil && !pathMatch(p) {
			continue
		}
		ok, err := pr.filterService.MatchAll(p, filters)
		if err != nil {
			return nil, fmt.Errorf("error applying filters: %w", err)
		}
		if ok {
			matched = append(matched, p)
		}
	}

	pr.resultCache.StoreResultSet(cacheKey, matched)
	return matched, nil
}

// decodeRequest parses a JSON request body. An empty body is treated as an
// empty request; a construction failure inside a filter clause surfaces as an
// invalid-argument issue.
func decodeRequest(body io.Reader, target any) (param.Issue, bool) {
	if err := json.NewDecoder(body).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return param.Issue{}, true
		}
		if errors.Is(err, param.ErrInvalidArgument) {
			return NewInvalidParameterIssue(err.Error()), false
		}
		return NewInvalidParameterIssue(fmt.Sprintf("Malformed request body: %v", err)), false
	}
	return param.Issue{}, true
}

// canonicalQuery builds the canonical representation of a filter list (plus
// any extra constraint) for cache keying.
func canonicalQuery(filters []*param.ParameterStringFilter, extra string) string {
	data, err := json.Marshal(filters)
	if err != nil {
		return extra
	}
	return string(data) + "|" + extra
}

func respondWithJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
