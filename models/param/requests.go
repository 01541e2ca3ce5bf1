package param

// DescribeParametersRequest lists parameter metadata matching a set of filter
// clauses.
type DescribeParametersRequest struct {
	ParameterFilters []*ParameterStringFilter `json:"ParameterFilters,omitempty"`
	MaxResults       int                      `json:"MaxResults,omitempty"`
	NextToken        string                   `json:"NextToken,omitempty"`
}

// DescribeParametersResponse is the paged result of a describe request.
// NextToken is set when more results are available.
type DescribeParametersResponse struct {
	Parameters []ParameterMetadata `json:"Parameters"`
	NextToken  string              `json:"NextToken,omitempty"`
	Issues     []Issue             `json:"Issues,omitempty"`
}

// GetParametersByPathRequest retrieves full parameter records under a
// hierarchy path. Filters here are restricted server side to a smaller set of
// keys than describe accepts.
type GetParametersByPathRequest struct {
	Path             string                   `json:"Path"`
	Recursive        bool                     `json:"Recursive,omitempty"`
	ParameterFilters []*ParameterStringFilter `json:"ParameterFilters,omitempty"`
	WithDecryption   bool                     `json:"WithDecryption,omitempty"`
	MaxResults       int                      `json:"MaxResults,omitempty"`
	NextToken        string                   `json:"NextToken,omitempty"`
}

// GetParametersByPathResponse is the paged result of a by-path request.
type GetParametersByPathResponse struct {
	Parameters []Parameter `json:"Parameters"`
	NextToken  string      `json:"NextToken,omitempty"`
	Issues     []Issue     `json:"Issues,omitempty"`
}

// Issue reports a problem with a request, in the response envelope.
type Issue struct {
	Severity string `json:"Severity"`
	Code     string `json:"Code"`
	Details  string `json:"Details"`
}

// NormalizeFilters accepts a mixed list of filter inputs (constructed
// instances, config structs, raw maps) and normalizes each entry through
// CreateParameterStringFilter. The first invalid entry aborts the whole
// normalization.
func NormalizeFilters(inputs []any) ([]*ParameterStringFilter, error) {
	if inputs == nil {
		return nil, nil
	}

	filters := make([]*ParameterStringFilter, 0, len(inputs))
	for _, input := range inputs {
		filter, err := CreateParameterStringFilter(input)
		if err != nil {
			return nil, err
		}
		filters = append(filters, filter)
	}
	return filters, nil
}
