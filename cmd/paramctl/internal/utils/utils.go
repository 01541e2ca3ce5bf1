package utils

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// ParseQueryParams converts a map of query parameters to a URL query string
func ParseQueryParams(queryParams any, validParams []string) (string, error) {
	switch q := queryParams.(type) {
	case map[string]string:
		var query string
		for k, v := range q {
			if !validQueryParam(k, validParams) {
				return "", fmt.Errorf("invalid query parameter %q", k)
			}
			query += k + "=" + v + "&"
		}
		return strings.TrimSuffix(query, "&"), nil
	}
	return "", nil
}

// validQueryParam checks if a parameter is in the list of valid parameters
func validQueryParam(param string, validParams []string) bool {
	return slices.Contains(validParams, param)
}
