package results

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/opsline/paramstore/models/param"
)

// DefaultPageSize applies when a request carries no MaxResults.
const DefaultPageSize = 10

// MaxPageSize caps MaxResults to keep responses bounded.
const MaxPageSize = 50

type pageToken struct {
	Offset int `json:"Offset"`
}

// EncodeNextToken produces the opaque continuation token for an offset.
func EncodeNextToken(offset int) string {
	data, _ := json.Marshal(pageToken{Offset: offset})
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeNextToken parses a continuation token back into an offset. An empty
// token means the first page.
func DecodeNextToken(token string) (int, error) {
	if token == "" {
		return 0, nil
	}

	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("malformed next token: %w", err)
	}

	var decoded pageToken
	if err := json.Unmarshal(data, &decoded); err != nil {
		return 0, fmt.Errorf("malformed next token: %w", err)
	}
	if decoded.Offset < 0 {
		return 0, fmt.Errorf("malformed next token: negative offset")
	}

	return decoded.Offset, nil
}

// Page slices one page out of a full result set and returns the continuation
// token for the next page, or "" when the set is exhausted.
func Page(parameters []*param.Parameter, maxResults int, nextToken string) ([]*param.Parameter, string, error) {
	offset, err := DecodeNextToken(nextToken)
	if err != nil {
		return nil, "", err
	}

	pageSize := maxResults
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	if offset >= len(parameters) {
		return []*param.Parameter{}, "", nil
	}

	end := offset + pageSize
	if end > len(parameters) {
		end = len(parameters)
	}

	var token string
	if end < len(parameters) {
		token = EncodeNextToken(end)
	}

	return parameters[offset:end], token, nil
}
