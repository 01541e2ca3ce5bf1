package filtering

import (
	"sync"

	"github.com/rs/zerolog"
)

// Operation identifies which list operation a filter is validated against.
// The two operations accept different key/option combinations.
type Operation string

const (
	OperationDescribeParameters  Operation = "DescribeParameters"
	OperationGetParametersByPath Operation = "GetParametersByPath"
)

// FilterValidation is the outcome of validating one filter clause against an
// operation.
type FilterValidation struct {
	Key       string // The filter key (e.g. "Name", "Path", "Tag:env")
	Option    string // The effective option after defaulting
	IsValid   bool   // Whether the clause is accepted for the operation
	ErrorType string // Type of error if invalid (e.g. "unknown-key", "unsupported-option")
}

// FilterService validates filter clauses per operation and matches them
// against parameter records.
type FilterService struct {
	log         zerolog.Logger
	optionIndex map[Operation]map[string][]string
	mu          sync.RWMutex
}
