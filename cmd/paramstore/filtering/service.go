package filtering

import (
	"strings"

	"github.com/opsline/paramstore/models/param"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

// NewFilterService creates a new filter service with the option index built
// for both list operations.
func NewFilterService(log zerolog.Logger) *FilterService {
	svc := &FilterService{
		log:         log,
		optionIndex: make(map[Operation]map[string][]string),
	}
	svc.buildOptionIndex()
	return svc
}

// buildOptionIndex populates the per-operation table of allowed options per
// filter key. Tag filters ("Tag:<key>") are indexed under the bare "Tag"
// entry.
func (svc *FilterService) buildOptionIndex() {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	svc.optionIndex[OperationDescribeParameters] = map[string][]string{
		param.FilterKeyName:     {param.FilterOptionEquals, param.FilterOptionBeginsWith, param.FilterOptionContains},
		param.FilterKeyType:     {param.FilterOptionEquals},
		param.FilterKeyKeyID:    {param.FilterOptionEquals},
		param.FilterKeyPath:     {param.FilterOptionRecursive, param.FilterOptionOneLevel},
		param.FilterKeyLabel:    {param.FilterOptionEquals},
		param.FilterKeyTier:     {param.FilterOptionEquals},
		param.FilterKeyDataType: {param.FilterOptionEquals},
		"Tag":                   {param.FilterOptionEquals},
	}

	svc.optionIndex[OperationGetParametersByPath] = map[string][]string{
		param.FilterKeyType:     {param.FilterOptionEquals},
		param.FilterKeyKeyID:    {param.FilterOptionEquals},
		param.FilterKeyLabel:    {param.FilterOptionEquals},
		param.FilterKeyTier:     {param.FilterOptionEquals},
		param.FilterKeyDataType: {param.FilterOptionEquals},
	}

	svc.log.Debug().
		Int("describe_keys", len(svc.optionIndex[OperationDescribeParameters])).
		Int("by_path_keys", len(svc.optionIndex[OperationGetParametersByPath])).
		Msg("Built filter option index")
}

// ValidateFilter checks one filter clause against the option table for the
// given operation. The value object itself never rejects key/option
// combinations; that enforcement happens here, on the service side.
func (svc *FilterService) ValidateFilter(op Operation, filter *param.ParameterStringFilter) *FilterValidation {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	validation := &FilterValidation{
		Key:    filter.GetKey(),
		Option: effectiveOption(filter),
	}

	keys, exists := svc.optionIndex[op]
	if !exists {
		validation.ErrorType = "unknown-operation"
		return validation
	}

	indexKey := validation.Key
	if strings.HasPrefix(indexKey, "Tag:") {
		indexKey = "Tag"
	}

	allowed, exists := keys[indexKey]
	if !exists {
		svc.log.Debug().
			Str("operation", string(op)).
			Str("key", validation.Key).
			Msg("Filter key not supported for operation")
		validation.ErrorType = "unknown-key"
		return validation
	}

	if !slices.Contains(allowed, validation.Option) {
		svc.log.Debug().
			Str("operation", string(op)).
			Str("key", validation.Key).
			Str("option", validation.Option).
			Msg("Filter option not supported for key")
		validation.ErrorType = "unsupported-option"
		return validation
	}

	validation.IsValid = true
	return validation
}

// AllowedOptions returns the options accepted for a key under an operation,
// or nil when the key is not accepted at all.
func (svc *FilterService) AllowedOptions(op Operation, key string) []string {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	keys, exists := svc.optionIndex[op]
	if !exists {
		return nil
	}

	if strings.HasPrefix(key, "Tag:") {
		key = "Tag"
	}

	allowed, exists := keys[key]
	if !exists {
		return nil
	}

	result := make([]string, len(allowed))
	copy(result, allowed)
	return result
}

// effectiveOption applies the Equals default for clauses constructed without
// an option.
func effectiveOption(filter *param.ParameterStringFilter) string {
	if option := filter.GetOption(); option != nil {
		return *option
	}
	return param.FilterOptionEquals
}
