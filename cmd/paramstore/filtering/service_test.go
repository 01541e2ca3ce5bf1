package filtering

import (
	"testing"

	"github.com/opsline/paramstore/models/param"
	"github.com/opsline/paramstore/util"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *FilterService {
	t.Helper()
	return NewFilterService(zerolog.Nop())
}

func mustFilter(t *testing.T, key string, option *string, values *[]string) *param.ParameterStringFilter {
	t.Helper()
	filter, err := param.NewParameterStringFilter(param.ParameterStringFilterConfig{
		Key:    &key,
		Option: option,
		Values: values,
	})
	require.NoError(t, err)
	return filter
}

func TestValidateFilterDescribe(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name      string
		key       string
		option    *string
		valid     bool
		errorType string
	}{
		{name: "name equals", key: "Name", option: util.StringPtr("Equals"), valid: true},
		{name: "name begins-with", key: "Name", option: util.StringPtr("BeginsWith"), valid: true},
		{name: "name contains", key: "Name", option: util.StringPtr("Contains"), valid: true},
		{name: "name defaults to equals", key: "Name", valid: true},
		{name: "path recursive", key: "Path", option: util.StringPtr("Recursive"), valid: true},
		{name: "path one-level", key: "Path", option: util.StringPtr("OneLevel"), valid: true},
		{name: "path without option rejected", key: "Path", valid: false, errorType: "unsupported-option"},
		{name: "type begins-with rejected", key: "Type", option: util.StringPtr("BeginsWith"), valid: false, errorType: "unsupported-option"},
		{name: "tag filter", key: "Tag:env", option: util.StringPtr("Equals"), valid: true},
		{name: "unknown key", key: "Owner", valid: false, errorType: "unknown-key"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			validation := svc.ValidateFilter(OperationDescribeParameters, mustFilter(t, tc.key, tc.option, nil))
			assert.Equal(t, tc.valid, validation.IsValid)
			assert.Equal(t, tc.errorType, validation.ErrorType)
		})
	}
}

func TestValidateFilterGetByPath(t *testing.T) {
	svc := newTestService(t)

	valid := svc.ValidateFilter(OperationGetParametersByPath, mustFilter(t, "Label", util.StringPtr("Equals"), nil))
	assert.True(t, valid.IsValid)

	// Name and Path clauses belong to describe, not get-by-path.
	invalid := svc.ValidateFilter(OperationGetParametersByPath, mustFilter(t, "Name", util.StringPtr("Equals"), nil))
	assert.False(t, invalid.IsValid)
	assert.Equal(t, "unknown-key", invalid.ErrorType)

	invalid = svc.ValidateFilter(OperationGetParametersByPath, mustFilter(t, "Path", util.StringPtr("Recursive"), nil))
	assert.False(t, invalid.IsValid)
}

func TestAllowedOptions(t *testing.T) {
	svc := newTestService(t)

	assert.ElementsMatch(t, []string{"Equals", "BeginsWith", "Contains"},
		svc.AllowedOptions(OperationDescribeParameters, "Name"))
	assert.ElementsMatch(t, []string{"Equals"},
		svc.AllowedOptions(OperationDescribeParameters, "Tag:team"))
	assert.Nil(t, svc.AllowedOptions(OperationGetParametersByPath, "Path"))
}
