package param

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when a filter is constructed without its
// required fields. Callers check for it with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// Recognized filter keys. Tag filters use the "Tag:<key>" form and are not
// listed here.
const (
	FilterKeyName     = "Name"
	FilterKeyType     = "Type"
	FilterKeyKeyID    = "KeyId"
	FilterKeyPath     = "Path"
	FilterKeyLabel    = "Label"
	FilterKeyTier     = "Tier"
	FilterKeyDataType = "DataType"
)

// Filter comparison options.
const (
	FilterOptionEquals     = "Equals"
	FilterOptionBeginsWith = "BeginsWith"
	FilterOptionContains   = "Contains"
	FilterOptionRecursive  = "Recursive"
	FilterOptionOneLevel   = "OneLevel"
)

// ParameterStringFilterConfig is the raw input for a filter clause. Optional
// fields are pointers so that "not provided" stays distinct from "provided
// empty".
type ParameterStringFilterConfig struct {
	Key    *string   `json:"Key"`
	Option *string   `json:"Option,omitempty"`
	Values *[]string `json:"Values,omitempty"`
}

// ParameterStringFilter is one filter clause of a describe-parameters or
// get-parameters-by-path request. It is immutable once constructed; which
// key/option combinations are accepted depends on the operation and is
// enforced server side, not here.
type ParameterStringFilter struct {
	key    string
	option *string
	values *[]string
}

// NewParameterStringFilter validates the config and builds a filter. The only
// local validation is that Key must be present and non-empty; everything else
// is copied as-is, preserving the absent-vs-empty distinction on Values.
func NewParameterStringFilter(cfg ParameterStringFilterConfig) (*ParameterStringFilter, error) {
	if cfg.Key == nil || *cfg.Key == "" {
		return nil, fmt.Errorf("%w: missing required field Key", ErrInvalidArgument)
	}

	f := &ParameterStringFilter{key: *cfg.Key}

	if cfg.Option != nil {
		option := *cfg.Option
		f.option = &option
	}

	if cfg.Values != nil {
		values := make([]string, len(*cfg.Values))
		copy(values, *cfg.Values)
		f.values = &values
	}

	return f, nil
}

// CreateParameterStringFilter normalizes its input to a filter. An existing
// filter is passed through untouched, a config struct or raw map goes through
// the validating constructor. This lets request builders accept mixed lists
// without re-validating instances they already hold.
func CreateParameterStringFilter(input any) (*ParameterStringFilter, error) {
	switch v := input.(type) {
	case *ParameterStringFilter:
		return v, nil
	case ParameterStringFilter:
		return &v, nil
	case ParameterStringFilterConfig:
		return NewParameterStringFilter(v)
	case *ParameterStringFilterConfig:
		if v == nil {
			return nil, fmt.Errorf("%w: nil filter config", ErrInvalidArgument)
		}
		return NewParameterStringFilter(*v)
	case map[string]any:
		cfg, err := filterConfigFromMap(v)
		if err != nil {
			return nil, err
		}
		return NewParameterStringFilter(cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported filter input type %T", ErrInvalidArgument, input)
	}
}

func filterConfigFromMap(m map[string]any) (ParameterStringFilterConfig, error) {
	var cfg ParameterStringFilterConfig

	if raw, ok := m["Key"]; ok {
		key, ok := raw.(string)
		if !ok {
			return cfg, fmt.Errorf("%w: Key must be a string, got %T", ErrInvalidArgument, raw)
		}
		cfg.Key = &key
	}

	if raw, ok := m["Option"]; ok {
		option, ok := raw.(string)
		if !ok {
			return cfg, fmt.Errorf("%w: Option must be a string, got %T", ErrInvalidArgument, raw)
		}
		cfg.Option = &option
	}

	if raw, ok := m["Values"]; ok {
		switch vs := raw.(type) {
		case []string:
			values := make([]string, len(vs))
			copy(values, vs)
			cfg.Values = &values
		case []any:
			values := make([]string, 0, len(vs))
			for _, item := range vs {
				s, ok := item.(string)
				if !ok {
					return cfg, fmt.Errorf("%w: Values must contain strings, got %T", ErrInvalidArgument, item)
				}
				values = append(values, s)
			}
			cfg.Values = &values
		default:
			return cfg, fmt.Errorf("%w: Values must be a string list, got %T", ErrInvalidArgument, raw)
		}
	}

	return cfg, nil
}

// GetKey returns the filter dimension.
func (f *ParameterStringFilter) GetKey() string {
	return f.key
}

// GetOption returns the comparison option, or nil when none was set.
func (f *ParameterStringFilter) GetOption() *string {
	if f.option == nil {
		return nil
	}
	option := *f.option
	return &option
}

// GetValues returns the filter values. An unset Values collapses to an empty
// slice here for caller convenience; the internal state and RequestBody keep
// absent and empty apart.
func (f *ParameterStringFilter) GetValues() []string {
	if f.values == nil {
		return []string{}
	}
	values := make([]string, len(*f.values))
	copy(values, *f.values)
	return values
}

// ParameterStringFilterBody is the wire fragment a filter contributes to a
// request document.
type ParameterStringFilterBody struct {
	Key    string    `json:"Key"`
	Option *string   `json:"Option,omitempty"`
	Values *[]string `json:"Values,omitempty"`
}

// RequestBody produces the wire fragment. Key is always emitted, Option and
// Values only when they were set at construction. A Values that was set to an
// empty list is emitted as [], which is not the same as omitting it.
func (f *ParameterStringFilter) RequestBody() ParameterStringFilterBody {
	body := ParameterStringFilterBody{Key: f.key}

	if f.option != nil {
		option := *f.option
		body.Option = &option
	}

	if f.values != nil {
		values := make([]string, len(*f.values))
		copy(values, *f.values)
		body.Values = &values
	}

	return body
}

// MarshalJSON serializes the filter via its request body, so filters embed
// directly into request documents.
func (f *ParameterStringFilter) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.RequestBody())
}

// UnmarshalJSON builds a filter from its wire form, applying the same
// validation as the constructor.
func (f *ParameterStringFilter) UnmarshalJSON(data []byte) error {
	var cfg ParameterStringFilterConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse parameter filter: %w", err)
	}

	parsed, err := NewParameterStringFilter(cfg)
	if err != nil {
		return err
	}

	*f = *parsed
	return nil
}
