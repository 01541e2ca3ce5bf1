package filtering

import (
	"fmt"
	"strings"

	"github.com/opsline/paramstore/models/param"
	"golang.org/x/exp/slices"
)

// MatchParameter reports whether a parameter satisfies one filter clause.
// A clause with multiple values matches when any value matches. The clause
// must already have passed ValidateFilter for the operation in play.
func (svc *FilterService) MatchParameter(p *param.Parameter, filter *param.ParameterStringFilter) (bool, error) {
	key := filter.GetKey()
	option := effectiveOption(filter)
	values := filter.GetValues()

	if strings.HasPrefix(key, "Tag:") {
		return svc.matchTagFilter(p, strings.TrimPrefix(key, "Tag:"), values), nil
	}

	switch key {
	case param.FilterKeyName:
		return matchStringFilter(p.Name, option, values)
	case param.FilterKeyType:
		return matchStringFilter(string(p.Type), option, values)
	case param.FilterKeyKeyID:
		return matchStringFilter(p.KeyID, option, values)
	case param.FilterKeyPath:
		return matchPathFilter(p.Name, option, values)
	case param.FilterKeyLabel:
		return matchLabelFilter(p.Labels, values), nil
	case param.FilterKeyTier:
		return matchStringFilter(string(p.Tier), option, values)
	case param.FilterKeyDataType:
		return matchStringFilter(p.DataType, option, values)
	default:
		svc.log.Debug().
			Str("key", key).
			Msg("Unsupported filter key")
		return false, fmt.Errorf("unsupported filter key: %s", key)
	}
}

// MatchAll reports whether a parameter satisfies every clause in the list.
func (svc *FilterService) MatchAll(p *param.Parameter, filters []*param.ParameterStringFilter) (bool, error) {
	for _, filter := range filters {
		ok, err := svc.MatchParameter(p, filter)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// matchStringFilter compares a field against each filter value with the
// clause option. A clause without values imposes no constraint.
func matchStringFilter(field, option string, values []string) (bool, error) {
	if len(values) == 0 {
		return true, nil
	}

	for _, value := range values {
		switch option {
		case param.FilterOptionEquals:
			if field == value {
				return true, nil
			}
		case param.FilterOptionBeginsWith:
			if strings.HasPrefix(field, value) {
				return true, nil
			}
		case param.FilterOptionContains:
			if strings.Contains(field, value) {
				return true, nil
			}
		default:
			return false, fmt.Errorf("unsupported filter option: %s", option)
		}
	}
	return false, nil
}

// matchPathFilter applies hierarchy semantics: Recursive matches the path
// itself and everything below it, OneLevel matches only direct children.
func matchPathFilter(name, option string, values []string) (bool, error) {
	if len(values) == 0 {
		return true, nil
	}

	for _, value := range values {
		switch option {
		case param.FilterOptionRecursive:
			if MatchesPathRecursive(name, value) {
				return true, nil
			}
		case param.FilterOptionOneLevel:
			if MatchesPathOneLevel(name, value) {
				return true, nil
			}
		default:
			return false, fmt.Errorf("unsupported path filter option: %s", option)
		}
	}
	return false, nil
}

// matchLabelFilter matches when the parameter carries any of the requested
// labels.
func matchLabelFilter(labels, values []string) bool {
	if len(values) == 0 {
		return true
	}
	for _, value := range values {
		if slices.Contains(labels, value) {
			return true
		}
	}
	return false
}

// matchTagFilter matches on tag value; without values it degrades to a tag
// existence check.
func (svc *FilterService) matchTagFilter(p *param.Parameter, tagKey string, values []string) bool {
	tagValue, exists := p.Tags[tagKey]
	if !exists {
		return false
	}
	if len(values) == 0 {
		return true
	}
	return slices.Contains(values, tagValue)
}

// MatchesPathRecursive reports whether name sits at or below path.
func MatchesPathRecursive(name, path string) bool {
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return strings.HasPrefix(name, "/")
	}
	return name == path || strings.HasPrefix(name, path+"/")
}

// MatchesPathOneLevel reports whether name is a direct child of path.
func MatchesPathOneLevel(name, path string) bool {
	path = strings.TrimSuffix(path, "/")
	if !strings.HasPrefix(name, path+"/") {
		return false
	}
	remainder := strings.TrimPrefix(name, path+"/")
	return remainder != "" && !strings.Contains(remainder, "/")
}
