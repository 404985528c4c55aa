package storefront

import (
	"sort"
	"strings"

	internalErrors "github.com/northwind-labs/storefront/internal/errors"
)

// ToggleRefinement returns the refinement selection that results from
// toggling value on the given attribute. The input map is never mutated.
//
// A value already selected is removed. A new value is appended for
// multi-select attributes and replaces the attribute's selection for
// single-select ones. Attributes left without values are dropped from the
// map.
func ToggleRefinement(selected map[string][]string, attributeID, value string, allowMultiple bool) map[string][]string {
	result := make(map[string][]string, len(selected)+1)
	for attr, values := range selected {
		if attr == attributeID {
			continue
		}
		result[attr] = append([]string(nil), values...)
	}

	current := selected[attributeID]
	switch {
	case containsValue(current, value):
		var kept []string
		for _, v := range current {
			if v != value {
				kept = append(kept, v)
			}
		}
		if len(kept) > 0 {
			result[attributeID] = kept
		}
	case allowMultiple:
		result[attributeID] = append(append([]string(nil), current...), value)
	default:
		result[attributeID] = []string{value}
	}

	return result
}

// EncodeRefinements renders a selection map as refine parameter values, one
// "attr:v1|v2" pair per attribute, sorted by attribute id. Attributes with
// no values are skipped.
func EncodeRefinements(selected map[string][]string) []string {
	if len(selected) == 0 {
		return nil
	}

	attrs := make([]string, 0, len(selected))
	for attr, values := range selected {
		if len(values) > 0 {
			attrs = append(attrs, attr)
		}
	}
	sort.Strings(attrs)

	pairs := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		pairs = append(pairs, attr+":"+strings.Join(selected[attr], "|"))
	}
	return pairs
}

// ParseRefinement parses one refine parameter of the form "attr:v1|v2".
// Empty values between separators are dropped.
func ParseRefinement(raw string) (string, []string, error) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", nil, internalErrors.NewValidationError("refine",
			"must be of the form 'attribute:value' or 'attribute:v1|v2', got '"+raw+"'")
	}

	var values []string
	for _, value := range strings.Split(parts[1], "|") {
		if value != "" {
			values = append(values, value)
		}
	}
	if len(values) == 0 {
		return "", nil, internalErrors.NewValidationError("refine",
			"no values given for attribute '"+parts[0]+"'")
	}

	return parts[0], values, nil
}

func containsValue(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
