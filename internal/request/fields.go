package request

import (
	"github.com/hanpama/graphjoin/internal/language"
	"github.com/hanpama/graphjoin/internal/schema"
)

// collectFields flattens a selection set into field selections in document
// order. Fragment spreads and inline fragments are expanded in place and
// selections excluded by @skip/@include are dropped. Type conditions are
// deliberately not enforced: a fragment's fields are spliced regardless of
// the surrounding type, and the merge step reconciles the result.
func collectFields(
	selectionSet language.SelectionSet,
	variables map[string]any,
	fragments language.FragmentDefinitionList,
) ([]*language.Field, error) {
	var fields []*language.Field
	err := appendFields(selectionSet, &fields, variables, fragments, map[string]bool{})
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// active tracks the fragment names on the current expansion stack so that a
// self-referential fragment chain fails instead of recursing unboundedly.
func appendFields(
	selectionSet language.SelectionSet,
	fields *[]*language.Field,
	variables map[string]any,
	fragments language.FragmentDefinitionList,
	active map[string]bool,
) error {
	for _, selection := range selectionSet {
		switch sel := selection.(type) {
		case *language.Field:
			include, err := shouldInclude(sel.Directives, variables)
			if err != nil {
				return err
			}
			if include {
				*fields = append(*fields, sel)
			}

		case *language.FragmentSpread:
			include, err := shouldInclude(sel.Directives, variables)
			if err != nil {
				return err
			}
			if !include {
				continue
			}
			if active[sel.Name] {
				return errorf(ErrFragmentCycle, sel.Name, "fragment %q spreads itself, directly or transitively", sel.Name)
			}
			fragment := fragments.ForName(sel.Name)
			if fragment == nil {
				return errorf(ErrUnknownFragment, sel.Name, "unknown fragment %q", sel.Name)
			}
			active[sel.Name] = true
			err = appendFields(fragment.SelectionSet, fields, variables, fragments, active)
			delete(active, sel.Name)
			if err != nil {
				return err
			}

		case *language.InlineFragment:
			include, err := shouldInclude(sel.Directives, variables)
			if err != nil {
				return err
			}
			if !include {
				continue
			}
			if err := appendFields(sel.SelectionSet, fields, variables, fragments, active); err != nil {
				return err
			}
		}
	}
	return nil
}

// shouldInclude evaluates the directives on a selection against the bound
// variables. Only @skip and @include are recognized; their boolean `if`
// argument decides participation and a missing `if` leaves inclusion
// unaffected. Multiple directives combine with logical AND.
func shouldInclude(directives language.DirectiveList, variables map[string]any) (bool, error) {
	for _, directive := range directives {
		switch directive.Name {
		case schema.SkipDirective.Name:
			args, err := coerceArgumentValues(schema.SkipDirective.Arguments, directive.Arguments, variables)
			if err != nil {
				return false, err
			}
			if cond, ok := args["if"].(bool); ok && cond {
				return false, nil
			}
		case schema.IncludeDirective.Name:
			args, err := coerceArgumentValues(schema.IncludeDirective.Arguments, directive.Arguments, variables)
			if err != nil {
				return false, err
			}
			if cond, ok := args["if"].(bool); ok && !cond {
				return false, nil
			}
		default:
			return false, errorf(ErrUnknownDirective, directive.Name, "unknown directive %q", directive.Name)
		}
	}
	return true, nil
}

// mergeFields groups the collected fields by output key, preserving
// first-seen order. When a key recurs with a selection set, the stored field
// is replaced by a copy whose selection set is the concatenation of both
// sides; the input AST nodes are never mutated. A repeated identical leaf
// selection is a no-op.
func mergeFields(fields []*language.Field) []*language.Field {
	merged := make([]*language.Field, 0, len(fields))
	index := make(map[string]int, len(fields))

	for _, field := range fields {
		key := responseKey(field)
		at, seen := index[key]
		if !seen {
			index[key] = len(merged)
			merged = append(merged, field)
			continue
		}
		if field.SelectionSet == nil {
			continue
		}
		stored := merged[at]
		combined := *stored
		combined.SelectionSet = make(language.SelectionSet, 0, len(stored.SelectionSet)+len(field.SelectionSet))
		combined.SelectionSet = append(combined.SelectionSet, stored.SelectionSet...)
		combined.SelectionSet = append(combined.SelectionSet, field.SelectionSet...)
		merged[at] = &combined
	}
	return merged
}
