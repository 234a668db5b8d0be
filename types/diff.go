package types

import "sort"

// FieldState classifies a single field of a desired-vs-observed comparison.
type FieldState string

const (
	FieldUnchanged           FieldState = "unchanged"
	FieldNeedsUpdate         FieldState = "needs-update"
	FieldRequiresReplacement FieldState = "requires-replacement"
	FieldIgnored             FieldState = "ignored"
)

// DiffResult maps field names to their comparison state for one entity.
// It is ephemeral: produced and consumed within a single reconciliation pass.
type DiffResult struct {
	Kind   EntityKind            `json:"kind"`
	ID     string                `json:"id"`
	Create bool                  `json:"create"`
	Fields map[string]FieldState `json:"fields"`
}

// Empty reports whether the entity is fully converged: it exists and no
// field needs an update or a replacement.
func (d DiffResult) Empty() bool {
	if d.Create {
		return false
	}
	for _, state := range d.Fields {
		if state == FieldNeedsUpdate || state == FieldRequiresReplacement {
			return false
		}
	}
	return true
}

// RequiresReplacement reports whether any field can only converge by
// destroying and recreating the entity.
func (d DiffResult) RequiresReplacement() bool {
	for _, state := range d.Fields {
		if state == FieldRequiresReplacement {
			return true
		}
	}
	return false
}

// UpdatedFields returns the sorted names of fields in needs-update state.
func (d DiffResult) UpdatedFields() []string {
	var fields []string
	for name, state := range d.Fields {
		if state == FieldNeedsUpdate {
			fields = append(fields, name)
		}
	}
	sort.Strings(fields)
	return fields
}

// ReplacementFields returns the sorted names of fields forcing replacement.
func (d DiffResult) ReplacementFields() []string {
	var fields []string
	for name, state := range d.Fields {
		if state == FieldRequiresReplacement {
			fields = append(fields, name)
		}
	}
	sort.Strings(fields)
	return fields
}
