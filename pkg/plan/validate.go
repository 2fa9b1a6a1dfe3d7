package plan

import "fmt"

// ValidationSeverity indicates whether a validation finding blocks the
// build walk or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks the build
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             // which node has the problem (zero if plan-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	NodeID  NodeID
	Message string
}

// ValidationResult bundles errors (blocking) and warnings (advisory)
// from all validation tiers.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether the plan may be built.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// Validate runs all Tier 1 structural checks on the plan and returns a
// slice of validation errors. An empty slice means the plan is
// structurally sound. This function is read-only and never mutates the
// plan.
func Validate(p *Plan) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateReferences(p)...)
	errs = append(errs, validateNames(p)...)
	errs = append(errs, validateMounts(p)...)
	errs = append(errs, validateOperationOrder(p)...)
	return errs
}

// ValidateAll runs all validation tiers (structural, then geometric)
// and returns a ValidationResult with separated errors and warnings.
func ValidateAll(p *Plan) ValidationResult {
	tier1 := Validate(p)

	var result ValidationResult
	for _, e := range tier1 {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, ValidationWarning{
				NodeID:  e.NodeID,
				Message: e.Message,
			})
		} else {
			result.Errors = append(result.Errors, e)
		}
	}

	// Geometric checks are only meaningful on a structurally sound
	// plan; dangling references would otherwise produce noise findings.
	if len(result.Errors) == 0 {
		tier2Errs, tier2Warnings := validateGeometry(p)
		result.Errors = append(result.Errors, tier2Errs...)
		result.Warnings = append(result.Warnings, tier2Warnings...)
	}

	return result
}

// validateReferences checks that every NodeID referenced by a mount or
// an operation points to an existing node of the right kind.
func validateReferences(p *Plan) []ValidationError {
	var errs []ValidationError

	requireKind := func(owner *Node, ref NodeID, want NodeKind, field string) {
		target, ok := p.Nodes[ref]
		if !ok {
			errs = append(errs, ValidationError{
				NodeID:   owner.ID,
				Message:  fmt.Sprintf("%s reference %s does not exist", field, ref.Short()),
				Severity: SeverityError,
			})
			return
		}
		if target.Kind != want {
			errs = append(errs, ValidationError{
				NodeID:   owner.ID,
				Message:  fmt.Sprintf("%s reference %s is a %s, not a %s", field, ref.Short(), target.Kind, want),
				Severity: SeverityError,
			})
		}
	}

	for _, id := range p.Order {
		node := p.Nodes[id]
		if node == nil {
			continue
		}
		switch d := node.Data.(type) {
		case MountData:
			for _, sid := range d.Shapes {
				requireKind(node, sid, NodeShape, "shape")
			}
		case PadData:
			requireKind(node, d.Mount, NodeMount, "mount")
		case PocketData:
			requireKind(node, d.Mount, NodeMount, "mount")
		case HoleData:
			requireKind(node, d.Mount, NodeMount, "mount")
		}
	}

	return errs
}

// validateNames checks that the NameIndex is injective (no two nodes
// share the same name) and that every entry points to an existing node.
func validateNames(p *Plan) []ValidationError {
	var errs []ValidationError

	for name, id := range p.NameIndex {
		if _, ok := p.Nodes[id]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("name index entry %q references non-existent node %s", name, id.Short()),
				Severity: SeverityError,
			})
		}
	}

	nameToNodes := make(map[string][]NodeID)
	for id, node := range p.Nodes {
		if node.Name != "" {
			nameToNodes[node.Name] = append(nameToNodes[node.Name], id)
		}
	}
	for name, ids := range nameToNodes {
		if len(ids) > 1 {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("duplicate name %q assigned to %d nodes", name, len(ids)),
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateMounts checks that every mount carries at least one shape
// reference and warns about shapes no mount uses and mounts no
// operation uses.
func validateMounts(p *Plan) []ValidationError {
	var errs []ValidationError

	usedShapes := make(map[NodeID]bool)
	usedMounts := make(map[NodeID]bool)

	for _, id := range p.Order {
		node := p.Nodes[id]
		if node == nil {
			continue
		}
		switch d := node.Data.(type) {
		case MountData:
			if len(d.Shapes) == 0 {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  "mount has no shapes",
					Severity: SeverityError,
				})
			}
			for _, sid := range d.Shapes {
				usedShapes[sid] = true
			}
		case PadData:
			usedMounts[d.Mount] = true
		case PocketData:
			usedMounts[d.Mount] = true
		case HoleData:
			usedMounts[d.Mount] = true
		}
	}

	for _, id := range p.Order {
		node := p.Nodes[id]
		if node == nil {
			continue
		}
		name := node.Name
		if name == "" {
			name = node.ID.Short()
		}
		switch node.Kind {
		case NodeShape:
			if !usedShapes[id] {
				errs = append(errs, ValidationError{
					NodeID:   id,
					Message:  fmt.Sprintf("shape %q is not referenced by any mount (orphan)", name),
					Severity: SeverityWarning,
				})
			}
		case NodeMount:
			if !usedMounts[id] {
				errs = append(errs, ValidationError{
					NodeID:   id,
					Message:  fmt.Sprintf("mount %q is not referenced by any operation (orphan)", name),
					Severity: SeverityWarning,
				})
			}
		}
	}

	return errs
}

// validateOperationOrder checks that material-removing operations have
// a solid to act on: a pocket or hole before the first pad is an error.
func validateOperationOrder(p *Plan) []ValidationError {
	var errs []ValidationError

	seenPad := false
	for _, id := range p.Order {
		node := p.Nodes[id]
		if node == nil {
			continue
		}
		switch node.Kind {
		case NodePad:
			seenPad = true
		case NodePocket, NodeHole:
			if !seenPad {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("%s appears before any pad; there is no solid to cut", node.Kind),
					Severity: SeverityError,
				})
			}
		}
	}

	return errs
}
