package typesystem

import (
	"sort"
	"strings"
)

// RequirementKind discriminates requirement forms. The order here is the
// canonical tie-break: when two requirements share a governing parameter,
// type equality renders before shape equality.
type RequirementKind int

const (
	RequirementSameType RequirementKind = iota
	RequirementSameShape
)

func (k RequirementKind) String() string {
	switch k {
	case RequirementSameType:
		return "same-type"
	case RequirementSameShape:
		return "same-shape"
	default:
		return "unknown"
	}
}

// Requirement is one canonical requirement. SameType requirements populate
// the type operands; SameShape requirements populate the shape operands.
type Requirement struct {
	Kind       RequirementKind
	LeftType   Type
	RightType  Type
	LeftShape  ShapeRef
	RightShape ShapeRef
}

func (r Requirement) String() string {
	if r.Kind == RequirementSameShape {
		return r.LeftShape.String() + " == " + r.RightShape.String()
	}
	return r.LeftType.String() + " == " + r.RightType.String()
}

// RequirementSet is an ordered canonical list of requirements. Building it
// from the same equalities always yields the same list, whatever order the
// equalities were asserted in.
type RequirementSet struct {
	Requirements []Requirement
}

func (rs RequirementSet) Empty() bool { return len(rs.Requirements) == 0 }

func (rs RequirementSet) String() string {
	parts := make([]string, len(rs.Requirements))
	for i, r := range rs.Requirements {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}

// EmitRequirements lowers resolved classes into the canonical requirement
// list. Each class of n members contributes a spanning chain of n-1
// links between consecutive members in declaration order; a class with a
// concrete anchor contributes one more requirement tying its
// representative to the anchor. Everything implied transitively by the
// emitted chain is left out.
func EmitRequirements(tc *TypeClasses, sc *ShapeClasses) RequirementSet {
	type group struct {
		decl int
		kind RequirementKind
		reqs []Requirement
	}
	var groups []group

	for _, cls := range tc.Classes() {
		var reqs []Requirement
		for i := 0; i+1 < len(cls.Members); i++ {
			reqs = append(reqs, Requirement{
				Kind:      RequirementSameType,
				LeftType:  cls.Members[i],
				RightType: cls.Members[i+1],
			})
		}
		if cls.Anchor != nil {
			reqs = append(reqs, Requirement{
				Kind:      RequirementSameType,
				LeftType:  cls.Members[0],
				RightType: cls.Anchor,
			})
		}
		if len(reqs) > 0 {
			groups = append(groups, group{decl: cls.Members[0].Index, kind: RequirementSameType, reqs: reqs})
		}
	}

	for _, cls := range sc.Classes() {
		var reqs []Requirement
		for i := 0; i+1 < len(cls.Members); i++ {
			reqs = append(reqs, Requirement{
				Kind:       RequirementSameShape,
				LeftShape:  cls.Members[i],
				RightShape: cls.Members[i+1],
			})
		}
		if cls.HasArity {
			reqs = append(reqs, Requirement{
				Kind:       RequirementSameShape,
				LeftShape:  cls.Members[0],
				RightShape: ArityShape(cls.Arity),
			})
		}
		if len(reqs) > 0 {
			groups = append(groups, group{decl: cls.Members[0].CountParam(), kind: RequirementSameShape, reqs: reqs})
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].decl != groups[j].decl {
			return groups[i].decl < groups[j].decl
		}
		return groups[i].kind < groups[j].kind
	})

	var out []Requirement
	for _, g := range groups {
		out = append(out, g.reqs...)
	}
	return RequirementSet{Requirements: out}
}
