package typesystem

// MatchedPair records one correspondence produced by matching. Left and
// Right are the paired types; when an expansion absorbed a run from the
// other side, that side is a synthesized Pack. OriginalIndex is the
// position in the left-hand input before any absorption took place.
type MatchedPair struct {
	Left          Type
	Right         Type
	OriginalIndex int
}

// ValidateTupleElements checks the precondition tuple matching assumes:
// every expansion element is either the last element or is followed by a
// labeled element. Without the label there is no boundary telling the
// expansion where to stop absorbing.
func ValidateTupleElements(elts []LabeledElement) error {
	for i, elt := range elts {
		if !IsExpansion(elt.Type) {
			continue
		}
		if i+1 < len(elts) && elts[i+1].Label == "" {
			return &MalformedError{
				Position: i,
				Detail:   "expansion element must be last or followed by a labeled element",
			}
		}
	}
	return nil
}

// ValidateParams checks that a parameter list carries at most one
// expansion.
func ValidateParams(params []Type) error {
	seen := false
	for i, p := range params {
		if !IsExpansion(p) {
			continue
		}
		if seen {
			return &MalformedError{
				Position: i,
				Detail:   "at most one expansion is allowed per parameter list",
			}
		}
		seen = true
	}
	return nil
}

// MatchTuples aligns two labeled element sequences and returns the ordered
// pair list. Expansions absorb runs from the other side; plain elements
// pair one to one and must agree on labels. Inputs are assumed to satisfy
// ValidateTupleElements.
func MatchTuples(lhs, rhs []LabeledElement) ([]MatchedPair, error) {
	var pairs []MatchedPair
	lhsIdx, rhsIdx := 0, 0

	for lhsIdx < len(lhs) && rhsIdx < len(rhs) {
		lhsElt, rhsElt := lhs[lhsIdx], rhs[rhsIdx]
		lhsExp, lhsIsExp := lhsElt.Type.(Expansion)
		rhsExp, rhsIsExp := rhsElt.Type.(Expansion)

		// Two expansions meeting head-on pair directly.
		if lhsIsExp && rhsIsExp {
			pairs = append(pairs, MatchedPair{Left: lhsExp, Right: rhsExp, OriginalIndex: lhsIdx})
			lhsIdx++
			rhsIdx++
			continue
		}

		// An expansion absorbs the other side's run up to the boundary: the
		// other side's next element labeled like the element following the
		// expansion. An expansion in last position absorbs everything.
		if lhsIsExp {
			boundary, bounded := absorptionBoundary(lhs, lhsIdx)
			run, next := absorbRun(rhs, rhsIdx, boundary, bounded)
			pairs = append(pairs, MatchedPair{Left: lhsExp, Right: Pack{Elements: run}, OriginalIndex: lhsIdx})
			lhsIdx++
			rhsIdx = next
			continue
		}
		if rhsIsExp {
			boundary, bounded := absorptionBoundary(rhs, rhsIdx)
			run, next := absorbRun(lhs, lhsIdx, boundary, bounded)
			pairs = append(pairs, MatchedPair{Left: Pack{Elements: run}, Right: rhsExp, OriginalIndex: lhsIdx})
			lhsIdx = next
			rhsIdx++
			continue
		}

		// Plain elements must agree on labels exactly, including on the
		// absence of a label.
		if lhsElt.Label != rhsElt.Label {
			return nil, errMatch(lhsIdx, rhsIdx, "label %s does not match label %s",
				describeLabel(lhsElt.Label), describeLabel(rhsElt.Label))
		}
		pairs = append(pairs, MatchedPair{Left: lhsElt.Type, Right: rhsElt.Type, OriginalIndex: lhsIdx})
		lhsIdx++
		rhsIdx++
	}

	// Leftovers can only be expansions; each one stands for zero elements
	// and pairs with the empty pack.
	for ; lhsIdx < len(lhs); lhsIdx++ {
		exp, ok := lhs[lhsIdx].Type.(Expansion)
		if !ok {
			return nil, errMatch(lhsIdx, len(rhs), "left element %s has no counterpart", lhs[lhsIdx])
		}
		pairs = append(pairs, MatchedPair{Left: exp, Right: Pack{}, OriginalIndex: lhsIdx})
	}
	for ; rhsIdx < len(rhs); rhsIdx++ {
		exp, ok := rhs[rhsIdx].Type.(Expansion)
		if !ok {
			return nil, errMatch(len(lhs), rhsIdx, "right element %s has no counterpart", rhs[rhsIdx])
		}
		pairs = append(pairs, MatchedPair{Left: Pack{}, Right: exp, OriginalIndex: len(lhs)})
	}
	return pairs, nil
}

// absorptionBoundary returns the label that stops absorption for the
// expansion at expIdx: the label of the element that follows it. The
// second result is false when the expansion is last and absorption is
// unbounded.
func absorptionBoundary(elts []LabeledElement, expIdx int) (string, bool) {
	if expIdx+1 >= len(elts) {
		return "", false
	}
	return elts[expIdx+1].Label, true
}

func absorbRun(elts []LabeledElement, start int, boundary string, bounded bool) ([]Type, int) {
	i := start
	var run []Type
	for ; i < len(elts); i++ {
		if bounded && elts[i].Label == boundary {
			break
		}
		run = append(run, elts[i].Type)
	}
	return run, i
}

func describeLabel(label string) string {
	if label == "" {
		return "(none)"
	}
	return "'" + label + "'"
}

// MatchParams aligns two parameter lists, each carrying at most one
// expansion (per ValidateParams). Plain parameters pair positionally from
// both ends; whatever remains in the middle is resolved by the expansion.
// Pairs come out in left-to-right order: prefix, middle, suffix.
func MatchParams(lhs, rhs []Type) ([]MatchedPair, error) {
	minLen := min(len(lhs), len(rhs))

	// Common prefix of plain parameters.
	prefix := 0
	for prefix < minLen {
		if IsExpansion(lhs[prefix]) || IsExpansion(rhs[prefix]) {
			break
		}
		prefix++
	}

	// Common suffix, never overlapping the prefix.
	suffix := 0
	for suffix < minLen-prefix {
		if IsExpansion(lhs[len(lhs)-suffix-1]) || IsExpansion(rhs[len(rhs)-suffix-1]) {
			break
		}
		suffix++
	}

	pairs := make([]MatchedPair, 0, minLen+1)
	for i := 0; i < prefix; i++ {
		pairs = append(pairs, MatchedPair{Left: lhs[i], Right: rhs[i], OriginalIndex: i})
	}

	lhsMid := lhs[prefix : len(lhs)-suffix]
	rhsMid := rhs[prefix : len(rhs)-suffix]

	switch {
	case len(lhsMid) == 0 && len(rhsMid) == 0:
		// Prefix and suffix covered everything.

	case len(lhsMid) == 1 && len(rhsMid) == 1 && IsExpansion(lhsMid[0]) && IsExpansion(rhsMid[0]):
		// One expansion facing another: pair them directly, no pack wrapper.
		pairs = append(pairs, MatchedPair{Left: lhsMid[0], Right: rhsMid[0], OriginalIndex: prefix})

	case len(lhsMid) == 1 && IsExpansion(lhsMid[0]):
		// The left expansion absorbs the entire right middle as one pack,
		// concrete types and expansions alike.
		pairs = append(pairs, MatchedPair{
			Left:          lhsMid[0],
			Right:         Pack{Elements: append([]Type(nil), rhsMid...)},
			OriginalIndex: prefix,
		})

	case len(rhsMid) == 1 && IsExpansion(rhsMid[0]):
		pairs = append(pairs, MatchedPair{
			Left:          Pack{Elements: append([]Type(nil), lhsMid...)},
			Right:         rhsMid[0],
			OriginalIndex: prefix,
		})

	default:
		return nil, errMatch(prefix, prefix,
			"parameter lists do not line up: %d left and %d right elements remain after matching %d leading and %d trailing",
			len(lhsMid), len(rhsMid), prefix, suffix)
	}

	for i := 0; i < suffix; i++ {
		lhsIdx := len(lhs) - suffix + i
		rhsIdx := len(rhs) - suffix + i
		pairs = append(pairs, MatchedPair{Left: lhs[lhsIdx], Right: rhs[rhsIdx], OriginalIndex: lhsIdx})
	}
	return pairs, nil
}
