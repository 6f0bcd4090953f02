package typesystem

import "fmt"

// MatchError reports that two sequences have no valid correspondence. The
// indexes are cursor positions into the left and right inputs at the point
// the match became impossible.
type MatchError struct {
	LeftIndex  int
	RightIndex int
	Reason     string
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("cannot match left element %d against right element %d: %s",
		e.LeftIndex, e.RightIndex, e.Reason)
}

func errMatch(leftIdx, rightIdx int, format string, args ...any) error {
	return &MatchError{
		LeftIndex:  leftIdx,
		RightIndex: rightIdx,
		Reason:     fmt.Sprintf(format, args...),
	}
}

// ShapeConflictError reports two shapes that were asserted equal but cannot
// be. Param names the parameter whose class received the contradiction,
// when one is known.
type ShapeConflictError struct {
	Param string
	Have  ShapeRef
	Want  ShapeRef
}

func (e *ShapeConflictError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("conflicting shapes: %s vs %s", e.Have, e.Want)
	}
	return fmt.Sprintf("conflicting shapes for %s: %s vs %s", e.Param, e.Have, e.Want)
}

// TypeConflictError reports a type equivalence class anchored to two
// distinct concrete types.
type TypeConflictError struct {
	Param string
	Have  Type
	Want  Type
}

func (e *TypeConflictError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("conflicting types: %s vs %s", e.Have, e.Want)
	}
	return fmt.Sprintf("conflicting types for %s: %s vs %s", e.Param, e.Have, e.Want)
}

// MalformedError reports input that violates a structural precondition the
// matchers assume, such as an expansion followed by an unlabeled element.
// Validation runs before matching; the matchers themselves do not recover
// from malformed input.
type MalformedError struct {
	Position int
	Detail   string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed input at element %d: %s", e.Position, e.Detail)
}
