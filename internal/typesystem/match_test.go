package typesystem

import (
	"errors"
	"testing"
)

var (
	tInt    = Scalar{Name: "Int"}
	tString = Scalar{Name: "String"}
	tBool   = Scalar{Name: "Bool"}
	tFloat  = Scalar{Name: "Float"}
)

func packParam(name string, idx int) Param {
	return Param{Name: name, Index: idx, IsPack: true}
}

func expand(name string, idx int) Expansion {
	return Expansion{Pattern: packParam(name, idx), Shape: CountShape(idx, name)}
}

func elt(t Type) LabeledElement {
	return LabeledElement{Type: t}
}

func lelt(label string, t Type) LabeledElement {
	return LabeledElement{Label: label, Type: t}
}

func checkPairs(t *testing.T, got, want []MatchedPair) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d pairs, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if !Equal(got[i].Left, want[i].Left) || !Equal(got[i].Right, want[i].Right) || got[i].OriginalIndex != want[i].OriginalIndex {
			t.Errorf("pair %d = (%s, %s, idx %d), want (%s, %s, idx %d)",
				i, got[i].Left, got[i].Right, got[i].OriginalIndex,
				want[i].Left, want[i].Right, want[i].OriginalIndex)
		}
	}
}

func TestMatchTuples(t *testing.T) {
	tExp := expand("T", 0)
	uExp := expand("U", 1)
	u := Param{Name: "U", Index: 1}

	tests := []struct {
		name string
		lhs  []LabeledElement
		rhs  []LabeledElement
		want []MatchedPair
	}{
		{
			name: "expansion absorbs leading run up to label",
			lhs:  []LabeledElement{elt(tInt), elt(tString), lelt("tail", tBool)},
			rhs:  []LabeledElement{elt(tExp), lelt("tail", u)},
			want: []MatchedPair{
				{Left: Pack{Elements: []Type{tInt, tString}}, Right: tExp, OriginalIndex: 0},
				{Left: tBool, Right: u, OriginalIndex: 2},
			},
		},
		{
			name: "expansions pair directly",
			lhs:  []LabeledElement{elt(tExp)},
			rhs:  []LabeledElement{elt(uExp)},
			want: []MatchedPair{
				{Left: tExp, Right: uExp, OriginalIndex: 0},
			},
		},
		{
			name: "expansion absorbs empty run before matching label",
			lhs:  []LabeledElement{elt(tExp), lelt("tail", tInt)},
			rhs:  []LabeledElement{lelt("tail", tInt)},
			want: []MatchedPair{
				{Left: tExp, Right: Pack{}, OriginalIndex: 0},
				{Left: tInt, Right: tInt, OriginalIndex: 1},
			},
		},
		{
			name: "trailing expansion absorbs everything",
			lhs:  []LabeledElement{elt(tInt), elt(tExp)},
			rhs:  []LabeledElement{elt(tInt), elt(tString), elt(tBool)},
			want: []MatchedPair{
				{Left: tInt, Right: tInt, OriginalIndex: 0},
				{Left: tExp, Right: Pack{Elements: []Type{tString, tBool}}, OriginalIndex: 1},
			},
		},
		{
			name: "leftover expansion matches the empty pack",
			lhs:  []LabeledElement{elt(tInt), elt(tExp)},
			rhs:  []LabeledElement{elt(tInt)},
			want: []MatchedPair{
				{Left: tInt, Right: tInt, OriginalIndex: 0},
				{Left: tExp, Right: Pack{}, OriginalIndex: 1},
			},
		},
		{
			name: "leftover right expansion matches the empty pack",
			lhs:  []LabeledElement{elt(tInt)},
			rhs:  []LabeledElement{elt(tInt), elt(uExp)},
			want: []MatchedPair{
				{Left: tInt, Right: tInt, OriginalIndex: 0},
				{Left: Pack{}, Right: uExp, OriginalIndex: 1},
			},
		},
		{
			name: "absorption stops only at the boundary label",
			lhs:  []LabeledElement{elt(tExp), lelt("tail", tInt)},
			rhs:  []LabeledElement{elt(tInt), lelt("mid", tString), lelt("tail", tBool)},
			want: []MatchedPair{
				{Left: tExp, Right: Pack{Elements: []Type{tInt, tString}}, OriginalIndex: 0},
				{Left: tInt, Right: tBool, OriginalIndex: 1},
			},
		},
		{
			name: "absorbed run may contain an expansion",
			lhs:  []LabeledElement{elt(tExp), lelt("tail", tInt)},
			rhs:  []LabeledElement{elt(tInt), elt(uExp), lelt("tail", tBool)},
			want: []MatchedPair{
				{Left: tExp, Right: Pack{Elements: []Type{tInt, uExp}}, OriginalIndex: 0},
				{Left: tInt, Right: tBool, OriginalIndex: 1},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateTupleElements(tt.lhs); err != nil {
				t.Fatalf("lhs failed validation: %v", err)
			}
			if err := ValidateTupleElements(tt.rhs); err != nil {
				t.Fatalf("rhs failed validation: %v", err)
			}
			got, err := MatchTuples(tt.lhs, tt.rhs)
			if err != nil {
				t.Fatalf("MatchTuples() error: %v", err)
			}
			checkPairs(t, got, tt.want)
		})
	}
}

func TestMatchTuplesFailures(t *testing.T) {
	tExp := expand("T", 0)

	tests := []struct {
		name string
		lhs  []LabeledElement
		rhs  []LabeledElement
	}{
		{
			name: "label mismatch",
			lhs:  []LabeledElement{lelt("a", tInt)},
			rhs:  []LabeledElement{lelt("b", tInt)},
		},
		{
			name: "label against unlabeled",
			lhs:  []LabeledElement{lelt("a", tInt)},
			rhs:  []LabeledElement{elt(tInt)},
		},
		{
			name: "leftover plain element",
			lhs:  []LabeledElement{elt(tInt), elt(tString)},
			rhs:  []LabeledElement{elt(tInt)},
		},
		{
			name: "boundary label missing on the other side",
			lhs:  []LabeledElement{elt(tExp), lelt("tail", tInt)},
			rhs:  []LabeledElement{elt(tInt), elt(tString)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MatchTuples(tt.lhs, tt.rhs)
			if err == nil {
				t.Fatal("MatchTuples() succeeded, want match error")
			}
			var matchErr *MatchError
			if !errors.As(err, &matchErr) {
				t.Errorf("error type = %T, want *MatchError", err)
			}
		})
	}
}

func TestValidateTupleElements(t *testing.T) {
	tExp := expand("T", 0)

	err := ValidateTupleElements([]LabeledElement{elt(tExp), elt(tInt)})
	var malformed *MalformedError
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want *MalformedError", err)
	}
	if malformed.Position != 0 {
		t.Errorf("Position = %d, want 0", malformed.Position)
	}

	if err := ValidateTupleElements([]LabeledElement{elt(tExp), lelt("tail", tInt)}); err != nil {
		t.Errorf("labeled follower rejected: %v", err)
	}
	if err := ValidateTupleElements([]LabeledElement{elt(tInt), elt(tExp)}); err != nil {
		t.Errorf("trailing expansion rejected: %v", err)
	}
}

func TestMatchParams(t *testing.T) {
	tExp := expand("T", 0)
	uExp := expand("U", 1)

	tests := []struct {
		name string
		lhs  []Type
		rhs  []Type
		want []MatchedPair
	}{
		{
			name: "plain lists pair positionally",
			lhs:  []Type{tInt, tString},
			rhs:  []Type{tInt, tBool},
			want: []MatchedPair{
				{Left: tInt, Right: tInt, OriginalIndex: 0},
				{Left: tString, Right: tBool, OriginalIndex: 1},
			},
		},
		{
			name: "expansion absorbs the middle",
			lhs:  []Type{tInt, tExp, tBool},
			rhs:  []Type{tInt, tString, tFloat, tBool},
			want: []MatchedPair{
				{Left: tInt, Right: tInt, OriginalIndex: 0},
				{Left: tExp, Right: Pack{Elements: []Type{tString, tFloat}}, OriginalIndex: 1},
				{Left: tBool, Right: tBool, OriginalIndex: 2},
			},
		},
		{
			name: "expansion absorbs nothing",
			lhs:  []Type{tInt, tExp},
			rhs:  []Type{tInt},
			want: []MatchedPair{
				{Left: tInt, Right: tInt, OriginalIndex: 0},
				{Left: tExp, Right: Pack{}, OriginalIndex: 1},
			},
		},
		{
			name: "facing expansions pair directly",
			lhs:  []Type{tInt, tExp, tBool},
			rhs:  []Type{tInt, uExp, tBool},
			want: []MatchedPair{
				{Left: tInt, Right: tInt, OriginalIndex: 0},
				{Left: tExp, Right: uExp, OriginalIndex: 1},
				{Left: tBool, Right: tBool, OriginalIndex: 2},
			},
		},
		{
			name: "left expansion absorbs a mixed middle whole",
			lhs:  []Type{tExp},
			rhs:  []Type{tInt, uExp},
			want: []MatchedPair{
				{Left: tExp, Right: Pack{Elements: []Type{tInt, uExp}}, OriginalIndex: 0},
			},
		},
		{
			name: "right expansion absorbs a mixed middle whole",
			lhs:  []Type{tInt, tExp},
			rhs:  []Type{uExp},
			want: []MatchedPair{
				{Left: Pack{Elements: []Type{tInt, tExp}}, Right: uExp, OriginalIndex: 0},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatchParams(tt.lhs, tt.rhs)
			if err != nil {
				t.Fatalf("MatchParams() error: %v", err)
			}
			checkPairs(t, got, tt.want)
		})
	}
}

func TestMatchParamsFailures(t *testing.T) {
	tExp := expand("T", 0)

	tests := []struct {
		name string
		lhs  []Type
		rhs  []Type
	}{
		{
			name: "plain lists of different lengths",
			lhs:  []Type{tInt, tString},
			rhs:  []Type{tInt},
		},
		{
			name: "expansion side too long for the other",
			lhs:  []Type{tInt, tExp, tString},
			rhs:  []Type{tInt},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MatchParams(tt.lhs, tt.rhs)
			if err == nil {
				t.Fatal("MatchParams() succeeded, want match error")
			}
			var matchErr *MatchError
			if !errors.As(err, &matchErr) {
				t.Errorf("error type = %T, want *MatchError", err)
			}
		})
	}
}

func TestValidateParams(t *testing.T) {
	tExp := expand("T", 0)
	uExp := expand("U", 1)

	err := ValidateParams([]Type{tExp, tInt, uExp})
	var malformed *MalformedError
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want *MalformedError", err)
	}
	if malformed.Position != 2 {
		t.Errorf("Position = %d, want 2", malformed.Position)
	}

	if err := ValidateParams([]Type{tInt, tExp, tString}); err != nil {
		t.Errorf("single expansion rejected: %v", err)
	}
}
