package typesystem

import "testing"

func TestEmitRequirementsSpanningChain(t *testing.T) {
	// Three pack parameters asserted equal in varying orders always emit
	// the same two-link chain.
	tRef := CountShape(0, "T")
	uRef := CountShape(1, "U")
	vRef := CountShape(2, "V")

	orders := [][][2]ShapeRef{
		{{tRef, uRef}, {uRef, vRef}},
		{{uRef, vRef}, {tRef, vRef}},
		{{vRef, tRef}, {vRef, uRef}, {tRef, uRef}},
	}
	const want = "T.shape == U.shape, U.shape == V.shape"

	for i, order := range orders {
		sc := NewShapeClasses()
		for _, r := range []ShapeRef{tRef, uRef, vRef} {
			sc.Track(r)
		}
		for _, eq := range order {
			if err := sc.Equate(eq[0], eq[1]); err != nil {
				t.Fatalf("order %d: Equate: %v", i, err)
			}
		}
		rs := EmitRequirements(NewTypeClasses(), sc)
		if got := rs.String(); got != want {
			t.Errorf("order %d: emitted %q, want %q", i, got, want)
		}
		if len(rs.Requirements) != 2 {
			t.Errorf("order %d: emitted %d requirements, want 2", i, len(rs.Requirements))
		}
	}
}

func TestEmitRequirementsSingletons(t *testing.T) {
	sc := NewShapeClasses()
	sc.Track(CountShape(0, "T"))
	sc.Track(CountShape(1, "U"))
	tc := NewTypeClasses()
	tc.Track(Param{Name: "V", Index: 2})

	rs := EmitRequirements(tc, sc)
	if !rs.Empty() {
		t.Errorf("singleton classes emitted %q, want nothing", rs.String())
	}
}

func TestEmitRequirementsArityAnchor(t *testing.T) {
	sc := NewShapeClasses()
	tRef := CountShape(0, "T")
	uRef := CountShape(1, "U")
	sc.Track(tRef)
	sc.Track(uRef)
	if err := sc.Equate(uRef, tRef); err != nil {
		t.Fatalf("Equate: %v", err)
	}
	if err := sc.Equate(uRef, ArityShape(2)); err != nil {
		t.Fatalf("Equate: %v", err)
	}

	rs := EmitRequirements(NewTypeClasses(), sc)
	want := "T.shape == U.shape, T.shape == 2"
	if got := rs.String(); got != want {
		t.Errorf("emitted %q, want %q", got, want)
	}
}

func TestEmitRequirementsTypeBeforeShapeOnSameParam(t *testing.T) {
	tp := Param{Name: "T", Index: 0, IsPack: true}
	up := Param{Name: "U", Index: 1, IsPack: true}

	tc := NewTypeClasses()
	tc.Track(tp)
	tc.Track(up)
	if err := tc.EquateParams(tp, up); err != nil {
		t.Fatalf("EquateParams: %v", err)
	}

	sc := NewShapeClasses()
	sc.Track(CountShape(0, "T"))
	sc.Track(CountShape(1, "U"))
	if err := sc.Equate(CountShape(0, "T"), CountShape(1, "U")); err != nil {
		t.Fatalf("Equate: %v", err)
	}

	rs := EmitRequirements(tc, sc)
	want := "T == U, T.shape == U.shape"
	if got := rs.String(); got != want {
		t.Errorf("emitted %q, want %q", got, want)
	}
}

func TestEmitRequirementsCrossClassOrdering(t *testing.T) {
	// Later-declared classes render after earlier ones no matter the
	// assertion order.
	sc := NewShapeClasses()
	a := CountShape(0, "A")
	b := CountShape(1, "B")
	c := CountShape(2, "C")
	d := CountShape(3, "D")
	for _, r := range []ShapeRef{a, b, c, d} {
		sc.Track(r)
	}
	if err := sc.Equate(d, b); err != nil {
		t.Fatalf("Equate: %v", err)
	}
	if err := sc.Equate(c, a); err != nil {
		t.Fatalf("Equate: %v", err)
	}

	rs := EmitRequirements(NewTypeClasses(), sc)
	want := "A.shape == C.shape, B.shape == D.shape"
	if got := rs.String(); got != want {
		t.Errorf("emitted %q, want %q", got, want)
	}
}

func TestRequirementString(t *testing.T) {
	tests := []struct {
		name string
		req  Requirement
		want string
	}{
		{
			"same type",
			Requirement{Kind: RequirementSameType, LeftType: Param{Name: "T"}, RightType: Scalar{Name: "Int"}},
			"T == Int",
		},
		{
			"same shape",
			Requirement{Kind: RequirementSameShape, LeftShape: CountShape(0, "T"), RightShape: ArityShape(2)},
			"T.shape == 2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
