package typesystem

import "sort"

// classNode is one arena slot shared by both union-find instances. Slots
// are never removed; parent chains are compressed on find.
type classNode struct {
	parent int
	decl   int
	name   string
	isPack bool
}

type arena struct {
	nodes  []classNode
	byDecl map[int]int // declaration index -> slot
}

func newArena() *arena {
	return &arena{byDecl: make(map[int]int)}
}

func (a *arena) slot(decl int, name string, isPack bool) int {
	if idx, ok := a.byDecl[decl]; ok {
		return idx
	}
	idx := len(a.nodes)
	a.nodes = append(a.nodes, classNode{parent: idx, decl: decl, name: name, isPack: isPack})
	a.byDecl[decl] = idx
	return idx
}

// find returns the root slot, halving the path on the way up.
func (a *arena) find(i int) int {
	for a.nodes[i].parent != i {
		a.nodes[i].parent = a.nodes[a.nodes[i].parent].parent
		i = a.nodes[i].parent
	}
	return i
}

// union merges two classes. The surviving root is the member declared
// first, which keeps representatives stable no matter the order the
// equalities arrived in.
func (a *arena) union(i, j int) int {
	ri, rj := a.find(i), a.find(j)
	if ri == rj {
		return ri
	}
	if a.nodes[rj].decl < a.nodes[ri].decl {
		ri, rj = rj, ri
	}
	a.nodes[rj].parent = ri
	return ri
}

// members returns each root's member slots, classes ordered by their
// representative's declaration index and members ordered by declaration
// index within the class.
func (a *arena) members() [][]int {
	grouped := make(map[int][]int)
	for i := range a.nodes {
		root := a.find(i)
		grouped[root] = append(grouped[root], i)
	}
	roots := make([]int, 0, len(grouped))
	for root := range grouped {
		roots = append(roots, root)
	}
	sort.Slice(roots, func(i, j int) bool {
		return a.nodes[roots[i]].decl < a.nodes[roots[j]].decl
	})
	out := make([][]int, 0, len(roots))
	for _, root := range roots {
		slots := grouped[root]
		sort.Slice(slots, func(i, j int) bool {
			return a.nodes[slots[i]].decl < a.nodes[slots[j]].decl
		})
		out = append(out, slots)
	}
	return out
}

// ShapeClass is one resolved shape equivalence class: its symbolic members
// in declaration order plus the concrete arity the class resolved to, if
// any.
type ShapeClass struct {
	Members  []ShapeRef
	Arity    int
	HasArity bool
}

// ShapeClasses tracks shape equivalence between pack parameter count
// variables and concrete arities. Equate order does not affect the
// resolved classes.
type ShapeClasses struct {
	arena *arena
	arity map[int]int // root slot -> resolved arity
}

func NewShapeClasses() *ShapeClasses {
	return &ShapeClasses{arena: newArena(), arity: make(map[int]int)}
}

// Track registers a count variable so it participates in class enumeration
// even when no equality ever mentions it.
func (sc *ShapeClasses) Track(ref ShapeRef) {
	if ref.RefKind == ShapeCount {
		sc.arena.slot(ref.Param, ref.Name, true)
	}
}

// Equate records that two shapes are equal. Equating two different
// concrete arities, directly or through a shared class, is a shape
// conflict.
func (sc *ShapeClasses) Equate(a, b ShapeRef) error {
	switch {
	case a.RefKind == ShapeArity && b.RefKind == ShapeArity:
		if a.Arity != b.Arity {
			return &ShapeConflictError{Have: a, Want: b}
		}
		return nil
	case a.RefKind == ShapeCount && b.RefKind == ShapeCount:
		return sc.equateCounts(a, b)
	case a.RefKind == ShapeCount:
		return sc.resolveArity(a, b.Arity)
	default:
		return sc.resolveArity(b, a.Arity)
	}
}

func (sc *ShapeClasses) equateCounts(a, b ShapeRef) error {
	ra := sc.arena.find(sc.arena.slot(a.Param, a.Name, true))
	rb := sc.arena.find(sc.arena.slot(b.Param, b.Name, true))
	if ra == rb {
		return nil
	}
	na, aok := sc.arity[ra]
	nb, bok := sc.arity[rb]
	if aok && bok && na != nb {
		return &ShapeConflictError{Param: a.Name, Have: ArityShape(na), Want: ArityShape(nb)}
	}
	root := sc.arena.union(ra, rb)
	if aok {
		delete(sc.arity, ra)
		sc.arity[root] = na
	}
	if bok {
		delete(sc.arity, rb)
		sc.arity[root] = nb
	}
	return nil
}

func (sc *ShapeClasses) resolveArity(v ShapeRef, arity int) error {
	root := sc.arena.find(sc.arena.slot(v.Param, v.Name, true))
	if have, ok := sc.arity[root]; ok {
		if have != arity {
			return &ShapeConflictError{
				Param: sc.arena.nodes[root].name,
				Have:  ArityShape(have),
				Want:  ArityShape(arity),
			}
		}
		return nil
	}
	sc.arity[root] = arity
	return nil
}

// Classes returns the resolved classes in canonical order.
func (sc *ShapeClasses) Classes() []ShapeClass {
	var out []ShapeClass
	for _, slots := range sc.arena.members() {
		cls := ShapeClass{Members: make([]ShapeRef, 0, len(slots))}
		for _, s := range slots {
			n := sc.arena.nodes[s]
			cls.Members = append(cls.Members, CountShape(n.decl, n.name))
		}
		root := sc.arena.find(slots[0])
		if n, ok := sc.arity[root]; ok {
			cls.Arity = n
			cls.HasArity = true
		}
		out = append(out, cls)
	}
	return out
}

// TypeClass is one resolved plain type equivalence class: generic
// parameters in declaration order plus the concrete type the class is
// anchored to, if any.
type TypeClass struct {
	Members []Param
	Anchor  Type
}

// TypeClasses tracks plain type equivalence between generic parameters,
// each class optionally anchored to one concrete type.
type TypeClasses struct {
	arena  *arena
	anchor map[int]Type // root slot -> concrete type
}

func NewTypeClasses() *TypeClasses {
	return &TypeClasses{arena: newArena(), anchor: make(map[int]Type)}
}

// Track registers a parameter for class enumeration.
func (tc *TypeClasses) Track(p Param) {
	tc.arena.slot(p.Index, p.Name, p.IsPack)
}

// EquateParams records that two generic parameters name the same type.
func (tc *TypeClasses) EquateParams(a, b Param) error {
	ra := tc.arena.find(tc.arena.slot(a.Index, a.Name, a.IsPack))
	rb := tc.arena.find(tc.arena.slot(b.Index, b.Name, b.IsPack))
	if ra == rb {
		return nil
	}
	ta, aok := tc.anchor[ra]
	tb, bok := tc.anchor[rb]
	if aok && bok && !Equal(ta, tb) {
		return &TypeConflictError{Param: a.Name, Have: ta, Want: tb}
	}
	root := tc.arena.union(ra, rb)
	if aok {
		delete(tc.anchor, ra)
		tc.anchor[root] = ta
	}
	if bok {
		delete(tc.anchor, rb)
		tc.anchor[root] = tb
	}
	return nil
}

// Anchor records that a generic parameter equals a concrete type.
func (tc *TypeClasses) Anchor(p Param, concrete Type) error {
	root := tc.arena.find(tc.arena.slot(p.Index, p.Name, p.IsPack))
	if have, ok := tc.anchor[root]; ok {
		if !Equal(have, concrete) {
			return &TypeConflictError{Param: tc.arena.nodes[root].name, Have: have, Want: concrete}
		}
		return nil
	}
	tc.anchor[root] = concrete
	return nil
}

// Classes returns the resolved classes in canonical order.
func (tc *TypeClasses) Classes() []TypeClass {
	var out []TypeClass
	for _, slots := range tc.arena.members() {
		cls := TypeClass{Members: make([]Param, 0, len(slots))}
		for _, s := range slots {
			n := tc.arena.nodes[s]
			cls.Members = append(cls.Members, Param{Name: n.name, Index: n.decl, IsPack: n.isPack})
		}
		root := tc.arena.find(slots[0])
		if t, ok := tc.anchor[root]; ok {
			cls.Anchor = t
		}
		out = append(out, cls)
	}
	return out
}
