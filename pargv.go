package clish

import "fmt"

// Binding is one (Param, validated-token) pair recorded during parsing.
type Binding struct {
	Param *Param
	Value string
}

// PArgV is the ordered record of parameter bindings built while parsing
// one command invocation: a single owning arena, freed (by going out of
// scope) once the command completes (spec.md §9). Duplicate binding of
// the same Param name is rejected.
type PArgV struct {
	order    []string
	byName   map[string]*Binding
}

// NewPArgV creates an empty parsed-argument record.
func NewPArgV() *PArgV {
	return &PArgV{byName: make(map[string]*Binding)}
}

// ErrDuplicateParam is returned by Insert when a Param name is already
// bound in this PArgV.
var ErrDuplicateParam = fmt.Errorf("bad param: duplicate binding")

// Insert records a (param, value) binding. It returns ErrDuplicateParam
// if param.Name is already bound (spec.md §3 invariant).
func (v *PArgV) Insert(param *Param, value string) error {
	if _, exists := v.byName[param.Name]; exists {
		return ErrDuplicateParam
	}
	v.byName[param.Name] = &Binding{Param: param, Value: value}
	v.order = append(v.order, param.Name)
	return nil
}

// Has reports whether name is already bound.
func (v *PArgV) Has(name string) bool {
	_, ok := v.byName[name]
	return ok
}

// Get returns the bound value for name, if any.
func (v *PArgV) Get(name string) (string, bool) {
	b, ok := v.byName[name]
	if !ok {
		return "", false
	}
	return b.Value, true
}

// Bindings returns every binding in insertion order.
func (v *PArgV) Bindings() []*Binding {
	out := make([]*Binding, 0, len(v.order))
	for _, name := range v.order {
		out = append(out, v.byName[name])
	}
	return out
}

// Len returns the number of bound params.
func (v *PArgV) Len() int { return len(v.order) }
