package schema

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Registry is the symbol table of one compilation.
// It tracks every allocated page name, the properties that formulas may
// reference, the formula variables, the super-properties and the property
// group categories, and hands out the document IDs.
type Registry struct {
	log *zap.SugaredLogger

	names           map[string]bool
	properties      map[string]bool
	variables       map[string]bool
	superProperties map[string]bool
	groups          map[string]bool
	lastGroup       string

	nextID int
}

// NewRegistry creates a registry whose first ID is startID (1 when startID is not positive).
func NewRegistry(startID int, log *zap.SugaredLogger) *Registry {
	if startID <= 0 {
		startID = 1
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Registry{
		log:             log,
		names:           map[string]bool{},
		properties:      map[string]bool{},
		variables:       map[string]bool{},
		superProperties: map[string]bool{},
		groups:          map[string]bool{},
		nextID:          startID,
	}
}

// NextID returns a fresh ID.
func (r *Registry) NextID() int {
	id := r.nextID
	r.nextID++
	return id
}

// LastID is the next ID that would be assigned.
func (r *Registry) LastID() int {
	return r.nextID
}

// Claim allocates a name. A name can be claimed only once.
func (r *Registry) Claim(name string) error {
	if len(name) == 0 {
		return ErrEmptyName
	}
	if r.names[name] {
		return fmt.Errorf("%w '%s'", ErrDuplicateName, name)
	}
	r.names[name] = true
	r.log.Debugw("name claimed", "name", name)
	return nil
}

// Claimed reports whether a name has been allocated.
func (r *Registry) Claimed(name string) bool {
	return r.names[name]
}

// AddProperty records a property usable in formulas.
func (r *Registry) AddProperty(name string) {
	r.properties[name] = true
}

func (r *Registry) HasProperty(name string) bool {
	return r.properties[name]
}

// Properties returns the known properties sorted by name.
func (r *Registry) Properties() []string {
	list := make([]string, 0, len(r.properties))
	for p := range r.properties {
		list = append(list, p)
	}
	sort.Strings(list)
	return list
}

// DefineVariable adds a formula variable. Redefinitions are errors.
func (r *Registry) DefineVariable(name string) error {
	if r.variables[name] {
		return fmt.Errorf("%w: variable '%s'", ErrDuplicateName, name)
	}
	r.variables[name] = true
	return nil
}

func (r *Registry) HasVariable(name string) bool {
	return r.variables[name]
}

// AddSuperProperty claims the name of a super-property.
// It returns false when the super-property was already known.
func (r *Registry) AddSuperProperty(name string) (bool, error) {
	if r.superProperties[name] {
		return false, nil
	}
	if err := r.Claim(name); err != nil {
		return false, err
	}
	r.superProperties[name] = true
	return true, nil
}

func (r *Registry) HasSuperProperty(name string) bool {
	return r.superProperties[name]
}

// SeeGroup records the use of a property group.
// first is true the first time the group is seen; reused is true when the
// group was seen before but not on the previous record.
func (r *Registry) SeeGroup(name string) (first bool, reused bool) {
	defer func() { r.lastGroup = name }()
	if !r.groups[name] {
		r.groups[name] = true
		return true, false
	}
	return false, r.lastGroup != name
}
