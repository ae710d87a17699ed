// Package registry holds the static, immutable list of villages the
// portal serves.
package registry

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Sandip-2006/diigital-village-hub/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed villages.yaml
var defaultVillages []byte

var ErrInvalidRegistry = errors.New("invalid village registry")

type document struct {
	Villages []domain.Village `yaml:"villages"`
}

// Registry is an ordered, read-only set of villages. Order is file order.
type Registry struct {
	villages []*domain.Village
	byID     map[string]*domain.Village
}

// Default returns the registry compiled into the binary.
func Default() *Registry {
	r, err := Load(bytes.NewReader(defaultVillages))
	if err != nil {
		panic(fmt.Sprintf("embedded village registry: %v", err))
	}
	return r
}

// LoadFile reads a registry from a YAML file.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening registry: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes and validates a YAML registry document.
func Load(r io.Reader) (*Registry, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: decoding: %v", ErrInvalidRegistry, err)
	}
	return New(doc.Villages)
}

// New builds a registry from villages, copying each record.
func New(villages []domain.Village) (*Registry, error) {
	reg := &Registry{
		villages: make([]*domain.Village, 0, len(villages)),
		byID:     make(map[string]*domain.Village, len(villages)),
	}
	for i := range villages {
		v := villages[i]
		if err := validate(&v); err != nil {
			return nil, fmt.Errorf("%w: village %d: %v", ErrInvalidRegistry, i, err)
		}
		if _, dup := reg.byID[v.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate village id %q", ErrInvalidRegistry, v.ID)
		}
		reg.villages = append(reg.villages, &v)
		reg.byID[v.ID] = &v
	}
	return reg, nil
}

func validate(v *domain.Village) error {
	if v.ID == "" {
		return fmt.Errorf("id is required")
	}
	if v.Name.EN == "" {
		return fmt.Errorf("%s: english name is required", v.ID)
	}
	if !v.Location.Valid() {
		return fmt.Errorf("%s: coordinate %v out of range", v.ID, v.Location)
	}
	if v.Population < 0 {
		return fmt.Errorf("%s: negative population", v.ID)
	}
	if v.AreaKm2 < 0 {
		return fmt.Errorf("%s: negative area", v.ID)
	}
	return nil
}

// All returns the villages in registry order. The slice is a copy; the
// pointers are shared.
func (r *Registry) All() []*domain.Village {
	out := make([]*domain.Village, len(r.villages))
	copy(out, r.villages)
	return out
}

func (r *Registry) ByID(id string) (*domain.Village, bool) {
	v, ok := r.byID[id]
	return v, ok
}

// First returns the default village, or nil for an empty registry.
func (r *Registry) First() *domain.Village {
	if len(r.villages) == 0 {
		return nil
	}
	return r.villages[0]
}

func (r *Registry) Len() int {
	return len(r.villages)
}
