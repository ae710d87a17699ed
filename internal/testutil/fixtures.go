package testutil

import (
	"fmt"
	"strings"

	"github.com/Sandip-2006/diigital-village-hub/internal/domain"
	"github.com/Sandip-2006/diigital-village-hub/internal/registry"
)

// Village options
type VillageOption func(*domain.Village)

func WithLocation(lat, lng float64) VillageOption {
	return func(v *domain.Village) {
		v.Location = domain.Coordinate{Lat: lat, Lng: lng}
	}
}

func WithNames(en, hi, gu string) VillageOption {
	return func(v *domain.Village) {
		v.Name = domain.LocalizedText{EN: en, HI: hi, GU: gu}
	}
}

func WithPopulation(n int) VillageOption {
	return func(v *domain.Village) {
		v.Population = n
	}
}

// NewTestVillage returns a valid village with the given id.
func NewTestVillage(id string, opts ...VillageOption) *domain.Village {
	title := strings.ToUpper(id[:1]) + id[1:]
	v := &domain.Village{
		ID:          id,
		Name:        domain.LocalizedText{EN: title},
		SubDistrict: title,
		District:    "Banaskantha",
		State:       "Gujarat",
		Pincode:     "385000",
		Population:  1000,
		AreaKm2:     10,
		Location:    domain.Coordinate{Lat: 24, Lng: 72},
		Sarpanch: domain.Contact{
			Name:  fmt.Sprintf("Sarpanch of %s", title),
			Phone: "+91 90000 00000",
		},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// NewTestRegistry builds a registry from the given villages, failing
// loudly on invalid fixtures.
func NewTestRegistry(villages ...*domain.Village) *registry.Registry {
	vals := make([]domain.Village, len(villages))
	for i, v := range villages {
		vals[i] = *v
	}
	reg, err := registry.New(vals)
	if err != nil {
		panic(fmt.Sprintf("test registry: %v", err))
	}
	return reg
}

// DefaultVillages returns the embedded registry's villages.
func DefaultVillages() []*domain.Village {
	return registry.Default().All()
}
