package service

import (
	"context"
	"fmt"

	"github.com/Sandip-2006/diigital-village-hub/internal/domain"
	"github.com/Sandip-2006/diigital-village-hub/internal/geo"
	"github.com/Sandip-2006/diigital-village-hub/internal/registry"
)

type villageService struct {
	reg      *registry.Registry
	resolver *geo.CachedResolver
}

func NewVillageService(reg *registry.Registry, resolver *geo.Resolver) VillageService {
	return &villageService{
		reg:      reg,
		resolver: geo.NewCachedResolver(resolver, reg.All()),
	}
}

func (s *villageService) List(context.Context) []*domain.Village {
	return s.reg.All()
}

func (s *villageService) Get(_ context.Context, id string) (*domain.Village, error) {
	v, ok := s.reg.ByID(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrVillageNotFound, id)
	}
	return v, nil
}

func (s *villageService) Locate(_ context.Context, c domain.Coordinate) (geo.Match, error) {
	if err := geo.ValidateCoordinate(c); err != nil {
		return geo.NoMatch, err
	}
	return s.resolver.Resolve(c), nil
}
