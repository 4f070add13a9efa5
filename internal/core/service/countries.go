package service

import (
	"context"
	"strings"

	"github.com/yndnr/restgate-go/internal/core/domain"
)

// CountriesService serves countries and their states.
type CountriesService struct {
	store CountryStore
}

// NewCountriesService creates a CountriesService.
func NewCountriesService(store CountryStore) *CountriesService {
	return &CountriesService{store: store}
}

// List returns every country.
func (s *CountriesService) List(ctx context.Context) ([]domain.Country, error) {
	return s.store.ListCountries(ctx)
}

// States returns the states of the country with the given code, e.g. "CO".
func (s *CountriesService) States(ctx context.Context, code string) ([]domain.State, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, domain.ErrMissingArgument.WithDetails("country code")
	}
	states, err := s.store.ListStates(ctx, code)
	if err != nil {
		return nil, err
	}
	if states == nil {
		states = []domain.State{}
	}
	return states, nil
}
