package geocoding_service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"

	"github.com/init-pkg/meal-routes/domain/app"
	"github.com/rotisserie/eris"
)

// Provider resolves a free-text address to a place.
type Provider interface {
	Name() string
	FindPlace(ctx context.Context, query string) (*app.Place, error)
}

type Cache interface {
	Get(ctx context.Context, key string) (*app.Place, bool, error)
	Set(ctx context.Context, key string, place *app.Place) error
}

// GeocodingService tries the cache, then every provider in order.
type GeocodingService struct {
	providers []Provider
	cache     Cache
	log       *slog.Logger
}

var _ app.Geocoder = &GeocodingService{}

func New(providers []Provider, cache Cache, log *slog.Logger) *GeocodingService {
	return &GeocodingService{providers, cache, log}
}

func (s *GeocodingService) Geocode(ctx context.Context, address string) (*app.Place, error) {
	query := strings.TrimSpace(address)
	if query == "" {
		return nil, eris.Wrap(app.ErrInvalidRequest, "address is empty")
	}
	if len(s.providers) == 0 {
		return nil, app.ErrNoGeocoder
	}

	key := CacheKey(query)
	if place, ok, err := s.cache.Get(ctx, key); err != nil {
		s.log.Warn("Geocode cache read failed", "error", err)
	} else if ok {
		return place, nil
	}

	var failures []error
	for _, p := range s.providers {
		place, err := p.FindPlace(ctx, query)
		if err != nil {
			s.log.Warn("Geocoding provider failed", "provider", p.Name(), "address", query, "error", err)
			failures = append(failures, eris.Wrap(err, p.Name()))

			if ctx.Err() != nil {
				break
			}
			continue
		}

		if err := s.cache.Set(ctx, key, place); err != nil {
			s.log.Warn("Geocode cache write failed", "error", err)
		}
		return place, nil
	}

	return nil, errors.Join(failures...)
}

// CacheKey normalises case and whitespace so equivalent addresses share an entry.
func CacheKey(address string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(address)), " ")
	sum := sha1.Sum([]byte(normalized))
	return "geocode:" + hex.EncodeToString(sum[:])
}
