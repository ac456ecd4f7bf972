package geocoding

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/palmwine/internal/config"
	"github.com/polkiloo/palmwine/internal/usecase"
)

// Module exposes the address geocoder to fx graph.
var Module = fx.Provide(newGeocoder)

type geocoderParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newGeocoder(p geocoderParams) (usecase.Geocoder, error) {
	return NewNominatim(p.Config.GeocoderURL, p.Config.GeocoderTimeout, p.Logger)
}
