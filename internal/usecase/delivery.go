package usecase

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/polkiloo/palmwine/internal/config"
	"github.com/polkiloo/palmwine/internal/domain/model"
)

// DefaultDeliveryFee applies to unknown zones and to addresses that could not be geocoded.
const DefaultDeliveryFee int64 = 2500

const earthRadiusKM = 6371.0

// DefaultZoneFees lists the named Lagos delivery zones.
var DefaultZoneFees = map[string]int64{
	"ikeja":           1500,
	"yaba":            1500,
	"surulere":        1500,
	"festac":          2000,
	"victoria island": 2500,
	"ikoyi":           2500,
	"lekki":           3000,
	"ajah":            3500,
	"ikorodu":         4000,
}

// DefaultDistanceTiers is sorted by MaxDistanceKM ascending.
var DefaultDistanceTiers = []model.DistanceTier{
	{MaxDistanceKM: 5, Fee: 1000},
	{MaxDistanceKM: 10, Fee: 1500},
	{MaxDistanceKM: 15, Fee: 2000},
	{MaxDistanceKM: 20, Fee: 2500},
	{MaxDistanceKM: 30, Fee: 3500},
	{MaxDistanceKM: 40, Fee: 5000},
}

// DeliveryUseCase prices delivery by named zone or by distance from the shop.
type DeliveryUseCase struct {
	zones      map[string]int64
	tiers      []model.DistanceTier
	defaultFee int64
	origin     model.Coordinates
	geocoder   Geocoder
	timeout    time.Duration
	logger     *slog.Logger
}

// NewDeliveryUseCase constructs DeliveryUseCase with the default fee tables.
func NewDeliveryUseCase(geocoder Geocoder, cfg *config.Config, logger *slog.Logger) *DeliveryUseCase {
	return &DeliveryUseCase{
		zones:      DefaultZoneFees,
		tiers:      DefaultDistanceTiers,
		defaultFee: DefaultDeliveryFee,
		origin:     model.Coordinates{Lat: cfg.ShopLatitude, Lng: cfg.ShopLongitude},
		geocoder:   geocoder,
		timeout:    cfg.GeocoderTimeout,
		logger:     logger,
	}
}

// FeeForZone looks zone up case-insensitively and falls back to the default fee.
func (u *DeliveryUseCase) FeeForZone(zone string) int64 {
	if fee, ok := u.zones[normalizeZone(zone)]; ok {
		return fee
	}
	return u.defaultFee
}

// FeeForDistance prices the great-circle distance between origin and dest.
func (u *DeliveryUseCase) FeeForDistance(origin, dest model.Coordinates) (int64, float64) {
	distance := Haversine(origin, dest)
	return u.feeForKM(distance), distance
}

func (u *DeliveryUseCase) feeForKM(distance float64) int64 {
	if len(u.tiers) == 0 {
		return u.defaultFee
	}
	for _, tier := range u.tiers {
		if distance <= tier.MaxDistanceKM {
			return tier.Fee
		}
	}
	return u.tiers[len(u.tiers)-1].Fee
}

// Quote prices a delivery by zone when given, otherwise by geocoding address.
// Geocoding failures produce an approximate quote at the default fee.
func (u *DeliveryUseCase) Quote(ctx context.Context, zone, address string) model.DeliveryQuote {
	if z := normalizeZone(zone); z != "" {
		return model.DeliveryQuote{Fee: u.FeeForZone(z), Zone: z}
	}

	approximate := model.DeliveryQuote{Fee: u.defaultFee, Approximate: true}
	address = strings.TrimSpace(address)
	if address == "" || u.geocoder == nil {
		return approximate
	}

	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}
	coords, err := u.geocoder.Geocode(ctx, address)
	if err != nil {
		u.logger.Warn("geocoding failed, using default delivery fee", slog.String("error", err.Error()))
		return approximate
	}
	if coords == nil {
		return approximate
	}

	fee, distance := u.FeeForDistance(u.origin, *coords)
	rounded := math.Round(distance*10) / 10
	return model.DeliveryQuote{Fee: fee, DistanceKM: &rounded}
}

// Haversine returns the great-circle distance between a and b in kilometres.
func Haversine(a, b model.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKM * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func normalizeZone(zone string) string {
	return strings.Join(strings.Fields(strings.ToLower(zone)), " ")
}
