package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/polkiloo/palmwine/internal/domain/model"
)

const userAgent = "palmwine-orders/1.0"

// Nominatim resolves addresses with a Nominatim-compatible search API.
type Nominatim struct {
	baseURL    *url.URL
	country    string
	httpClient *http.Client
	logger     *slog.Logger
}

type place struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// NewNominatim creates a geocoder bound to baseURL. Results are limited to Nigeria.
func NewNominatim(baseURL string, timeout time.Duration, logger *slog.Logger) (*Nominatim, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse geocoder url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("geocoder url must be absolute")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Nominatim{
		baseURL:    parsed,
		country:    "ng",
		logger:     logger,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Geocode returns the best match for address, or nil when nothing matches.
func (g *Nominatim) Geocode(ctx context.Context, address string) (*model.Coordinates, error) {
	endpoint := *g.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/search")
	query := url.Values{}
	query.Set("q", address)
	query.Set("format", "json")
	query.Set("limit", "1")
	query.Set("countrycodes", g.country)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		g.logger.Error("geocoder request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, fmt.Errorf("geocoder error: %s", resp.Status)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("decode geocoder response: %w", err)
	}
	if len(places) == 0 {
		return nil, nil
	}
	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse longitude: %w", err)
	}
	return &model.Coordinates{Lat: lat, Lng: lng}, nil
}
