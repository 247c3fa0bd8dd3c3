package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Angelo10101/newhouseit/config"
)

const (
	// locationTimeout bounds the single-shot lookup.
	locationTimeout = 10 * time.Second
	// locationCacheTTL matches the app's one-minute location cache.
	locationCacheTTL = 60 * time.Second
)

// Location is a resolved coordinate pair for a caller.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city,omitempty"`
	Timestamp int64   `json:"timestamp"`
}

// LocationService resolves a caller's approximate coordinates from their IP
// address. Lookups are single-shot with a 10 second deadline and results
// are cached in Redis for one minute per IP. The recommendation pipeline
// never consults this service.
type LocationService struct {
	apiURL string
	redis  *redis.Client
	client *http.Client
}

// NewLocationService creates a new LocationService instance
func NewLocationService(cfg *config.Config, redisClient *redis.Client) *LocationService {
	return &LocationService{
		apiURL: cfg.GeoAPIURL,
		redis:  redisClient,
		client: &http.Client{Timeout: locationTimeout},
	}
}

// Locate returns the coordinates for the given IP, from cache when fresh.
func (s *LocationService) Locate(ctx context.Context, ip string) (*Location, error) {
	key := fmt.Sprintf("location:ip:%s", ip)

	if s.redis != nil {
		if data, err := s.redis.Get(ctx, key).Bytes(); err == nil {
			var cached Location
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	loc, err := s.lookup(ctx, ip)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if data, err := json.Marshal(loc); err == nil {
			s.redis.Set(ctx, key, data, locationCacheTTL)
		}
	}

	return loc, nil
}

func (s *LocationService) lookup(ctx context.Context, ip string) (*Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL+"/"+ip, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var raw struct {
		Status  string  `json:"status"`
		Message string  `json:"message"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
		City    string  `json:"city"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if raw.Status != "success" {
		return nil, fmt.Errorf("geolocation lookup failed: %s", raw.Message)
	}

	return &Location{
		Latitude:  raw.Lat,
		Longitude: raw.Lon,
		City:      raw.City,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}
