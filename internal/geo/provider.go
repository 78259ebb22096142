// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package geo resolves the user's approximate location, best effort.
//
// Resolution is a single attempt at startup: a configured override wins,
// otherwise an IP geolocation lookup runs with a short deadline. Every
// failure mode collapses to "no coordinate"; nothing in the app blocks
// on or errors from this package.
package geo

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultEndpoint is the IP geolocation service queried when no
// override is configured.
const DefaultEndpoint = "http://ip-api.com/json"

// DefaultTimeout bounds the lookup. Location is a nice-to-have; a slow
// lookup must not hold up startup.
const DefaultTimeout = 5 * time.Second

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Provider resolves a coordinate once per session.
type Provider struct {
	override *Coordinate
	endpoint string
	timeout  time.Duration
	logger   *zap.Logger

	httpClient *http.Client
}

// NewProvider creates a location provider. A non-nil override skips the
// network lookup entirely.
func NewProvider(override *Coordinate) *Provider {
	return &Provider{
		override:   override,
		endpoint:   DefaultEndpoint,
		timeout:    DefaultTimeout,
		logger:     zap.NewNop(),
		httpClient: &http.Client{},
	}
}

// WithEndpoint sets a custom geolocation endpoint.
func (p *Provider) WithEndpoint(url string) *Provider {
	if url != "" {
		p.endpoint = url
	}
	return p
}

// WithTimeout sets the lookup deadline.
func (p *Provider) WithTimeout(timeout time.Duration) *Provider {
	if timeout > 0 {
		p.timeout = timeout
	}
	return p
}

// WithLogger sets the diagnostic logger.
func (p *Provider) WithLogger(logger *zap.Logger) *Provider {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// ipAPIResponse is the ip-api.com JSON shape, reduced to what we use.
type ipAPIResponse struct {
	Status string  `json:"status"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

// Locate resolves the coordinate. The second return is false when no
// coordinate could be determined; that is an expected outcome, not an
// error, and callers proceed without a location bias.
func (p *Provider) Locate(ctx context.Context) (Coordinate, bool) {
	if p.override != nil {
		p.logger.Debug("location from config override",
			zap.Float64("lat", p.override.Latitude),
			zap.Float64("lon", p.override.Longitude),
		)
		return *p.override, true
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint, nil)
	if err != nil {
		p.logger.Debug("location lookup skipped", zap.Error(err))
		return Coordinate{}, false
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Debug("location lookup failed", zap.Error(err))
		return Coordinate{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.Debug("location lookup rejected", zap.Int("status", resp.StatusCode))
		return Coordinate{}, false
	}

	var body ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		p.logger.Debug("location response unparseable", zap.Error(err))
		return Coordinate{}, false
	}
	if body.Status != "success" {
		p.logger.Debug("location lookup unsuccessful", zap.String("status", body.Status))
		return Coordinate{}, false
	}
	// A zero pair is the service's way of saying it has nothing.
	if body.Lat == 0 && body.Lon == 0 {
		return Coordinate{}, false
	}

	p.logger.Debug("location resolved",
		zap.Float64("lat", body.Lat),
		zap.Float64("lon", body.Lon),
	)
	return Coordinate{Latitude: body.Lat, Longitude: body.Lon}, true
}
