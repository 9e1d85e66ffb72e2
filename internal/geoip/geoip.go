// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geoip provides IP-to-country lookup over a MaxMind
// GeoLite2-Country database. Lookups degrade to an empty string when no
// database is configured.
package geoip

import (
	"fmt"
	"net"
	"sync"

	"github.com/oschwald/maxminddb-golang"
)

// Lookup resolves client IPs to 2-letter ISO country codes.
type Lookup struct {
	mu sync.RWMutex
	db *maxminddb.Reader
}

type geoRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// NewLookup creates a disabled lookup; call Open to enable it.
func NewLookup() *Lookup {
	return &Lookup{}
}

// Open loads the database at dbPath.
func (g *Lookup) Open(dbPath string) error {
	db, err := maxminddb.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening geoip database: %w", err)
	}

	g.mu.Lock()
	if g.db != nil {
		_ = g.db.Close()
	}
	g.db = db
	g.mu.Unlock()
	return nil
}

// Country returns the ISO country code for ip. Returns "LOCAL" for
// private/loopback addresses and "" when the lookup is disabled or the IP
// is unresolvable. The ip may carry a port suffix.
func (g *Lookup) Country(ip string) string {
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}
	if parsed.IsLoopback() || parsed.IsPrivate() {
		return "LOCAL"
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.db == nil {
		return ""
	}

	var record geoRecord
	if err := g.db.Lookup(parsed, &record); err != nil {
		return ""
	}
	return record.Country.ISOCode
}

// Close closes the underlying database.
func (g *Lookup) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.db == nil {
		return nil
	}
	err := g.db.Close()
	g.db = nil
	return err
}
