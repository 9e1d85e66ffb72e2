// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"encoding/json"
)

// NullString is sql.NullString with flat JSON marshaling: the bare string
// when valid, null otherwise.
type NullString struct {
	sql.NullString
}

// MarshalJSON implements json.Marshaler.
func (ns NullString) MarshalJSON() ([]byte, error) {
	if !ns.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(ns.String)
}

// UnmarshalJSON implements json.Unmarshaler.
func (ns *NullString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*ns = NullString{}
		return nil
	}
	if err := json.Unmarshal(data, &ns.String); err != nil {
		return err
	}
	ns.Valid = true
	return nil
}

// NullInt64 is sql.NullInt64 with flat JSON marshaling.
type NullInt64 struct {
	sql.NullInt64
}

// MarshalJSON implements json.Marshaler.
func (ni NullInt64) MarshalJSON() ([]byte, error) {
	if !ni.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(ni.Int64)
}

// UnmarshalJSON implements json.Unmarshaler.
func (ni *NullInt64) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*ni = NullInt64{}
		return nil
	}
	if err := json.Unmarshal(data, &ni.Int64); err != nil {
		return err
	}
	ni.Valid = true
	return nil
}
