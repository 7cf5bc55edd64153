// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poolhouse Contributors

package pool

import "encoding/json"

// Team is a sports team available for picks. Identity is immutable,
// attributes are mutable. Division and conference are free text.
type Team struct {
	Meta
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	TeamName     string `json:"teamname,omitempty"`
	ShortName    string `json:"shortName,omitempty"`
	Division     string `json:"division,omitempty"`
	Conference   string `json:"conference,omitempty"`
	Image        string `json:"image,omitempty"`
	Active       bool   `json:"isActive"`
}

// League groups members for a season. Members and the points mapping hold
// opaque identities; no referential integrity is enforced against users,
// so callers must guard against dangling references themselves.
type League struct {
	Meta
	Name    string             `json:"name"`
	Year    int                `json:"year"`
	Members []string           `json:"members"`
	Points  map[string]float64 `json:"points,omitempty"`
}

// Pick holds one user's ordered pick entries for a league. The entry
// structure is opaque to the backend, and nothing ties the league id to
// that league's member list.
type Pick struct {
	Meta
	User   string            `json:"user"`
	League string            `json:"league"`
	Picks  []json.RawMessage `json:"picks"`
}

// Bracket is a playoff bracket for a season. The playoff structure is
// opaque and replaced wholesale on update; there is no versioning.
type Bracket struct {
	Meta
	Year     int             `json:"year"`
	Playoffs json.RawMessage `json:"playoffs,omitempty"`
}
