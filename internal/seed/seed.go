// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poolhouse Contributors

// Package seed ships the embedded team roster and loads it into the store.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/poolhouse/poolhouse/internal/pool"
)

//go:embed seeds/teams.json
var teamsJSON []byte

// schemaCache holds the compiled schema to avoid recompilation.
var schemaCache *jschema.Schema

// Team is one roster entry in seeds/teams.json. It carries the team
// attributes without store identity; ids are assigned on insert.
type Team struct {
	Name         string `json:"name" jsonschema:"required,minLength=1"`
	Abbreviation string `json:"abbreviation" jsonschema:"required,minLength=2,maxLength=4"`
	TeamName     string `json:"teamname,omitempty"`
	ShortName    string `json:"shortName,omitempty"`
	Division     string `json:"division,omitempty"`
	Conference   string `json:"conference,omitempty"`
	Image        string `json:"image,omitempty"`
	Active       bool   `json:"isActive"`
}

// GenerateSchema generates the JSON Schema the embedded roster must satisfy:
// an array of Team entries.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
	}
	entry := r.Reflect(&Team{})
	entry.Version = ""

	schema := &jsonschema.Schema{
		Version:     jsonschema.Version,
		ID:          jsonschema.ID(SchemaID()),
		Title:       "Poolhouse Team Roster",
		Description: "Schema for the embedded teams seed file",
		Type:        "array",
		Items:       entry,
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.Code("SCHEMA_MARSHAL_FAILED").Wrap(err)
	}
	return data, nil
}

// SchemaID returns the schema $id for the roster seed file.
func SchemaID() string {
	return "https://poolhouse.dev/schemas/teams.schema.json"
}

// Validate checks roster JSON against the seed schema.
func Validate(data []byte) error {
	if len(data) == 0 {
		return oops.Code("SEED_EMPTY").Errorf("seed data is empty")
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return oops.Code("SEED_INVALID").With("operation", "parse seed JSON").Wrap(err)
	}

	sch, err := compiledSchema()
	if err != nil {
		return err
	}

	if err := sch.Validate(doc); err != nil {
		return oops.Code("SEED_INVALID").With("operation", "validate seed data").Wrap(err)
	}
	return nil
}

// compiledSchema returns the cached compiled schema or compiles it.
func compiledSchema() (*jschema.Schema, error) {
	if schemaCache != nil {
		return schemaCache, nil
	}

	schemaBytes, err := GenerateSchema()
	if err != nil {
		return nil, err
	}

	var schemaDoc any
	if err := json.Unmarshal(schemaBytes, &schemaDoc); err != nil {
		return nil, oops.Code("SCHEMA_INVALID").With("operation", "parse schema JSON").Wrap(err)
	}

	c := jschema.NewCompiler()
	if err := c.AddResource("teams.schema.json", schemaDoc); err != nil {
		return nil, oops.Code("SCHEMA_INVALID").With("operation", "add schema resource").Wrap(err)
	}

	sch, err := c.Compile("teams.schema.json")
	if err != nil {
		return nil, oops.Code("SCHEMA_INVALID").With("operation", "compile schema").Wrap(err)
	}

	schemaCache = sch
	return sch, nil
}

// ResetSchemaCache clears the cached schema. Used for testing.
func ResetSchemaCache() {
	schemaCache = nil
}

// Teams validates the embedded roster and returns it as store documents.
func Teams() ([]*pool.Team, error) {
	if err := Validate(teamsJSON); err != nil {
		return nil, err
	}

	var entries []Team
	if err := json.Unmarshal(teamsJSON, &entries); err != nil {
		return nil, oops.Code("SEED_INVALID").With("operation", "decode seed entries").Wrap(err)
	}

	teams := make([]*pool.Team, 0, len(entries))
	for _, e := range entries {
		teams = append(teams, &pool.Team{
			Name:         e.Name,
			Abbreviation: e.Abbreviation,
			TeamName:     e.TeamName,
			ShortName:    e.ShortName,
			Division:     e.Division,
			Conference:   e.Conference,
			Image:        e.Image,
			Active:       e.Active,
		})
	}
	return teams, nil
}

// Apply inserts the embedded roster into the teams collection. Entries whose
// abbreviation already exists are skipped, so repeated runs do not create
// duplicates. Returns how many entries were created and how many skipped.
func Apply(ctx context.Context, teams pool.Collection[*pool.Team]) (created, skipped int, err error) {
	entries, err := Teams()
	if err != nil {
		return 0, 0, err
	}

	for _, team := range entries {
		if createErr := teams.Create(ctx, team); createErr != nil {
			if _, ok := pool.AsConstraint(createErr); ok {
				skipped++
				continue
			}
			return created, skipped, oops.Code("SEED_FAILED").
				With("abbreviation", team.Abbreviation).
				Wrap(createErr)
		}
		created++
	}
	return created, skipped, nil
}
