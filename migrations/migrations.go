// Package migrations embeds the database schema shared by the api and worker services.
package migrations

import _ "embed"

// Schema is safe to apply on every start
//
//go:embed schema.sql
var Schema string
