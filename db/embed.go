// Package db provides embedded database schema and catalog seed data.
package db

import _ "embed"

// Schema contains the DDL statements for all application tables.
//
//go:embed migrations/001_schema.sql
var Schema string

// Seed contains the catalog document (products and categories) used both as
// the embedded catalog source and as input for the seed-db tool.
//
//go:embed seed/products.json
var Seed []byte
