package db

import "embed"

// Migrations holds the goose SQL files, rooted at "migrations".
//
//go:embed migrations/*.sql
var Migrations embed.FS
