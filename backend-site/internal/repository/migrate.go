// Package repository persists leads, sessions and demo accounts.
package repository

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// Execer runs a statement
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) error
}

// Schema returns the DDL applied by Migrate
func Schema() string {
	return schemaSQL
}

// Migrate creates the site tables when they do not exist
func Migrate(ctx context.Context, db Execer) error {
	if err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
