// Package assets embeds the SQL migrations so the binary carries its schema.
package assets

import (
	"embed"
	"io/fs"
	"sort"
)

//go:embed migrations/*.sql
var FS embed.FS

// Migrations lists the embedded migration files in apply order.
func Migrations() ([]string, error) {
	names, err := fs.Glob(FS, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// ReadMigration returns the body of one migration file.
func ReadMigration(name string) (string, error) {
	b, err := FS.ReadFile(name)
	return string(b), err
}
