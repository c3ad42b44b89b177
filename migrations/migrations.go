// Package migrations holds the embedded goose SQL migrations.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
