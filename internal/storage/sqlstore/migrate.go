package sqlstore

import (
	"context"
	"embed"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Migrate applies the dialect's schema. Statements are idempotent
// (IF NOT EXISTS) and executed one by one so no multi-statement DSN flag is
// needed.
func (g *Gateway) Migrate(ctx context.Context) error {
	b, err := schemaFS.ReadFile(g.dialect.schemaFile)
	if err != nil {
		return err
	}
	n := 0
	for _, stmt := range strings.Split(string(b), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := g.ApplyWrite(ctx, stmt); err != nil {
			return err
		}
		n++
	}
	log.Debug().Str("dialect", g.dialect.Name).Int("statements", n).Msg("schema applied")
	return nil
}
