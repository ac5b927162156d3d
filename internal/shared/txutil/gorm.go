package txutil

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Bind returns a gorm handle scoped to ctx whose statements run on tx when tx
// is non-nil, so repositories share the service's *sql.Tx.
func Bind(ctx context.Context, db *gorm.DB, tx *sql.Tx) *gorm.DB {
	g := db.WithContext(ctx)
	if tx != nil {
		g.Statement.ConnPool = tx
	}
	return g
}
