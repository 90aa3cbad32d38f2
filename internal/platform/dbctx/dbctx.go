package dbctx

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/pokedex-cache/internal/platform/ctxutil"
)

// Context bundles a request context with an optional GORM transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// DB returns the transaction when set, otherwise fallback, bound to Ctx.
func (c Context) DB(fallback *gorm.DB) *gorm.DB {
	t := c.Tx
	if t == nil {
		t = fallback
	}
	return t.WithContext(c.Context())
}

// Context returns Ctx, or context.Background when unset.
func (c Context) Context() context.Context {
	return ctxutil.Default(c.Ctx)
}
