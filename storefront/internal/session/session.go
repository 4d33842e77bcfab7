package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sunnyside/storefront/cart/pkg/engine"
	"github.com/sunnyside/storefront/cart/pkg/store"
	"github.com/sunnyside/storefront/internal/constants"
	"github.com/sunnyside/storefront/storefront/internal/otel"
)

// Registry holds one cart engine per authenticated user. Engines are
// created lazily on the user's first cart request and keep their
// snapshot for the lifetime of the process.
type Registry struct {
	mu      sync.Mutex
	store   store.Store
	engines map[uuid.UUID]*engine.Engine
}

func NewRegistry(s store.Store) *Registry {
	return &Registry{store: s, engines: map[uuid.UUID]*engine.Engine{}}
}

// Engine returns the user's engine, creating and loading it on first
// use. Creation resolves the identity immediately; the registry only
// ever sees authenticated users.
func (r *Registry) Engine(c context.Context, userId uuid.UUID) *engine.Engine {
	c, span := otel.Tracer.Start(c, "Registry Engine")
	defer span.End()

	r.mu.Lock()
	e, ok := r.engines[userId]
	if !ok {
		e = engine.New(r.store)
		r.engines[userId] = e
	}
	r.mu.Unlock()

	if !ok {
		logger := zerolog.Ctx(c).
			With().
			Str(constants.KEY_TAG, "Registry Engine").
			Str(constants.KEY_USER_ID, userId.String()).
			Logger()
		logger.Info().Msg("creating cart engine for user")
		c = logger.WithContext(c)
		e.SetIdentity(c, engine.Identity{UserID: userId, Ready: true})
		logger.Info().Msg("created cart engine for user")
	}
	return e
}
