package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/blackwell-systems/usermanual/internal/cache"
	"github.com/blackwell-systems/usermanual/internal/session"
	"github.com/blackwell-systems/usermanual/internal/store"
)

// openStore opens the configured session store.
func openStore(ctx context.Context) (store.Store, error) {
	switch strings.ToLower(cfg.Store.Driver) {
	case "", "sqlite":
		db, err := store.Open(cfg.Store.Path, logger)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		return db, nil
	case "mongo", "mongodb":
		if cfg.Store.MongoURI == "" {
			return nil, errors.New("store.mongo_uri is required for the mongo driver")
		}
		ms, err := store.OpenMongo(ctx, cfg.Store.MongoURI, cfg.Store.MongoDatabase, logger)
		if err != nil {
			return nil, fmt.Errorf("connecting to mongo: %w", err)
		}
		return ms, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q (use sqlite or mongo)", cfg.Store.Driver)
	}
}

// openService wires the store and the optional Redis cache into a session
// service. The returned func releases both.
func openService(ctx context.Context) (*session.Service, func(), error) {
	st, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	var rc cache.ResultCache
	closeCache := func() {}
	if cfg.Cache.RedisAddr != "" {
		client, err := cache.Dial(ctx, cfg.Cache.RedisAddr)
		if err != nil {
			// Analysis still works without the cache.
			logger.Warn("redis unavailable, caching disabled", zap.String("addr", cfg.Cache.RedisAddr), zap.Error(err))
		} else {
			rc = cache.NewRedis(client, cfg.Cache.TTL)
			closeCache = func() { _ = client.Close() }
		}
	}

	svc := session.New(st, rc, logger)
	cleanup := func() {
		closeCache()
		if err := st.Close(); err != nil {
			logger.Warn("closing store", zap.Error(err))
		}
	}
	return svc, cleanup, nil
}

// resolveSession finds a session by full id or unique id prefix.
func resolveSession(ctx context.Context, svc *session.Service, ref string) (*store.Session, error) {
	sess, err := svc.Get(ctx, ref)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	all, err := svc.List(ctx)
	if err != nil {
		return nil, err
	}
	var matches []store.Session
	for _, s := range all {
		if strings.HasPrefix(s.ID, ref) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("session %q: %w", ref, store.ErrNotFound)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("session prefix %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// writeJSON prints v as indented JSON to stdout.
func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// shortID is the id prefix shown in tables.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
