package bootstrap

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/symptom-advisor/internal/catalog"
	appconfig "github.com/wolfman30/symptom-advisor/internal/config"
	"github.com/wolfman30/symptom-advisor/internal/knowledge"
	"github.com/wolfman30/symptom-advisor/internal/learning"
	"github.com/wolfman30/symptom-advisor/pkg/logging"
)

// Stores bundles the persistence collaborators shared by both binaries.
type Stores struct {
	Catalog     catalog.Provider
	Knowledge   knowledge.Store
	Suggestions learning.SuggestionStore
}

// BuildStores picks Postgres-backed stores when a pool is available and
// in-memory ones otherwise. The catalog snapshot is cached in Redis when a
// client is given.
func BuildStores(cfg *appconfig.Config, pool *pgxpool.Pool, redisClient *redis.Client, logger *logging.Logger) Stores {
	if logger == nil {
		logger = logging.Default()
	}

	var stores Stores
	if pool != nil {
		stores.Catalog = catalog.NewPostgresProvider(pool)
		stores.Knowledge = knowledge.NewPostgresStore(pool)
		stores.Suggestions = learning.NewPostgresSuggestionStore(pool)
	} else {
		logger.Warn("no database configured; using in-memory stores and an empty catalog")
		stores.Catalog = catalog.NewStaticProvider(nil)
		stores.Knowledge = knowledge.NewMemoryStore()
		stores.Suggestions = learning.NewMemorySuggestionStore()
	}

	if redisClient != nil {
		var ttl time.Duration
		if cfg != nil {
			ttl = cfg.CatalogCacheTTL
		}
		stores.Catalog = catalog.NewCachedProvider(stores.Catalog, redisClient, ttl, logger.Component("catalog"))
		logger.Info("catalog cache enabled")
	}
	return stores
}
