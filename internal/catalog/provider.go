package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/symptom-advisor/pkg/apperrors"
	"github.com/wolfman30/symptom-advisor/pkg/logging"
)

// Provider returns a read-only snapshot of the storefront catalog.
type Provider interface {
	Snapshot(ctx context.Context) ([]Item, error)
}

// StaticProvider serves a fixed snapshot. Used for local runs and tests.
type StaticProvider struct {
	items []Item
}

func NewStaticProvider(items []Item) *StaticProvider {
	return &StaticProvider{items: append([]Item(nil), items...)}
}

func (p *StaticProvider) Snapshot(_ context.Context) ([]Item, error) {
	return append([]Item(nil), p.items...), nil
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresProvider reads the products table mirrored from the storefront.
type PostgresProvider struct {
	db queryer
}

func NewPostgresProvider(pool *pgxpool.Pool) *PostgresProvider {
	if pool == nil {
		panic("catalog: pgx pool required")
	}
	return &PostgresProvider{db: pool}
}

func newPostgresProviderWithDB(db queryer) *PostgresProvider {
	if db == nil {
		panic("catalog: db required")
	}
	return &PostgresProvider{db: db}
}

const snapshotQuery = `
	SELECT id, name, sku, slug, permalink, description, short_description,
	       tags, categories, price::float8, stock_status, stock_quantity, visible
	FROM products
	ORDER BY id
`

func (p *PostgresProvider) Snapshot(ctx context.Context) ([]Item, error) {
	rows, err := p.db.Query(ctx, snapshotQuery)
	if err != nil {
		return nil, fmt.Errorf("catalog: query products: %w: %w", apperrors.ErrExternalCollaborator, err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(
			&it.ID, &it.Name, &it.SKU, &it.Slug, &it.Permalink, &it.Description, &it.ShortDescription,
			&it.Tags, &it.Categories, &it.Price, &it.StockStatus, &it.StockQuantity, &it.Visible,
		); err != nil {
			return nil, fmt.Errorf("catalog: scan product: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate products: %w: %w", apperrors.ErrExternalCollaborator, err)
	}
	return items, nil
}

const defaultSnapshotKey = "catalog:snapshot:v1"

// CachedProvider keeps the latest snapshot in Redis for ttl and falls back
// to the wrapped provider on a miss. Redis errors never fail a read.
type CachedProvider struct {
	next   Provider
	redis  *redis.Client
	ttl    time.Duration
	key    string
	logger *logging.Logger
}

func NewCachedProvider(next Provider, client *redis.Client, ttl time.Duration, logger *logging.Logger) *CachedProvider {
	if next == nil {
		panic("catalog: provider cannot be nil")
	}
	if client == nil {
		panic("catalog: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CachedProvider{next: next, redis: client, ttl: ttl, key: defaultSnapshotKey, logger: logger}
}

func (p *CachedProvider) Snapshot(ctx context.Context) ([]Item, error) {
	data, err := p.redis.Get(ctx, p.key).Bytes()
	switch {
	case err == nil:
		var items []Item
		jsonErr := json.Unmarshal(data, &items)
		if jsonErr == nil {
			return items, nil
		}
		p.logger.Warn("discarding corrupt catalog cache entry", "error", jsonErr)
	case errors.Is(err, redis.Nil):
	default:
		p.logger.Warn("catalog cache read failed", "error", err)
	}

	items, err := p.next.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(items); err == nil {
		if err := p.redis.Set(ctx, p.key, payload, p.ttl).Err(); err != nil {
			p.logger.Warn("catalog cache write failed", "error", err)
		}
	}
	return items, nil
}

// Invalidate drops the cached snapshot so the next read refreshes it.
func (p *CachedProvider) Invalidate(ctx context.Context) error {
	if err := p.redis.Del(ctx, p.key).Err(); err != nil {
		return fmt.Errorf("catalog: invalidate cache: %w", err)
	}
	return nil
}
