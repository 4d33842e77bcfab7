package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/sunnyside/storefront/store/internal/repository"
)

type testDeps struct {
	pool           *pgxpool.Pool
	cache          *redis.Client
	pgContainer    *postgres.PostgresContainer
	redisContainer *testRedis.RedisContainer
	queries        *repository.Queries
	service        StoreService
}

func setup(t *testing.T, c context.Context) *testDeps {
	t.Helper()

	migrations := filepath.Join("..", "..", "migrations")
	pgContainer, err := postgres.Run(
		c,
		"postgres:16.6-alpine3.21",
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.WithDatabase("postgres"),
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			filepath.Join(migrations, "000001_create_menu_items.up.sql"),
			filepath.Join(migrations, "000002_create_cart_items.up.sql"),
			filepath.Join(migrations, "000003_create_orders.up.sql"),
			filepath.Join(migrations, "000004_seed_menu_items.up.sql"),
		),
	)
	if err != nil {
		t.Fatalf("failed running postgres container with error: %s", err)
	}

	pgConnStr, err := pgContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting postgres connection string with error: %s", err)
	}

	pool, err := pgxpool.New(c, pgConnStr)
	if err != nil {
		t.Fatalf("failed creating postgres pool with error: %s", err)
	}
	if err = pool.Ping(c); err != nil {
		t.Fatalf("failed ping postgres pool with error: %s", err)
	}

	redisContainer, err := testRedis.Run(c, "redis:7.4.2-alpine3.21")
	if err != nil {
		t.Fatalf("failed running redis container with error: %s", err)
	}

	redisConnStr, err := redisContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting redis connection string with error: %s", err)
	}

	redisOpt, err := redis.ParseURL(redisConnStr)
	if err != nil {
		t.Fatalf("failed parsing redis connection string with error: %s", err)
	}

	redisClient := redis.NewClient(redisOpt)
	if err = redisClient.Ping(c).Err(); err != nil {
		t.Fatalf("failed ping redis client with error: %s", err)
	}

	queries := repository.New(pool)
	return &testDeps{
		pool:           pool,
		cache:          redisClient,
		pgContainer:    pgContainer,
		redisContainer: redisContainer,
		queries:        queries,
		service:        NewStoreService(pool, queries, redisClient),
	}
}

func (d *testDeps) teardown(t *testing.T) {
	t.Helper()
	d.cache.Close()
	d.pool.Close()
	if err := testcontainers.TerminateContainer(d.pgContainer); err != nil {
		t.Fatalf("failed to terminate container: %s", err)
	}
	if err := testcontainers.TerminateContainer(d.redisContainer); err != nil {
		t.Fatalf("failed to terminate container: %s", err)
	}
}
