package integrationtests

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	backend "uni-assistant/internal/api"
	"uni-assistant/internal/chat"
	"uni-assistant/internal/config"
	"uni-assistant/internal/database"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

func createDB(t *testing.T) *gorm.DB {
	uri := setupPostgresContainer(t, context.Background())
	db, err := database.NewDatabase(uri)
	require.NoError(t, err)
	return db
}

func setupPostgresContainer(t *testing.T, ctx context.Context) string {
	dbName, dbUser, dbPassword := "test_db", "test_user", "test_password"

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	t.Cleanup(func() {
		err := postgresContainer.Terminate(context.Background())
		require.NoError(t, err, "Failed to terminate PostgreSQL container")
	})

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get PostgreSQL connection string")

	return connStr
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "integration-secret",
		SessionTTL:      time.Hour,
		ReplyBackend:    config.ReplyBackendStatic,
		ReplyTimeout:    time.Second,
		OwnershipPolicy: config.OwnershipSource,
	}
}

func startServer(t *testing.T, db *gorm.DB, cfg *config.Config, generator chat.ReplyGenerator) string {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	backend.NewBackendService(db, cfg, generator).AddRoutes(r)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return server.URL
}
