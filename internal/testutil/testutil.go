package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dom/tienda-api/internal/api"
	"github.com/dom/tienda-api/internal/config"
	"github.com/dom/tienda-api/internal/domain"
	"github.com/dom/tienda-api/internal/repository"
	repoPostgres "github.com/dom/tienda-api/internal/repository/postgres"
	"github.com/dom/tienda-api/internal/service"
	"github.com/dom/tienda-api/internal/storage"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_tienda"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	err = db.AutoMigrate(
		&domain.User{},
		&domain.AccessToken{},
		&domain.Product{},
	)
	if err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.Container != nil {
		ctx := context.Background()
		tdb.Container.Terminate(ctx)
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	tables := []string{
		"access_tokens",
		"products",
		"users",
	}

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig(storageDir string) *config.Config {
	return &config.Config{
		Port:        "0", // Random port
		Environment: "test",
		StorageDir:  storageDir,
		PublicURL:   "http://api.test",
	}
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server     *httptest.Server
	DB         *TestDB
	Repos      *repository.Repositories
	Services   *service.Services
	Files      *storage.LocalStore
	StorageDir string
	Config     *config.Config
}

// NewTestServer creates a complete test server with all dependencies
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	testDB := NewTestDB(t)
	storageDir := t.TempDir()
	cfg := TestConfig(storageDir)

	files, err := storage.NewLocalStore(storageDir)
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}

	repos := repoPostgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, files)
	router := api.NewRouter(services, cfg, zerolog.Nop())

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:     server,
		DB:         testDB,
		Repos:      repos,
		Services:   services,
		Files:      files,
		StorageDir: storageDir,
		Config:     cfg,
	}

	t.Cleanup(func() {
		server.Close()
	})

	return ts
}

// URL returns the full URL for a given path
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}
