package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/playforge/arcadehub/internal/api"
	"github.com/playforge/arcadehub/internal/auth"
	"github.com/playforge/arcadehub/internal/hub"
	"github.com/playforge/arcadehub/internal/store"
)

const appConfigDirName = "arcadehub"

func main() {
	log.Printf("Starting arcade hub (Go %s)...", runtime.Version())

	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("skipping .env: %v", err)
	}

	addr := envOr("ARCADEHUB_ADDR", ":8080")
	dbPath := envOr("ARCADEHUB_DB", defaultDBPath())
	secretFile := envOr("ARCADEHUB_SECRET_FILE", filepath.Join(appDataDir(), "secrets.json"))
	adminPrincipal := os.Getenv("ARCADEHUB_ADMIN")

	db, err := store.NewSQLiteDB(dbPath)
	if err != nil {
		log.Fatalf("database open failed: %v", err)
	}
	if err := db.Migrate(); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	keys := auth.NewKeyringStore("arcadehub", secretFile)
	secret, err := keys.SigningSecret()
	if err != nil {
		log.Fatalf("signing secret unavailable: %v", err)
	}
	issuer, err := auth.NewIssuer(secret)
	if err != nil {
		log.Fatalf("token issuer init failed: %v", err)
	}

	service := hub.NewService(db, log.New(os.Stdout, "[HUB] ", log.LstdFlags))
	if err := service.Bootstrap(adminPrincipal); err != nil {
		log.Fatalf("admin bootstrap failed: %v", err)
	}

	server := api.NewServer(db, service, issuer)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s (db=%s)", addr, dbPath)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Println("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var closeErr error
	closeErr = multierr.Append(closeErr, httpServer.Shutdown(shutdownCtx))
	closeErr = multierr.Append(closeErr, db.Close())
	if closeErr != nil {
		log.Printf("shutdown finished with errors: %v", closeErr)
		os.Exit(1)
	}
	log.Println("shutdown complete")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func defaultDBPath() string {
	base := appDataDir()
	if err := os.MkdirAll(base, 0o755); err != nil {
		log.Printf("appdata mkdir failed: %v; using working directory", err)
		return "arcadehub.db"
	}
	return filepath.Join(base, "arcadehub.db")
}

// appDataDir returns an OS-appropriate writable directory.
func appDataDir() string {
	if d, err := os.UserConfigDir(); err == nil && d != "" {
		return filepath.Join(d, appConfigDirName)
	}
	if h, err := os.UserHomeDir(); err == nil && h != "" {
		return filepath.Join(h, "."+appConfigDirName)
	}
	return "."
}
