package bootstrap_test

import (
	"context"
	"testing"

	"prapp/internal/bootstrap"
	"prapp/internal/platform/config"
)

func TestWiredDriversPersistCompletedSessions(t *testing.T) {
	t.Parallel()
	for _, driver := range []string{config.DriverSQLite, config.DriverFile} {
		cfg, err := config.New(t.TempDir())
		if err != nil {
			t.Fatalf("config: %v", err)
		}
		cfg.StorageDriver = driver
		cfg.WarmupDelay = 0

		app, err := bootstrap.New(cfg, nil)
		if err != nil {
			t.Fatalf("%s: new app: %v", driver, err)
		}
		if _, err := app.SessionCLI.Complete(context.Background(), "abc123"); err != nil {
			t.Fatalf("%s: complete: %v", driver, err)
		}
		if err := app.Close(); err != nil {
			t.Fatalf("%s: close: %v", driver, err)
		}

		reopened, err := bootstrap.New(cfg, nil)
		if err != nil {
			t.Fatalf("%s: reopen: %v", driver, err)
		}
		got := reopened.ProfileCLI.Show(context.Background())
		_ = reopened.Close()
		if got.ActivationState != "activated" || len(got.Sessions) != 1 || got.Sessions[0].ID != "abc123" {
			t.Fatalf("%s: completion not persisted: %+v", driver, got)
		}
	}
}

func TestUnknownDriverRejected(t *testing.T) {
	t.Parallel()
	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg.StorageDriver = "redis"
	if _, err := bootstrap.New(cfg, nil); err == nil {
		t.Fatalf("expected unknown driver to fail")
	}
}
