package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/courtflow/progression/application"
	"github.com/courtflow/progression/court"
	"github.com/courtflow/progression/event"
	"github.com/courtflow/progression/hearing"
	"github.com/courtflow/progression/internal/config"
	"github.com/courtflow/progression/notice"
	"github.com/courtflow/progression/prosecutioncase"
	"github.com/courtflow/progression/register"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

var vars = []string{
	"PROGRESSION_BACKEND",
	"POSTGRES_EVENTSTORE",
	"MONGO_URL",
	"NATS_URL",
	"REDIS_URL",
	"PROGRESSION_REFDATA_TTL",
	"PROGRESSION_MAX_RETRIES",
	"PROGRESSION_DEVELOPMENT",
}

func unsetEnv(t *testing.T) {
	t.Helper()
	for _, key := range vars {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_defaults(t *testing.T) {
	unsetEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := config.Config{
		Backend:    config.Memory,
		RefdataTTL: 10 * time.Minute,
		MaxRetries: 3,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	unsetEnv(t)
	t.Setenv("PROGRESSION_BACKEND", "postgres")
	t.Setenv("POSTGRES_EVENTSTORE", "postgres://localhost:5432/progression")
	t.Setenv("NATS_URL", "nats://localhost:4222")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("PROGRESSION_REFDATA_TTL", "1m")
	t.Setenv("PROGRESSION_MAX_RETRIES", "5")
	t.Setenv("PROGRESSION_DEVELOPMENT", "true")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := config.Config{
		Backend:     config.Postgres,
		PostgresURL: "postgres://localhost:5432/progression",
		NATSURL:     "nats://localhost:4222",
		RedisURL:    "redis://localhost:6379/0",
		RefdataTTL:  time.Minute,
		MaxRetries:  5,
		Development: true,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want error
	}{
		{name: "memory", cfg: config.Config{Backend: config.Memory}},
		{name: "postgres", cfg: config.Config{Backend: config.Postgres, PostgresURL: "postgres://"}},
		{name: "postgres without url", cfg: config.Config{Backend: config.Postgres}, want: config.ErrMissingURL},
		{name: "mongo without url", cfg: config.Config{Backend: config.Mongo}, want: config.ErrMissingURL},
		{name: "unknown", cfg: config.Config{Backend: "sqlite"}, want: config.ErrUnknownBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.want == nil && err != nil {
				t.Fatalf("Validate failed: %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("Validate should fail with %q; got %v", tt.want, err)
			}
		})
	}
}

func TestRegistries(t *testing.T) {
	events := config.Events().Names()
	for _, name := range []string{
		application.ProceedingsInitiated,
		hearing.ProsecutionCasesResulted,
		prosecutioncase.GroupCaseStatusUpdated,
		register.CourtRegisterNotifiedV2,
		notice.NoticeGenerated,
	} {
		if !slices.Contains(events, name) {
			t.Errorf("event registry should contain %q", name)
		}
	}

	commands := config.Commands().Names()
	for _, name := range []string{
		application.InitiateProceedingsCmd,
		hearing.ResultCmd,
		prosecutioncase.RecordMemberStatusCmd,
		register.NotifyCmd,
		notice.GenerateCmd,
	} {
		if !slices.Contains(commands, name) {
			t.Errorf("command registry should contain %q", name)
		}
	}
}

func TestConfig_Setup(t *testing.T) {
	ctx := context.Background()
	cfg := config.Config{Backend: config.Memory, MaxRetries: 3}

	app, err := cfg.Setup(ctx, zap.NewNop())
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer app.Close(ctx)

	if !slices.Contains(app.Dispatcher.Commands(), register.RecordCmd) {
		t.Errorf("dispatcher should handle %q", register.RecordCmd)
	}

	id := uuid.New()
	events, err := app.Dispatcher.Dispatch(ctx, application.InitiateProceedings(application.Proceedings{
		Application: court.CourtApplication{
			ID:    id,
			Type:  court.ApplicationType{Code: "MC80527", LinkType: court.Linked},
			Cases: []court.ApplicationCase{{ProsecutionCaseID: uuid.New()}},
		},
	}))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	want := []string{
		application.ProceedingsInitiated,
		application.ApplicationAddedToCase,
		application.ApplicationReferredToBoxwork,
	}
	if diff := cmp.Diff(want, event.Names(events...)); diff != "" {
		t.Errorf("unexpected events (-want +got):\n%s", diff)
	}

	families, err := app.Metrics.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Errorf("dispatcher metrics should be registered")
	}
}
