package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/elmorders/internal/storage/postgres"
)

type migrateCall struct {
	direction string
	steps     int
}

type fakeMigrator struct {
	calls  []migrateCall
	status postgres.MigrationStatus
	err    error
	closed bool
}

func (f *fakeMigrator) MigrateUp(_ context.Context, steps int) error {
	f.calls = append(f.calls, migrateCall{direction: "up", steps: steps})
	return f.err
}

func (f *fakeMigrator) MigrateDown(_ context.Context, steps int) error {
	f.calls = append(f.calls, migrateCall{direction: "down", steps: steps})
	return f.err
}

func (f *fakeMigrator) Status(context.Context) (postgres.MigrationStatus, error) {
	return f.status, nil
}

func (f *fakeMigrator) Close() error {
	f.closed = true
	return nil
}

func withFakeStore(t *testing.T, fake *fakeMigrator) *string {
	t.Helper()

	var gotDSN string
	prev := openStore
	openStore = func(_ context.Context, dsn string) (migrator, error) {
		gotDSN = dsn
		return fake, nil
	}
	t.Cleanup(func() { openStore = prev })
	return &gotDSN
}

func TestRun_Up(t *testing.T) {
	fake := &fakeMigrator{status: postgres.MigrationStatus{Version: 2, Applied: 2, Available: 2}}
	dsn := withFakeStore(t, fake)
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), []string{"-dsn=postgres://x", "-steps=1"}, &out))
	require.Equal(t, "postgres://x", *dsn)
	require.Equal(t, []migrateCall{{direction: "up", steps: 1}}, fake.calls)
	require.True(t, fake.closed)
	require.Contains(t, out.String(), "migrate up ok: version=2 applied=2 pending=0")
}

func TestRun_Down(t *testing.T) {
	fake := &fakeMigrator{status: postgres.MigrationStatus{Version: 1, Applied: 1, Available: 2}}
	withFakeStore(t, fake)
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), []string{"-direction=DOWN", "-dsn=postgres://x", "-steps=1"}, &out))
	require.Equal(t, []migrateCall{{direction: "down", steps: 1}}, fake.calls)
	require.Contains(t, out.String(), "pending=1")
}

func TestRun_StatusDoesNotMigrate(t *testing.T) {
	fake := &fakeMigrator{}
	withFakeStore(t, fake)

	require.NoError(t, run(context.Background(), []string{"-direction=status", "-dsn=postgres://x"}, &bytes.Buffer{}))
	require.Empty(t, fake.calls)
}

func TestRun_Errors(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OMS_POSTGRES_DSN", "")

	fake := &fakeMigrator{err: errors.New("lock timeout")}
	withFakeStore(t, fake)

	err := run(context.Background(), []string{"-direction=status"}, &bytes.Buffer{})
	require.ErrorContains(t, err, "required")

	err = run(context.Background(), []string{"-direction=sideways", "-dsn=postgres://x"}, &bytes.Buffer{})
	require.ErrorContains(t, err, "unsupported direction")

	err = run(context.Background(), []string{"-dsn=postgres://x"}, &bytes.Buffer{})
	require.ErrorContains(t, err, "lock timeout")
}

func TestRun_DSNFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OMS_POSTGRES_DSN", "postgres://from-env")

	dsn := withFakeStore(t, &fakeMigrator{})
	require.NoError(t, run(context.Background(), []string{"-direction=status"}, &bytes.Buffer{}))
	require.Equal(t, "postgres://from-env", *dsn)
}
