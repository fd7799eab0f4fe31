package postgres

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestLoadMigrationsFromFS_Success(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"sql/migrations/0002_more.up.sql":   {Data: []byte("CREATE TABLE test_b (id INT);")},
		"sql/migrations/0002_more.down.sql": {Data: []byte("DROP TABLE IF EXISTS test_b;")},
		"sql/migrations/0001_init.up.sql":   {Data: []byte("CREATE TABLE test_a (id INT);")},
		"sql/migrations/0001_init.down.sql": {Data: []byte("DROP TABLE IF EXISTS test_a;")},
	}

	migrations, err := loadMigrationsFromFS(fsys)
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	require.Equal(t, int64(1), migrations[0].Version)
	require.Equal(t, "init", migrations[0].Name)
	require.Equal(t, "0001_init", migrations[0].String())
	require.Equal(t, int64(2), migrations[1].Version)
	require.Equal(t, "DROP TABLE IF EXISTS test_b;", migrations[1].body(migrationDown))
}

func TestLoadMigrationsFromFS_Embedded(t *testing.T) {
	t.Parallel()

	migrations, err := loadMigrationsFromFS(migrationsFS)
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	require.Equal(t, "create_orders", migrations[0].Name)
	require.Equal(t, "create_users", migrations[1].Name)
	require.True(t, strings.Contains(migrations[1].UpSQL, "user_authorities"))
}

func TestLoadMigrationsFromFS_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		fsys    fstest.MapFS
		wantErr string
	}{
		{
			name:    "no files",
			fsys:    fstest.MapFS{},
			wantErr: "no migration files",
		},
		{
			name: "missing down",
			fsys: fstest.MapFS{
				"sql/migrations/0001_init.up.sql": {Data: []byte("CREATE TABLE a (id INT);")},
			},
			wantErr: "both up and down",
		},
		{
			name: "invalid name",
			fsys: fstest.MapFS{
				"sql/migrations/not_a_migration.sql": {Data: []byte("SELECT 1;")},
			},
			wantErr: "invalid migration file name",
		},
		{
			name: "empty body",
			fsys: fstest.MapFS{
				"sql/migrations/0001_init.up.sql":   {Data: []byte("   \n")},
				"sql/migrations/0001_init.down.sql": {Data: []byte("DROP TABLE IF EXISTS a;")},
			},
			wantErr: "empty",
		},
		{
			name: "name mismatch",
			fsys: fstest.MapFS{
				"sql/migrations/0001_init.up.sql":    {Data: []byte("CREATE TABLE a (id INT);")},
				"sql/migrations/0001_other.down.sql": {Data: []byte("DROP TABLE a;")},
			},
			wantErr: "name mismatch",
		},
		{
			name: "zero version",
			fsys: fstest.MapFS{
				"sql/migrations/0000_init.up.sql":   {Data: []byte("CREATE TABLE a (id INT);")},
				"sql/migrations/0000_init.down.sql": {Data: []byte("DROP TABLE a;")},
			},
			wantErr: "positive",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := loadMigrationsFromFS(tc.fsys)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestSelectMigrations(t *testing.T) {
	t.Parallel()

	all := []migration{
		{Version: 1, Name: "a"},
		{Version: 2, Name: "b"},
		{Version: 3, Name: "c"},
	}
	versions := func(ms []migration) []int64 {
		out := make([]int64, 0, len(ms))
		for _, m := range ms {
			out = append(out, m.Version)
		}
		return out
	}

	plan, err := selectMigrations(all, []int64{1}, migrationUp, 0)
	require.NoError(t, err)
	require.Equal(t, []int64{2, 3}, versions(plan))

	plan, err = selectMigrations(all, []int64{1}, migrationUp, 1)
	require.NoError(t, err)
	require.Equal(t, []int64{2}, versions(plan))

	plan, err = selectMigrations(all, []int64{1, 2, 3}, migrationDown, 2)
	require.NoError(t, err)
	require.Equal(t, []int64{3, 2}, versions(plan))

	plan, err = selectMigrations(all, nil, migrationDown, 1)
	require.NoError(t, err)
	require.Empty(t, plan)

	_, err = selectMigrations(all, []int64{7}, migrationDown, 1)
	require.Error(t, err)
}

func TestMigrationStatus_Pending(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1, MigrationStatus{Applied: 1, Available: 2}.Pending())
	require.Equal(t, 0, MigrationStatus{Applied: 3, Available: 2}.Pending())
}
