package migration

import (
	"bytes"
	"io"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	src, err := iofs.New(migrationsFS, "migrations")
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	up, _, err := src.ReadUp(first)
	require.NoError(t, err)
	upSQL, err := io.ReadAll(up)
	require.NoError(t, err)

	for _, want := range []string{
		"CREATE TABLE IF NOT EXISTS products",
		"CREATE TABLE IF NOT EXISTS documents",
		"CREATE TABLE IF NOT EXISTS custom_doc_types",
		"uq_products_name_standard",
		"uq_products_base_designation",
		"uq_products_scope_sequence",
		"uq_documents_designation",
		"idx_documents_scope_sequence",
		"ON DELETE RESTRICT",
	} {
		assert.Contains(t, string(upSQL), want)
	}
	assert.NotContains(t, string(upSQL), "uq_documents_scope_sequence")

	down, _, err := src.ReadDown(first)
	require.NoError(t, err)
	downSQL, err := io.ReadAll(down)
	require.NoError(t, err)
	assert.Contains(t, string(downSQL), "DROP TABLE IF EXISTS products")
}

func TestDatabaseURL(t *testing.T) {
	tests := []struct {
		name    string
		dsn     string
		want    string
		wantErr bool
	}{
		{name: "postgres scheme", dsn: "postgres://app:secret@db:5432/designator?sslmode=disable", want: "pgx5://app:secret@db:5432/designator?sslmode=disable"},
		{name: "postgresql scheme", dsn: "postgresql://app@db:5432/designator", want: "pgx5://app@db:5432/designator"},
		{name: "already pgx5", dsn: "pgx5://app@db/designator", want: "pgx5://app@db/designator"},
		{name: "other driver", dsn: "mysql://app@db/designator", wantErr: true},
		{name: "keyword form", dsn: "host=db user=app", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := databaseURL(tt.dsn)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_RejectsUnsupportedDSN(t *testing.T) {
	mg, err := New("mysql://app@db/designator", nil)
	assert.Nil(t, mg)
	assert.ErrorContains(t, err, "unsupported database url scheme")
}

func TestLogAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{
		Output:     &buf,
		Level:      hclog.Debug,
		JSONFormat: true,
	})
	a := &logAdapter{logger: logger}

	assert.True(t, a.Verbose())
	a.Printf("Start buffering %d/u %s\n", 1, "init")
	assert.Contains(t, buf.String(), "Start buffering 1/u init")

	quiet := &logAdapter{logger: hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.Info})}
	assert.False(t, quiet.Verbose())
}
