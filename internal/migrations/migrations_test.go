package migrations

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFS_ContainsSchema(t *testing.T) {
	files, err := fs.Glob(FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	b, err := fs.ReadFile(FS, files[0])
	require.NoError(t, err)
	sqlText := string(b)
	assert.Contains(t, sqlText, "-- +goose Up")
	assert.Contains(t, sqlText, "UNIQUE (user_id, role)")
}

func TestRun_UsesEmbeddedDir(t *testing.T) {
	orig := upContext
	t.Cleanup(func() { upContext = orig })

	var gotDir string
	upContext = func(_ context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}
	require.NoError(t, Run(context.Background(), nil))
	assert.Equal(t, ".", gotDir)
}

func TestRun_PropagatesError(t *testing.T) {
	orig := upContext
	t.Cleanup(func() { upContext = orig })

	upContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("relation exists")
	}
	err := Run(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "relation exists"))
}
