package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvheritagevv/Knee-Rehab/pkg/db"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func getDB(t *testing.T) (*db.Database, string) {
	t.Helper()

	filename := filepath.Join(t.TempDir(), "test_new_database.sqlite")

	database, err := db.NewDatabase(context.Background(), filename)
	require.NoError(t, err)
	require.NotNil(t, database)

	t.Cleanup(func() { database.Close() })

	return database, filename
}

func TestNewDatabaseBadFile(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	database, err := db.NewDatabase(context.Background(), "/alwfkjasfd/asdflkjdsal.sqlite")
	assert.Nil(database)
	assert.NotNil(err)
	assert.Equal("error running base sql: unable to open database file: no such file or directory", err.Error())
}

func TestGetMissing(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	database, _ := getDB(t)

	value, ok, err := database.Get(context.Background(), "nothing")
	assert.Nil(err)
	assert.False(ok)
	assert.Equal("", value)
}

func TestSetGet(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	database, _ := getDB(t)

	assert.Nil(database.Set(ctx, "rehab:state:v1", `{"phaseId":"p1"}`))

	value, ok, err := database.Get(ctx, "rehab:state:v1")
	assert.Nil(err)
	assert.True(ok)
	assert.Equal(`{"phaseId":"p1"}`, value)

	assert.Nil(database.Set(ctx, "rehab:state:v1", `{"phaseId":"p2"}`))

	value, _, err = database.Get(ctx, "rehab:state:v1")
	assert.Nil(err)
	assert.Equal(`{"phaseId":"p2"}`, value)
}

func TestSetMany(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	database, _ := getDB(t)

	assert.Nil(database.Set(ctx, "a", "old"))
	assert.Nil(database.SetMany(ctx, map[string]string{"a": "1", "b": "2"}))

	for key, want := range map[string]string{"a": "1", "b": "2"} {
		value, ok, err := database.Get(ctx, key)
		assert.Nil(err)
		assert.True(ok)
		assert.Equal(want, value)
	}
}

func TestSetAfterClose(t *testing.T) {
	t.Parallel()

	database, err := db.NewDatabase(context.Background(), filepath.Join(t.TempDir(), "closed.sqlite"))
	require.NoError(t, err)
	require.NoError(t, database.Close())

	err = database.Set(context.Background(), "a", "1")
	assert.EqualError(t, err, "error saving key a: sql: database is closed")

	err = database.SetMany(context.Background(), map[string]string{"a": "1"})
	assert.EqualError(t, err, "error starting transaction: sql: database is closed")
}

func TestNewDatabaseIdempotent(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	database, filename := getDB(t)
	assert.Nil(database.Set(ctx, "kept", "yes"))
	assert.Nil(database.Close())

	database2, err := db.NewDatabase(ctx, filename)
	require.NoError(t, err)

	defer database2.Close()

	value, ok, err := database2.Get(ctx, "kept")
	assert.Nil(err)
	assert.True(ok)
	assert.Equal("yes", value)
}
