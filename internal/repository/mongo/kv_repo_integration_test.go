//go:build integration

package mongo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startMongo(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017")
	require.NoError(t, err)
	return fmt.Sprintf("mongodb://%s:%s", host, port.Port())
}

func TestMongoKVStore_Integration(t *testing.T) {
	uri := startMongo(t)
	ctx := context.Background()

	client, err := ConnectDB(ctx, uri)
	require.NoError(t, err)
	t.Cleanup(func() { _ = DisconnectDB(client) })

	db := client.Database("fitness_planner_test")
	require.NoError(t, EnsureKVIndexes(ctx, KVCollection(db, "")))
	store := NewMongoKVStore(db, "")

	_, found, err := store.Get(ctx, "fitness_plans")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "fitness_plans", []byte(`[{"id":"a"}]`)))
	require.NoError(t, store.Set(ctx, "fitness_plans", []byte(`[{"id":"b"}]`)))

	got, found, err := store.Get(ctx, "fitness_plans")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `[{"id":"b"}]`, string(got))

	require.NoError(t, store.Delete(ctx, "fitness_plans"))
	require.NoError(t, store.Delete(ctx, "fitness_plans"))
	_, found, err = store.Get(ctx, "fitness_plans")
	require.NoError(t, err)
	assert.False(t, found)
}
