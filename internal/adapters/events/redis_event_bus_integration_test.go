//go:build integration

package events

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendorshub/backend/internal/domain/entities"
	"github.com/vendorshub/backend/internal/domain/providers"
	redisclient "github.com/vendorshub/backend/internal/infrastructure/clients/redis"
	"github.com/vendorshub/backend/pkg/config"
)

func TestRedisEventBus_PublishSubscribe(t *testing.T) {
	if os.Getenv("TEST_REDIS_HOST") == "" {
		t.Skip("Skipping integration test: TEST_REDIS_HOST not set")
	}

	port, err := strconv.Atoi(os.Getenv("TEST_REDIS_PORT"))
	if err != nil {
		port = 6379
	}
	client, err := redisclient.NewClient(&config.RedisConfig{
		Host:     os.Getenv("TEST_REDIS_HOST"),
		Port:     port,
		Password: os.Getenv("TEST_REDIS_PASSWORD"),
	})
	require.NoError(t, err, "Failed to create redis client")
	defer client.Close()

	bus := NewRedisEventBus(client)
	defer bus.Close()

	ctx1, cancel1 := context.WithCancel(context.Background())
	defer cancel1()
	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel2()

	channel := providers.GetVendorChannel("v-redis-1")
	sub1, err := bus.Subscribe(ctx1, channel)
	require.NoError(t, err)
	sub2, err := bus.Subscribe(ctx2, channel)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	event := entities.NewVendorEvent("v-redis-1", entities.VendorEventTypeReviewSubmitted)
	event.Stats = &entities.ReviewStats{AvgRating: 4, TotalReviews: 1}
	require.NoError(t, bus.Publish(context.Background(), channel, event))

	for _, sub := range []<-chan *entities.VendorEvent{sub1, sub2} {
		select {
		case got := <-sub:
			require.NotNil(t, got)
			assert.Equal(t, event.ID, got.ID)
			assert.Equal(t, "v-redis-1", got.VendorID)
		case <-time.After(3 * time.Second):
			t.Fatal("timed out waiting for vendor event")
		}
	}

	cancel1()
	select {
	case _, ok := <-sub1:
		assert.False(t, ok)
	case <-time.After(3 * time.Second):
		t.Fatal("subscriber channel was not closed after cancel")
	}
}
