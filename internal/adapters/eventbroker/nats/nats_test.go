package nats_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	natsbroker "github.com/JesuSe7e/api-envio-ftp/internal/adapters/eventbroker/nats"
	"github.com/JesuSe7e/api-envio-ftp/internal/config"
	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type mockHandler struct {
	messages [][]byte
	received chan struct{}
	err      error
	mu       sync.Mutex
}

func (m *mockHandler) HandleMessage(ctx context.Context, data []byte) error {
	m.mu.Lock()
	m.messages = append(m.messages, data)
	m.mu.Unlock()

	if m.received != nil {
		m.received <- struct{}{}
	}
	return m.err
}

func (m *mockHandler) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

func setupNATSContainer(t *testing.T) (string, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "nats:2.10-alpine",
		ExposedPorts: []string{"4222/tcp"},
		Cmd:          []string{"-js"},
		WaitingFor:   wait.ForLog("Server is ready"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "4222")
	require.NoError(t, err)

	cleanup := func() {
		_ = container.Terminate(ctx)
	}

	return "nats://" + host + ":" + port.Port(), cleanup
}

func natsConfig(url string, name string) config.NATSConfig {
	return config.NATSConfig{
		URL:          url,
		StreamName:   name + "-stream",
		Subject:      name + ".archived",
		ConsumerName: name + "-worker",
	}
}

func archivedEvent() domain.BackupArchivedEvent {
	return domain.BackupArchivedEvent{
		ID:         uuid.New(),
		ClientID:   uuid.New(),
		Directory:  "/backups/tok-1",
		FileName:   "backup_2024-05-17T13-45-30-123Z.accdb",
		Location:   "/backups/tok-1/backup_2024-05-17T13-45-30-123Z.accdb",
		SizeBytes:  512,
		Evicted:    []string{"backup_2024-05-16T13-45-30-123Z.accdb"},
		ArchivedAt: time.Date(2024, 5, 17, 13, 45, 30, 0, time.UTC),
	}
}

func TestPublisherConsumer_RoundTrip(t *testing.T) {
	// Arrange
	natsURL, cleanup := setupNATSContainer(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	cfg := natsConfig(natsURL, "roundtrip")

	publisher, err := natsbroker.NewNATSPublisher(ctx, cfg, discardLogger)
	require.NoError(t, err)
	defer publisher.Close()

	consumer, err := natsbroker.NewNATSConsumer(ctx, cfg, discardLogger)
	require.NoError(t, err)
	defer consumer.Close()

	handler := &mockHandler{received: make(chan struct{}, 1)}
	event := archivedEvent()

	// Act
	require.NoError(t, consumer.Subscribe(ctx, handler))
	require.NoError(t, publisher.PublishArchived(ctx, event))

	select {
	case <-handler.received:
	case <-time.After(5 * time.Second):
		t.Fatal("message not received")
	}

	// Assert
	require.Equal(t, 1, handler.count())
	var decoded domain.BackupArchivedEvent
	require.NoError(t, json.Unmarshal(handler.messages[0], &decoded))
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, event.ClientID, decoded.ClientID)
	assert.Equal(t, event.Location, decoded.Location)
	assert.Equal(t, event.Evicted, decoded.Evicted)
	assert.True(t, event.ArchivedAt.Equal(decoded.ArchivedAt))
}

func TestPublisher_DeduplicatesByEventID(t *testing.T) {
	// Arrange
	natsURL, cleanup := setupNATSContainer(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	cfg := natsConfig(natsURL, "dedup")

	publisher, err := natsbroker.NewNATSPublisher(ctx, cfg, discardLogger)
	require.NoError(t, err)
	defer publisher.Close()

	consumer, err := natsbroker.NewNATSConsumer(ctx, cfg, discardLogger)
	require.NoError(t, err)
	defer consumer.Close()

	handler := &mockHandler{received: make(chan struct{}, 2)}
	event := archivedEvent()

	// Act
	require.NoError(t, publisher.PublishArchived(ctx, event))
	require.NoError(t, publisher.PublishArchived(ctx, event))
	require.NoError(t, consumer.Subscribe(ctx, handler))

	select {
	case <-handler.received:
	case <-time.After(5 * time.Second):
		t.Fatal("message not received")
	}

	// Assert
	select {
	case <-handler.received:
		t.Fatal("duplicate event delivered")
	case <-time.After(500 * time.Millisecond):
	}
	assert.Equal(t, 1, handler.count())
}

func TestConsumer_Subscribe_HandlerError(t *testing.T) {
	// Arrange
	natsURL, cleanup := setupNATSContainer(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	cfg := natsConfig(natsURL, "retry")

	publisher, err := natsbroker.NewNATSPublisher(ctx, cfg, discardLogger)
	require.NoError(t, err)
	defer publisher.Close()

	consumer, err := natsbroker.NewNATSConsumer(ctx, cfg, discardLogger)
	require.NoError(t, err)
	defer consumer.Close()

	handler := &mockHandler{
		received: make(chan struct{}, 3),
		err:      assert.AnError,
	}

	// Act
	require.NoError(t, consumer.Subscribe(ctx, handler))
	require.NoError(t, publisher.PublishArchived(ctx, archivedEvent()))

	for i := 0; i < 3; i++ {
		select {
		case <-handler.received:
		case <-time.After(3 * time.Second):
			t.Fatalf("redelivery %d not received", i)
		}
	}

	// Assert
	assert.GreaterOrEqual(t, handler.count(), 3)
}

func TestConsumer_GracefulShutdown(t *testing.T) {
	// Arrange
	natsURL, cleanup := setupNATSContainer(t)
	defer cleanup()

	ctx := context.Background()
	cfg := natsConfig(natsURL, "shutdown")

	publisher, err := natsbroker.NewNATSPublisher(ctx, cfg, discardLogger)
	require.NoError(t, err)
	defer publisher.Close()

	consumer, err := natsbroker.NewNATSConsumer(ctx, cfg, discardLogger)
	require.NoError(t, err)

	handler := &mockHandler{received: make(chan struct{}, 1)}

	// Act
	require.NoError(t, consumer.Subscribe(ctx, handler))
	require.NoError(t, consumer.Close())
	require.NoError(t, publisher.PublishArchived(ctx, archivedEvent()))

	// Assert
	select {
	case <-handler.received:
		t.Fatal("message should not have been processed after Close")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestNewNATSPublisher_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := natsbroker.NewNATSPublisher(ctx, natsConfig("nats://127.0.0.1:1", "down"), discardLogger)

	assert.Error(t, err)
}
