package redis

import (
	"fmt"
	"sync"

	"github.com/marketloop/supportd/internal/setup/config"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

const (
	// CacheDBIndex stores temporary data like stats snapshots and query
	// results in database 0 to keep it separate from other Redis data.
	CacheDBIndex = 0

	// WorkerStatusDBIndex uses database 1 for tracking worker heartbeats and status
	// to monitor worker health and activity.
	WorkerStatusDBIndex = 1

	// RatelimitDBIndex uses database 2 for rate limiting and monitoring.
	RatelimitDBIndex = 2
)

// Manager hands out rueidis clients keyed by database index. Clients are
// created on first use and shared by everyone asking for the same index.
type Manager struct {
	mu      sync.RWMutex
	clients map[int]rueidis.Client
	config  *config.Redis
	logger  *zap.Logger
}

// NewManager creates a Manager with no open connections.
func NewManager(config *config.Redis, logger *zap.Logger) *Manager {
	return &Manager{
		clients: make(map[int]rueidis.Client),
		config:  config,
		logger:  logger.Named("redis"),
	}
}

// GetClient returns the shared client for dbIndex, dialing it if this is
// the first request for that index.
func (m *Manager) GetClient(dbIndex int) (rueidis.Client, error) {
	m.mu.RLock()
	client, ok := m.clients[dbIndex]
	m.mu.RUnlock()

	if ok {
		return client, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Another caller may have dialed while we waited for the lock
	if client, ok := m.clients[dbIndex]; ok {
		return client, nil
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:         []string{fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)},
		Username:            m.config.Username,
		Password:            m.config.Password,
		SelectDB:            dbIndex,
		ClientName:          "supportd",
		ReadBufferEachConn:  1 << 20,
		WriteBufferEachConn: 1 << 20,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis client for DB %d: %w", dbIndex, err)
	}

	m.clients[dbIndex] = client
	m.logger.Info("Connected Redis client", zap.Int("dbIndex", dbIndex))

	return client, nil
}

// Close shuts down every client the manager has handed out.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for dbIndex, client := range m.clients {
		client.Close()
		m.logger.Info("Closed Redis client", zap.Int("dbIndex", dbIndex))
	}

	clear(m.clients)
}
