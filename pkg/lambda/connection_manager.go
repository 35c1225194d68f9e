package lambda

import (
	"context"
	"sync"
	"time"

	"apigw-custom-response/internal/config"
	"apigw-custom-response/pkg/server"
)

// ContainerManager keeps one service container alive across warm invocations
type ContainerManager struct {
	container *server.Container
	lastUsed  time.Time
	mu        sync.Mutex
	load      func() (*config.Config, error)
}

var (
	globalContainerManager *ContainerManager
	containerManagerOnce   sync.Once
)

// GetContainerManager returns the global container manager instance
func GetContainerManager() *ContainerManager {
	containerManagerOnce.Do(func() {
		globalContainerManager = NewContainerManager(config.GetOptimizedConfig)
	})
	return globalContainerManager
}

// NewContainerManager creates a manager that builds its container from load on first use
func NewContainerManager(load func() (*config.Config, error)) *ContainerManager {
	return &ContainerManager{load: load}
}

// GetContainer returns the service container, initializing it if necessary.
// A failed initialization is retried on the next invocation.
func (cm *ContainerManager) GetContainer(ctx context.Context) (*server.Container, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container == nil {
		cfg, err := cm.load()
		if err != nil {
			return nil, err
		}
		container, err := server.NewContainer(cfg)
		if err != nil {
			return nil, err
		}
		cm.container = container
	}

	cm.lastUsed = time.Now()
	return cm.container, nil
}

// IsHealthy reports whether a container is initialized and was used in the last five minutes
func (cm *ContainerManager) IsHealthy() bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container == nil {
		return false
	}
	return time.Since(cm.lastUsed) < 5*time.Minute
}

// Cleanup releases the container; the next GetContainer builds a new one
func (cm *ContainerManager) Cleanup() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container == nil {
		return nil
	}
	err := cm.container.Close()
	cm.container = nil
	return err
}
