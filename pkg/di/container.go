package di

import (
	"github.com/goliatone/go-report-cache/cache"
	"github.com/goliatone/go-report-cache/reportcache"
)

// Config aggregates the store and service configurations wired by the
// container.
type Config struct {
	Store   cache.Config
	Service reportcache.Config
}

// DefaultConfig returns a Config populated with the defaults of both layers.
func DefaultConfig() Config {
	return Config{
		Store:   cache.DefaultConfig(),
		Service: reportcache.DefaultConfig(),
	}
}

// Container provides dependency injection for the report cache components.
// It manages the singleton store and service instances so callers only need
// to supply the item source.
type Container struct {
	store   cache.Store
	service *reportcache.Service
	config  Config
}

// NewContainer creates a new DI container wired to the provided item source.
// It initializes the in-memory store backend and builds the report service on
// top of it.
func NewContainer(source reportcache.ItemSource, config Config) (*Container, error) {
	store, err := cache.NewMemoryStore(config.Store)
	if err != nil {
		return nil, err
	}

	service, err := reportcache.NewService(store, source, config.Service)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &Container{
		store:   store,
		service: service,
		config:  config,
	}, nil
}

// NewContainerWithDefaults creates a new DI container using default
// configuration. This is a convenience constructor for typical use cases
// where custom configuration is not required.
func NewContainerWithDefaults(source reportcache.ItemSource) (*Container, error) {
	return NewContainer(source, DefaultConfig())
}

// Store returns the singleton store instance. This allows direct access to
// the underlying cache for advanced use cases.
func (c *Container) Store() cache.Store {
	return c.store
}

// Service returns the singleton report service instance.
func (c *Container) Service() *reportcache.Service {
	return c.service
}

// Config returns a copy of the configuration used by this container.
// This is useful for debugging and monitoring purposes.
func (c *Container) Config() Config {
	return c.config
}

// Close releases the container's resources.
func (c *Container) Close() error {
	return c.store.Close()
}
