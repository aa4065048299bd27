package config

import (
	"fmt"
	"os"

	"checklist/internal/store"
	"checklist/internal/store/postgres"
	"checklist/internal/store/sqlite"
)

// CreateStore creates the persistent store selected by the configuration
func CreateStore(config *Config) (store.Store, error) {
	opts := store.Options{
		QueryTimeout: config.GetQueryTimeout(),
		WriteTimeout: config.GetWriteTimeout(),
	}

	switch config.Storage.Driver {
	case DriverMemory:
		return store.NewMemory(), nil
	case DriverPostgres:
		s, err := postgres.New(config.Storage.DSN, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres store: %w", err)
		}
		return s, nil
	default:
		if err := os.MkdirAll(config.Storage.Dir, os.FileMode(config.Storage.DirPermissions)); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		s, err := sqlite.New(config.GetDatabasePath(), opts)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return s, nil
	}
}
