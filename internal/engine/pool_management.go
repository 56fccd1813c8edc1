package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/gcbaptista/candidate-search/config"
	"github.com/gcbaptista/candidate-search/internal/errors"
	"github.com/gcbaptista/candidate-search/internal/metrics"
)

func validatePoolSettings(settings config.PoolSettings) error {
	if settings.Name == "" {
		return errors.NewValidationError("name", "pool name cannot be empty")
	}
	if !config.ValidPoolName(settings.Name) {
		return errors.NewValidationError("name", "pool name may only contain letters, digits, '_' and '-'")
	}
	if conflicts := settings.ValidateFieldNames(); len(conflicts) > 0 {
		return errors.NewValidationError("settings", conflicts[0])
	}
	return nil
}

// CreatePool creates a new empty pool with the given settings and persists it.
func (e *Engine) CreatePool(settings config.PoolSettings) error {
	if err := validatePoolSettings(settings); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.pools[settings.Name]; exists {
		return errors.NewPoolAlreadyExistsError(settings.Name)
	}

	instance, err := NewPoolInstance(settings, nil, e.dict, e.resultCache)
	if err != nil {
		return fmt.Errorf("failed to create new pool instance for '%s': %w", settings.Name, err)
	}
	if err := e.persistPoolUnsafe(settings.Name, instance); err != nil {
		return fmt.Errorf("failed to persist new pool '%s': %w", settings.Name, err)
	}

	e.pools[settings.Name] = instance
	metrics.SetPoolSize(settings.Name, 0)
	e.log.WithField("pool", settings.Name).Info("pool created")
	return nil
}

// UpdatePoolSettings replaces the settings of a pool. The name cannot change here.
func (e *Engine) UpdatePoolSettings(name string, newSettings config.PoolSettings) error {
	if newSettings.Name != "" && newSettings.Name != name {
		return errors.NewValidationError("name", fmt.Sprintf("cannot change pool name from '%s' to '%s' during settings update, use rename", name, newSettings.Name))
	}
	newSettings.Name = name
	if err := validatePoolSettings(newSettings); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	instance, exists := e.pools[name]
	if !exists {
		return errors.NewPoolNotFoundError(name)
	}

	previous := instance.Settings()
	if err := instance.applySettings(newSettings); err != nil {
		return err
	}
	if err := e.saveSettingsUnsafe(name, instance); err != nil {
		if revertErr := instance.applySettings(previous); revertErr != nil {
			e.log.WithError(revertErr).WithField("pool", name).Error("failed to restore settings after a failed save")
		}
		return fmt.Errorf("failed to save updated settings for pool '%s': %w", name, err)
	}

	e.log.WithField("pool", name).Info("pool settings updated")
	return nil
}

// DeletePool removes a pool from memory and disk.
func (e *Engine) DeletePool(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.pools[name]; !exists {
		return errors.NewPoolNotFoundError(name)
	}
	delete(e.pools, name)
	metrics.ForgetPool(name)

	poolPath := filepath.Join(e.dataDir, name)
	if err := os.RemoveAll(poolPath); err != nil {
		return fmt.Errorf("failed to remove pool directory %s: %w", poolPath, err)
	}

	e.log.WithField("pool", name).Info("pool deleted")
	return nil
}

// RenamePool moves a pool and its files to a new name.
func (e *Engine) RenamePool(oldName, newName string) error {
	if oldName == newName {
		return errors.NewSameNameError(oldName)
	}
	if !config.ValidPoolName(newName) {
		return errors.NewValidationError("new_name", "pool name may only contain letters, digits, '_' and '-'")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	instance, exists := e.pools[oldName]
	if !exists {
		return errors.NewPoolNotFoundError(oldName)
	}
	if _, exists := e.pools[newName]; exists {
		return errors.NewPoolAlreadyExistsError(newName)
	}

	renamed := instance.Settings()
	renamed.Name = newName
	if err := instance.applySettings(renamed); err != nil {
		return err
	}
	if err := e.persistPoolUnsafe(newName, instance); err != nil {
		renamed.Name = oldName
		_ = instance.applySettings(renamed)
		return fmt.Errorf("failed to persist renamed pool: %w", err)
	}

	e.pools[newName] = instance
	delete(e.pools, oldName)
	metrics.ForgetPool(oldName)
	metrics.SetPoolSize(newName, instance.CandidateCount())

	oldPath := filepath.Join(e.dataDir, oldName)
	if err := os.RemoveAll(oldPath); err != nil {
		e.log.WithError(err).WithField("path", oldPath).Warn("failed to remove old pool directory")
	}

	e.log.WithFields(logrus.Fields{"old_name": oldName, "new_name": newName}).Info("pool renamed")
	return nil
}
