package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/gcbaptista/candidate-search/config"
	internalErrors "github.com/gcbaptista/candidate-search/internal/errors"
	"github.com/gcbaptista/candidate-search/internal/metrics"
	"github.com/gcbaptista/candidate-search/internal/persistence"
	"github.com/gcbaptista/candidate-search/store"
)

const (
	dataDirPerm        = 0755
	settingsFile       = "settings.gob"
	candidateStoreFile = "candidates.gob"
)

// loadPoolsFromDisk loads every pool directory under the data directory.
// Unreadable pools are skipped with a warning rather than failing startup.
func (e *Engine) loadPoolsFromDisk() {
	e.log.WithField("data_dir", e.dataDir).Info("loading pools from disk")

	items, err := os.ReadDir(e.dataDir)
	if err != nil {
		e.log.WithError(err).Warn("failed to read data directory, no pools loaded")
		return
	}

	for _, item := range items {
		if !item.IsDir() {
			continue
		}
		poolName := item.Name()
		poolPath := filepath.Join(e.dataDir, poolName)
		entry := e.log.WithField("pool", poolName)

		var settings config.PoolSettings
		if err := persistence.LoadGob(filepath.Join(poolPath, settingsFile), &settings); err != nil {
			entry.WithError(err).Warn("failed to load pool settings, skipping")
			continue
		}
		if settings.Name != poolName {
			entry.WithField("settings_name", settings.Name).Warn("pool name in settings does not match directory, skipping")
			continue
		}

		candidateStore := store.NewCandidateStore()
		if err := persistence.LoadGob(filepath.Join(poolPath, candidateStoreFile), candidateStore); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				entry.Info("no candidate snapshot found, starting empty")
			} else {
				entry.WithError(err).Warn("failed to load candidate snapshot, starting empty")
			}
			candidateStore = store.NewCandidateStore()
		}

		instance, err := NewPoolInstance(settings, candidateStore, e.dict, e.resultCache)
		if err != nil {
			entry.WithError(err).Error("failed to create pool instance, skipping")
			continue
		}

		e.pools[poolName] = instance
		metrics.SetPoolSize(poolName, candidateStore.Count())
		entry.WithField("candidates", candidateStore.Count()).Info("pool loaded")
	}
}

// persistPoolUnsafe writes settings and candidates under dataDir/name.
// Callers hold e.mu or own the instance exclusively.
func (e *Engine) persistPoolUnsafe(name string, instance *PoolInstance) error {
	if err := e.saveSettingsUnsafe(name, instance); err != nil {
		return err
	}
	path := filepath.Join(e.dataDir, name, candidateStoreFile)
	if err := persistence.SaveGob(path, instance.CandidateStore); err != nil {
		return fmt.Errorf("failed to save candidates for pool %s: %w", name, err)
	}
	return nil
}

func (e *Engine) saveSettingsUnsafe(name string, instance *PoolInstance) error {
	path := filepath.Join(e.dataDir, name, settingsFile)
	if err := persistence.SaveGob(path, instance.Settings()); err != nil {
		return fmt.Errorf("failed to save settings for pool %s: %w", name, err)
	}
	return nil
}

// PersistPoolData saves the current candidates and settings of one pool.
func (e *Engine) PersistPoolData(poolName string) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.pools[poolName]
	if !exists {
		return fmt.Errorf("cannot persist: %w", internalErrors.NewPoolNotFoundError(poolName))
	}
	if err := e.persistPoolUnsafe(poolName, instance); err != nil {
		return err
	}
	e.log.WithField("pool", poolName).Debug("pool persisted")
	return nil
}

// PersistAll saves every pool, continuing past failures, and returns the
// number of pools saved together with the joined errors.
func (e *Engine) PersistAll() (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	saved := 0
	var errs []error
	for name, instance := range e.pools {
		if err := e.persistPoolUnsafe(name, instance); err != nil {
			errs = append(errs, err)
			continue
		}
		saved++
	}
	if len(errs) > 0 {
		e.log.WithFields(logrus.Fields{"saved": saved, "failed": len(errs)}).Warn("snapshot incomplete")
	}
	return saved, errors.Join(errs...)
}
