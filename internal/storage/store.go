// Package storage keeps finished runs and their per-tick samples in a local
// SQLite database.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/san-kum/framehold/internal/config"
	"github.com/san-kum/framehold/internal/sim"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const DatabaseFile = "runs.db"

var ErrRunNotFound = errors.New("storage: run not found")

type Run struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	Scenario  string            `gorm:"index" json:"scenario"`
	Mode      string            `json:"mode"`
	Dt        float64           `json:"dt"`
	Duration  float64           `json:"duration"`
	Ticks     int               `json:"ticks"`
	Errors    int               `json:"errors"`
	Config    datatypes.JSON    `json:"config"`
	Metrics   datatypes.JSONMap `json:"metrics"`
	CreatedAt time.Time         `json:"created_at"`
}

// Metric returns a stored metric value, or 0 if it was not recorded.
func (r *Run) Metric(name string) float64 {
	v, _ := r.Metrics[name].(float64)
	return v
}

type Store struct {
	db   *gorm.DB
	path string
	log  zerolog.Logger
}

// Open opens the database in dataDir, creating both if needed. An empty
// dataDir opens a shared in-memory database.
func Open(dataDir string, log zerolog.Logger) (*Store, error) {
	path := "file::memory:?cache=shared"
	if dataDir != "" {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
		path = filepath.Join(dataDir, DatabaseFile)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        500,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
	} {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("setting pragma: %w", err)
		}
	}

	if err := db.AutoMigrate(&Run{}, &Tick{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	s := &Store{db: db, path: path, log: log.With().Str("component", "storage").Logger()}
	s.log.Debug().Str("path", path).Msg("store opened")
	return s, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Save writes a run and all of its samples in one transaction and returns
// the new run id.
func (s *Store) Save(cfg *config.Config, result *sim.Result) (uint, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return 0, fmt.Errorf("encoding config: %w", err)
	}

	metrics := make(datatypes.JSONMap, len(result.Metrics))
	for k, v := range result.Metrics {
		metrics[k] = v
	}

	run := Run{
		Scenario: cfg.Scenario,
		Mode:     cfg.Mode,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Ticks:    result.Ticks,
		Errors:   len(result.Errors),
		Config:   datatypes.JSON(raw),
		Metrics:  metrics,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&run).Error; err != nil {
			return err
		}
		if len(result.Samples) == 0 {
			return nil
		}
		rows := make([]Tick, len(result.Samples))
		for i, sample := range result.Samples {
			rows[i] = NewTick(run.ID, sample)
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return 0, fmt.Errorf("saving run: %w", err)
	}

	s.log.Info().Uint("run", run.ID).Str("scenario", run.Scenario).Int("ticks", run.Ticks).Msg("run saved")
	return run.ID, nil
}

// List returns every stored run, newest first, without samples.
func (s *Store) List() ([]Run, error) {
	runs := make([]Run, 0)
	if err := s.db.Order("id desc").Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

func (s *Store) Load(id uint) (*Run, error) {
	var run Run
	err := s.db.First(&run, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %d: %w", id, err)
	}
	return &run, nil
}

// LoadTicks returns a run's samples in tick order.
func (s *Store) LoadTicks(id uint) ([]sim.Sample, error) {
	if _, err := s.Load(id); err != nil {
		return nil, err
	}

	var rows []Tick
	if err := s.db.Where("run_id = ?", id).Order("tick").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("loading ticks of run %d: %w", id, err)
	}

	samples := make([]sim.Sample, len(rows))
	for i, row := range rows {
		samples[i] = row.Sample()
	}
	return samples, nil
}

// Delete removes a run and its samples.
func (s *Store) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&Run{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %d", ErrRunNotFound, id)
		}
		return tx.Where("run_id = ?", id).Delete(&Tick{}).Error
	})
}
