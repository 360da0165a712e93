// Package datastore persists tracker baselines and detection history in
// SQLite so a restarted monitor resumes with a warm baseline instead of
// re-alerting the whole current detection set.
package datastore

import (
	"context"
	"io"
	"log/slog"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/patiwat/firewatch-go/internal/errors"
	"github.com/patiwat/firewatch-go/internal/hotspot"
	"github.com/patiwat/firewatch-go/internal/logging"
)

var storeLogger *slog.Logger

func init() {
	storeLogger = logging.ForService("datastore")
	if storeLogger == nil {
		storeLogger = slog.New(slog.NewJSONHandler(io.Discard, nil)).With("service", "datastore")
	}
}

// KnownID is one entry of the committed baseline.
type KnownID struct {
	ID        uint   `gorm:"primaryKey"`
	Detection string `gorm:"uniqueIndex;size:64"`
	CreatedAt time.Time
}

// DetectionRecord is the audit trail of every novel detection delivered.
type DetectionRecord struct {
	ID            uint   `gorm:"primaryKey"`
	Detection     string `gorm:"index;size:64"`
	Latitude      float64
	Longitude     float64
	Brightness    float64
	FRP           float64
	AcqDate       string `gorm:"size:10"`
	AcqTime       string `gorm:"size:4"`
	Satellite     string `gorm:"size:16"`
	Province      string `gorm:"size:64"`
	District      string `gorm:"size:64"`
	ProtectedArea string `gorm:"size:128"`
	PassWindow    string `gorm:"size:16"`
	Source        string `gorm:"size:64"`
	CreatedAt     time.Time
}

// TrackerState is a single-row table recording whether a baseline has ever
// been committed. It is what lets an empty committed baseline survive a
// restart as warm state.
type TrackerState struct {
	ID          uint `gorm:"primaryKey"`
	Primed      bool
	CommittedAt time.Time
}

// SQLiteStore implements novelty.Store and keeps detection history.
type SQLiteStore struct {
	db *gorm.DB
}

// Open opens (creating if needed) the SQLite database at path and runs
// migrations.
func Open(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("path", path).
			Build()
	}

	if err := db.AutoMigrate(&KnownID{}, &DetectionRecord{}, &TrackerState{}); err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}

	storeLogger.Info("sqlite store opened", "path", path)
	return &SQLiteStore{db: db}, nil
}

// Load returns the committed baseline. A database that has never been
// committed to reports primed=false so the caller treats the first poll as
// a cold start; an empty baseline that was explicitly committed stays warm.
func (s *SQLiteStore) Load(ctx context.Context) ([]string, bool, error) {
	var state TrackerState
	err := s.db.WithContext(ctx).First(&state).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, nil
	case err != nil:
		return nil, false, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}

	var rows []KnownID
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, false, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}

	ids := make([]string, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].Detection)
	}
	return ids, state.Primed, nil
}

// Save replaces the baseline in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, ids []string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&KnownID{}).Error; err != nil {
			return err
		}
		if len(ids) > 0 {
			rows := make([]KnownID, 0, len(ids))
			for _, id := range ids {
				rows = append(rows, KnownID{Detection: id})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}

		state := TrackerState{ID: 1, Primed: true, CommittedAt: time.Now()}
		return tx.Save(&state).Error
	})
	if err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("ids", len(ids)).
			Build()
	}
	return nil
}

// SaveDetections appends novel detections to the history table.
func (s *SQLiteStore) SaveDetections(ctx context.Context, detections []hotspot.Detection) error {
	if len(detections) == 0 {
		return nil
	}
	rows := make([]DetectionRecord, 0, len(detections))
	for i := range detections {
		d := &detections[i]
		rows = append(rows, DetectionRecord{
			Detection:     d.ID,
			Latitude:      d.Latitude,
			Longitude:     d.Longitude,
			Brightness:    d.Brightness,
			FRP:           d.FRP,
			AcqDate:       d.AcqDate,
			AcqTime:       d.AcqTime,
			Satellite:     d.Satellite,
			Province:      d.Province,
			District:      d.District,
			ProtectedArea: d.ProtectedArea,
			PassWindow:    d.PassWindow,
			Source:        d.Source,
		})
	}
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("detections", len(rows)).
			Build()
	}
	return nil
}

// RecentDetections returns up to limit history rows, newest first.
func (s *SQLiteStore) RecentDetections(ctx context.Context, limit int) ([]DetectionRecord, error) {
	var rows []DetectionRecord
	if err := s.db.WithContext(ctx).Order("id desc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	return rows, nil
}

// Close closes the underlying connection pool.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
