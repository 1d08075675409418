package stor

import (
	"time"

	"github.com/hackos/hackd/pkg/eventdb/model"
	"github.com/hackos/hackd/pkg/feed"
	"gorm.io/gorm"
)

type GormConfigStor struct {
	db       *gorm.DB
	notifier feed.Notifier
}

func NewGormConfigStor(db *gorm.DB, notifier feed.Notifier) *GormConfigStor {
	return &GormConfigStor{db: db, notifier: notifier}
}

// EnsureConfig creates the singleton row if it doesn't exist yet. Called once
// at startup; thereafter the row is only updated.
func (s *GormConfigStor) EnsureConfig() (*model.GlobalConfig, error) {
	cfg, err := s.GetConfig()
	if err == nil {
		return cfg, nil
	}

	cfg = &model.GlobalConfig{ID: model.GlobalConfigID, IntakeOpen: true}
	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Create(cfg).Error
	})

	if err != nil {
		return nil, err
	}

	s.notifier.Publish(feed.NewEvent(feed.OpInsert, feed.SetConfig, "", nil, cfg))

	return cfg, nil
}

func (s *GormConfigStor) GetConfig() (*model.GlobalConfig, error) {
	var cfg model.GlobalConfig
	if err := s.db.Where("id = ?", model.GlobalConfigID).First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Release flips the release flag and stamps the release time. One-way: once
// released, later calls are no-ops that return the current row.
func (s *GormConfigStor) Release() (*model.GlobalConfig, error) {
	cfg, err := s.GetConfig()
	if err != nil {
		return nil, err
	}

	if cfg.Released {
		return cfg, nil
	}

	now := time.Now()
	return s.applyUpdate(cfg, func(c *model.GlobalConfig) {
		c.Released = true
		c.ReleasedAt = &now
	})
}

func (s *GormConfigStor) SetIntakeOpen(open bool) (*model.GlobalConfig, error) {
	cfg, err := s.GetConfig()
	if err != nil {
		return nil, err
	}

	return s.applyUpdate(cfg, func(c *model.GlobalConfig) {
		c.IntakeOpen = open
	})
}

// SetEventStart records the scheduled kickoff moment. Informational only; no
// workflow gate reads it.
func (s *GormConfigStor) SetEventStart(start *time.Time) (*model.GlobalConfig, error) {
	cfg, err := s.GetConfig()
	if err != nil {
		return nil, err
	}

	return s.applyUpdate(cfg, func(c *model.GlobalConfig) {
		c.EventStart = start
	})
}

func (s *GormConfigStor) applyUpdate(cfg *model.GlobalConfig, mutate func(c *model.GlobalConfig)) (*model.GlobalConfig, error) {
	before := *cfg

	mutate(cfg)

	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Save(cfg).Error
	})

	if err != nil {
		return nil, err
	}

	s.notifier.Publish(feed.NewEvent(feed.OpUpdate, feed.SetConfig, "", &before, cfg))

	return cfg, nil
}
