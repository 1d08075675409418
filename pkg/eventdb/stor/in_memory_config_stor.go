package stor

import (
	"sync"
	"time"

	"github.com/hackos/hackd/pkg/eventdb/model"
	"github.com/hackos/hackd/pkg/feed"
	"gorm.io/gorm"
)

type InMemoryConfigStor struct {
	mu       sync.Mutex
	cfg      *model.GlobalConfig
	notifier feed.Notifier
}

func NewInMemoryConfigStor(notifier feed.Notifier) *InMemoryConfigStor {
	return &InMemoryConfigStor{notifier: notifier}
}

func (s *InMemoryConfigStor) EnsureConfig() (*model.GlobalConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg == nil {
		s.cfg = &model.GlobalConfig{ID: model.GlobalConfigID, IntakeOpen: true}
		s.notifier.Publish(feed.NewEvent(feed.OpInsert, feed.SetConfig, "", nil, s.cfg))
	}

	copied := *s.cfg
	return &copied, nil
}

func (s *InMemoryConfigStor) GetConfig() (*model.GlobalConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.cfg
	return &copied, nil
}

func (s *InMemoryConfigStor) Release() (*model.GlobalConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg == nil {
		return nil, gorm.ErrRecordNotFound
	}

	if s.cfg.Released {
		copied := *s.cfg
		return &copied, nil
	}

	before := *s.cfg
	now := time.Now()
	s.cfg.Released = true
	s.cfg.ReleasedAt = &now

	s.notifier.Publish(feed.NewEvent(feed.OpUpdate, feed.SetConfig, "", &before, s.cfg))

	copied := *s.cfg
	return &copied, nil
}

func (s *InMemoryConfigStor) SetEventStart(start *time.Time) (*model.GlobalConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg == nil {
		return nil, gorm.ErrRecordNotFound
	}

	before := *s.cfg
	s.cfg.EventStart = start

	s.notifier.Publish(feed.NewEvent(feed.OpUpdate, feed.SetConfig, "", &before, s.cfg))

	copied := *s.cfg
	return &copied, nil
}

func (s *InMemoryConfigStor) SetIntakeOpen(open bool) (*model.GlobalConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg == nil {
		return nil, gorm.ErrRecordNotFound
	}

	before := *s.cfg
	s.cfg.IntakeOpen = open

	s.notifier.Publish(feed.NewEvent(feed.OpUpdate, feed.SetConfig, "", &before, s.cfg))

	copied := *s.cfg
	return &copied, nil
}
