package stor

import (
	"github.com/hackos/hackd/pkg/eventdb/model"
	"github.com/hackos/hackd/pkg/feed"
	"github.com/hashicorp/go-uuid"
	"gorm.io/gorm"
)

type GormAnnouncementStor struct {
	db       *gorm.DB
	notifier feed.Notifier
}

func NewGormAnnouncementStor(db *gorm.DB, notifier feed.Notifier) *GormAnnouncementStor {
	return &GormAnnouncementStor{db: db, notifier: notifier}
}

func (s *GormAnnouncementStor) CreateAnnouncement(body string) (*model.Announcement, error) {
	announcement := &model.Announcement{Body: body}

	var err error
	if announcement.ID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Create(announcement).Error
	})

	if err != nil {
		return nil, err
	}

	s.notifier.Publish(feed.NewEvent(feed.OpInsert, feed.SetAnnouncements, "", nil, announcement))

	return announcement, nil
}

func (s *GormAnnouncementStor) ListAnnouncements() ([]model.Announcement, error) {
	var announcements []model.Announcement
	result := s.db.Order("created_at").Find(&announcements)
	return announcements, result.Error
}
