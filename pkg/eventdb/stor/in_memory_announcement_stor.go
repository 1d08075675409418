package stor

import (
	"sync"
	"time"

	"github.com/hackos/hackd/pkg/eventdb/model"
	"github.com/hackos/hackd/pkg/feed"
	"github.com/hashicorp/go-uuid"
)

type InMemoryAnnouncementStor struct {
	mu            sync.Mutex
	announcements []model.Announcement
	notifier      feed.Notifier
}

func NewInMemoryAnnouncementStor(notifier feed.Notifier) *InMemoryAnnouncementStor {
	return &InMemoryAnnouncementStor{notifier: notifier}
}

func (s *InMemoryAnnouncementStor) CreateAnnouncement(body string) (*model.Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := uuid.GenerateUUID()
	if err != nil {
		return nil, err
	}

	announcement := model.Announcement{
		ID:        id,
		Body:      body,
		CreatedAt: time.Now(),
	}
	s.announcements = append(s.announcements, announcement)

	s.notifier.Publish(feed.NewEvent(feed.OpInsert, feed.SetAnnouncements, "", nil, &announcement))

	return &announcement, nil
}

func (s *InMemoryAnnouncementStor) ListAnnouncements() ([]model.Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Announcement, len(s.announcements))
	copy(out, s.announcements)
	return out, nil
}
