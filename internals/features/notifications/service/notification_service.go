package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"letme_backend/internals/features/notifications/model"
	"letme_backend/internals/helpers/apperror"
)

// PerPage ukuran halaman listing notifikasi.
const PerPage = 10

type Repository interface {
	Create(ctx context.Context, n *model.Notification) error
	Get(ctx context.Context, id uuid.UUID) (*model.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]model.Notification, int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

// NotificationService menulis notifikasi lewat antrean; Notify tidak pernah memblokir.
type NotificationService struct {
	repo  Repository
	log   *logrus.Entry
	queue chan model.Notification

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewNotificationService(repo Repository, log *logrus.Logger, buffer int) *NotificationService {
	if buffer <= 0 {
		buffer = 256
	}
	s := &NotificationService{
		repo:  repo,
		log:   log.WithField("module", "notifications"),
		queue: make(chan model.Notification, buffer),
	}
	s.wg.Add(1)
	go s.worker()
	return s
}

func (s *NotificationService) worker() {
	defer s.wg.Done()
	for n := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.repo.Create(ctx, &n); err != nil {
			s.log.WithError(err).WithField("user_id", n.NotificationUserID).Error("save notification")
		}
		cancel()
	}
}

// Notify antre satu notifikasi; kalau antrean penuh atau sudah ditutup, notifikasi dibuang dan di-log.
func (s *NotificationService) Notify(_ context.Context, userID uuid.UUID, message, link string) {
	n := model.Notification{
		NotificationID:      uuid.New(),
		NotificationUserID:  userID,
		NotificationMessage: message,
		CreatedAt:           time.Now(),
	}
	if l := strings.TrimSpace(link); l != "" {
		n.NotificationLink = &l
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.log.WithField("user_id", userID).Warn("notifier closed, dropping")
		return
	}
	select {
	case s.queue <- n:
	default:
		s.log.WithField("user_id", userID).Warn("notification queue full, dropping")
	}
}

// Close menunggu antrean habis ditulis.
func (s *NotificationService) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

type Page struct {
	Items  []model.Notification
	Total  int64
	Unread int64
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	rows, total, err := s.repo.ListByUser(ctx, userID, (page-1)*PerPage, PerPage)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Page{Items: rows, Total: total, Unread: unread}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if n.NotificationUserID != userID {
		return apperror.Forbidden("Notifikasi bukan milik Anda")
	}
	if n.NotificationIsRead {
		return nil
	}
	return s.repo.MarkRead(ctx, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}
