package services

import (
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/hr-dashboard/internal/models"
)

const maxToastsPerSession = 20

// ToastService queues notifications per session until the next page view.
type ToastService interface {
	Push(sessionID uuid.UUID, toast models.Toast)
	Drain(sessionID uuid.UUID) []models.Toast
	Clear(sessionID uuid.UUID)
}

type toastService struct {
	mu     sync.Mutex
	queues map[uuid.UUID][]models.Toast
}

func NewToastService() ToastService {
	return &toastService{queues: make(map[uuid.UUID][]models.Toast)}
}

func (s *toastService) Push(sessionID uuid.UUID, toast models.Toast) {
	if toast.Variant == "" {
		toast.Variant = models.ToastDefault
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	queue := append(s.queues[sessionID], toast)
	if len(queue) > maxToastsPerSession {
		queue = queue[len(queue)-maxToastsPerSession:]
	}
	s.queues[sessionID] = queue
}

func (s *toastService) Drain(sessionID uuid.UUID) []models.Toast {
	s.mu.Lock()
	defer s.mu.Unlock()

	queue := s.queues[sessionID]
	delete(s.queues, sessionID)
	if queue == nil {
		return []models.Toast{}
	}
	return queue
}

func (s *toastService) Clear(sessionID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.queues, sessionID)
}
