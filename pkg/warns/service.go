// Package warns maintains the per-user warning lists. Warnings are
// append-only: each Add persists a full snapshot of the collection.
package warns

import (
	"fmt"
	"sync"
	"time"

	"github.com/VolleyStudios/VolleyBotGo/pkg/logger"
	"github.com/VolleyStudios/VolleyBotGo/pkg/models"
	"github.com/VolleyStudios/VolleyBotGo/pkg/store"
	"github.com/google/uuid"
)

// Service holds the in-memory warning collection and its backing store
type Service struct {
	mu    sync.Mutex
	col   *store.Collection[models.WarnsCollection]
	warns models.WarnsCollection
}

// NewService loads the warnings collection and returns a ready service
func NewService(s *store.Store) (*Service, error) {
	col := store.NewCollection[models.WarnsCollection](store.CollectionWarnings, s)

	warns, err := col.Load(models.WarnsCollection{})
	if err != nil {
		return nil, err
	}

	logger.System(fmt.Sprintf("Advertencias cargadas: %d usuarios con registros", len(warns)), "Warns")

	return &Service{col: col, warns: warns}, nil
}

// Add appends a warning for a user and persists the whole collection.
// The in-memory append is kept even if the save fails (the durable copy
// may lag behind; it is not rolled back).
func (s *Service) Add(userID, reason, moderatorID string) (models.Warn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	warn := models.Warn{
		ID:        uuid.New().String(),
		Reason:    reason,
		Moderator: moderatorID,
		Timestamp: time.Now().UTC(),
	}

	s.warns[userID] = append(s.warns[userID], warn)

	if err := s.col.Save(s.warns); err != nil {
		logger.Error(fmt.Sprintf("Error persistiendo advertencias: %v", err), "Warns")
		return warn, err
	}

	return warn, nil
}

// List returns a copy of a user's warnings in insertion order.
// A user with no warnings yields an empty slice.
func (s *Service) List(userID string) []models.Warn {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.warns[userID]
	out := make([]models.Warn, len(list))
	copy(out, list)
	return out
}

// Count returns the number of warnings on record for a user
func (s *Service) Count(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.warns[userID])
}
