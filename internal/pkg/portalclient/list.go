package portalclient

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/yigit/consultdesk/internal/app/models"
	"github.com/yigit/consultdesk/internal/app/models/dto"
)

// Toggler flips a consultation's completion flag on the server
type Toggler interface {
	ToggleConsultation(ctx context.Context, id string, isComplete bool) (dto.ActionResult[dto.Empty], error)
}

// ConsultationList is a local view of the caller's consultations keyed by
// id. It is changed only after the server confirms a write, so it may lag
// behind writes made elsewhere until the next Replace.
type ConsultationList struct {
	mu    sync.RWMutex
	items map[string]models.Consultation
}

// NewConsultationList seeds the list with a server snapshot
func NewConsultationList(items []models.Consultation) *ConsultationList {
	l := &ConsultationList{}
	l.Replace(items)
	return l
}

// Replace discards local state in favour of a fresh snapshot
func (l *ConsultationList) Replace(items []models.Consultation) {
	m := make(map[string]models.Consultation, len(items))
	for _, c := range items {
		m[c.ID] = c
	}
	l.mu.Lock()
	l.items = m
	l.mu.Unlock()
}

// Add records a consultation the server has created
func (l *ConsultationList) Add(c models.Consultation) {
	l.mu.Lock()
	l.items[c.ID] = c
	l.mu.Unlock()
}

// Get returns the consultation with id
func (l *ConsultationList) Get(id string) (models.Consultation, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.items[id]
	return c, ok
}

// Len returns the number of consultations
func (l *ConsultationList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Items returns the consultations earliest first
func (l *ConsultationList) Items() []models.Consultation {
	l.mu.RLock()
	out := make([]models.Consultation, 0, len(l.items))
	for _, c := range l.items {
		out = append(out, c)
	}
	l.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Datetime.Equal(out[j].Datetime) {
			return out[i].ID < out[j].ID
		}
		return out[i].Datetime.Before(out[j].Datetime)
	})
	return out
}

// Toggle asks the server to flip id and mirrors the change locally once
// confirmed. The returned result is the server's.
func (l *ConsultationList) Toggle(ctx context.Context, api Toggler, id string) (dto.ActionResult[dto.Empty], error) {
	current, ok := l.Get(id)
	if !ok {
		return dto.ActionResult[dto.Empty]{}, fmt.Errorf("consultation %s not in list", id)
	}

	res, err := api.ToggleConsultation(ctx, id, current.IsComplete)
	if err != nil || !res.Succeeded() {
		return res, err
	}

	l.mu.Lock()
	if c, ok := l.items[id]; ok {
		c.IsComplete = !current.IsComplete
		l.items[id] = c
	}
	l.mu.Unlock()
	return res, nil
}
