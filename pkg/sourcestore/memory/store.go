package memory

import (
	"time"

	"codeberg.org/miketth/inputdeck/pkg/inputsource"
)

type HistoryStore struct {
	selections []inputsource.Selection
}

func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

func (s *HistoryStore) RecordSelection(id string, name string) error {
	s.selections = append(s.selections, inputsource.Selection{
		ID:   id,
		Name: name,
		At:   time.Now(),
	})
	return nil
}

func (s *HistoryStore) LastSelected() (string, error) {
	if len(s.selections) == 0 {
		return "", nil
	}
	return s.selections[len(s.selections)-1].ID, nil
}

func (s *HistoryStore) History(limit int) ([]inputsource.Selection, error) {
	// a negative limit means unlimited, like sqlite's LIMIT -1
	if limit < 0 {
		limit = len(s.selections)
	}

	out := make([]inputsource.Selection, 0, limit)
	for i := len(s.selections) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.selections[i])
	}
	return out, nil
}
