package inputsource

import (
	"context"

	"go.uber.org/zap"
)

type recordingProvider struct {
	Provider
	store HistoryStore
	log   *zap.SugaredLogger
}

// WithHistory wraps a provider so every successful Select is recorded in the
// store. Recording failures are logged, never surfaced: history is a
// convenience, not a reason to refuse a selection.
func WithHistory(provider Provider, store HistoryStore, log *zap.SugaredLogger) Provider {
	return &recordingProvider{
		Provider: provider,
		store:    store,
		log:      log,
	}
}

func (p *recordingProvider) Select(ctx context.Context, id string) error {
	if err := p.Provider.Select(ctx, id); err != nil {
		return err
	}

	name := id
	if current, err := p.Provider.Current(ctx); err == nil && current.ID == id {
		name = current.Name
	}

	if err := p.store.RecordSelection(id, name); err != nil {
		p.log.Warnw("record selection", "id", id, "error", err)
	}

	return nil
}
