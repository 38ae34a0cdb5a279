package application

import (
	"context"

	"github.com/felixgeelhaar/goap-go/domain/journal"
	"github.com/felixgeelhaar/goap-go/infrastructure/logging"
)

// recorder appends episode events to the journal. Journal failures are
// logged and never stop the episode. Appends ignore ctx cancellation so an
// aborted episode still journals how it ended.
type recorder struct {
	store     journal.Store
	episodeID string
}

func newRecorder(store journal.Store, episodeID string) *recorder {
	return &recorder{store: store, episodeID: episodeID}
}

func (r *recorder) record(ctx context.Context, t journal.Type, payload any) {
	if r.store == nil {
		return
	}

	entry, err := journal.NewEntry(r.episodeID, t, payload)
	if err == nil {
		err = r.store.Append(context.WithoutCancel(ctx), entry)
	}
	if err != nil {
		logging.Warn().
			Add(logging.Component("journal")).
			Add(logging.EpisodeID(r.episodeID)).
			Add(logging.Str("entry_type", string(t))).
			Add(logging.ErrorField(err)).
			Msg("journal append failed")
	}
}
