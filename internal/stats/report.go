package stats

import (
	"context"

	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions         []model.SessionAggregate
	WindowSessionIDs []int64
	KeyAggsAll       []model.KeyAggregate
	KeyAggsWindow    []model.KeyAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	allIDs := SessionIDs(sessions)
	windowIDs := lastSessionIDs(sessions, cfg.CurveWindow)
	keyAggsAll, err := st.ListKeyAggregatesForSessions(ctx, allIDs)
	if err != nil {
		return Report{}, err
	}
	keyAggsWindow, err := st.ListKeyAggregatesForSessions(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Sessions:         sessions,
		WindowSessionIDs: windowIDs,
		KeyAggsAll:       keyAggsAll,
		KeyAggsWindow:    keyAggsWindow,
	}, nil
}

// SessionIDs returns the IDs of sessions in order.
func SessionIDs(sessions []model.SessionAggregate) []int64 {
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}

func lastSessionIDs(sessions []model.SessionAggregate, window int) []int64 {
	if window <= 0 || len(sessions) <= window {
		return SessionIDs(sessions)
	}
	return SessionIDs(sessions[len(sessions)-window:])
}
