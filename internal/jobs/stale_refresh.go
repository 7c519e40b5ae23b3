package jobs

import (
	"context"
	"time"

	"github.com/emrgen/notes/internal/store"
	"github.com/sirupsen/logrus"
)

// Refresher is the part of the synchronizer the refresh needs.
type Refresher interface {
	Refresh(ctx context.Context, profileID string) error
}

// StaleRefreshTask retries the summarization of linked profiles that still
// have no content, left behind by summarizer failures.
type StaleRefreshTask struct {
	store     store.ProfileStore
	refresher Refresher
	schedule  string
	age       time.Duration
	limit     int
}

func NewStaleRefreshTask(store store.ProfileStore, refresher Refresher, schedule string, age time.Duration) *StaleRefreshTask {
	return &StaleRefreshTask{
		store:     store,
		refresher: refresher,
		schedule:  schedule,
		age:       age,
		limit:     20,
	}
}

func (s *StaleRefreshTask) Schedule() string {
	return s.schedule
}

func (s *StaleRefreshTask) Run() {
	ctx := context.Background()

	profiles, err := s.store.ListStaleProfiles(ctx, time.Now().Add(-s.age))
	if err != nil {
		logrus.Errorf("failed to list stale profiles: %v", err)
		return
	}

	for i, p := range profiles {
		if i == s.limit {
			logrus.Infof("%d stale profiles left for the next run", len(profiles)-i)
			break
		}
		if err := s.refresher.Refresh(ctx, p.ID); err != nil {
			logrus.WithField("profile", p.ID).Warnf("stale profile not refreshed: %v", err)
		}
	}
}
