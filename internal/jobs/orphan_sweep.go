package jobs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// OrphanSweeper is the part of the synchronizer the sweep needs.
type OrphanSweeper interface {
	SweepOrphans(ctx context.Context, olderThan time.Time) (int, error)
}

// OrphanSweepTask deletes profiles left without any linked note, for example by
// a manual unlink or a run that failed halfway. Profiles updated within the
// grace period are kept so a freshly created profile can still be linked.
type OrphanSweepTask struct {
	sweeper  OrphanSweeper
	schedule string
	grace    time.Duration
	timeout  time.Duration
}

func NewOrphanSweepTask(sweeper OrphanSweeper, schedule string, grace time.Duration) *OrphanSweepTask {
	return &OrphanSweepTask{
		sweeper:  sweeper,
		schedule: schedule,
		grace:    grace,
		timeout:  5 * time.Minute,
	}
}

func (o *OrphanSweepTask) Schedule() string {
	return o.schedule
}

func (o *OrphanSweepTask) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	swept, err := o.sweeper.SweepOrphans(ctx, time.Now().Add(-o.grace))
	if err != nil {
		logrus.Errorf("orphan sweep failed: %v", err)
		return
	}
	if swept > 0 {
		logrus.Infof("orphan sweep removed %d profiles", swept)
	}
}
