package jobs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// TitleSource lists the names the offline extractor should know.
type TitleSource interface {
	ListProfileTitles(ctx context.Context) ([]string, error)
}

// Reloader is implemented by ai.Dictionary.
type Reloader interface {
	Reload(names []string)
}

// DictionaryRefresher keeps the offline extractor in step with the profile titles.
type DictionaryRefresher struct {
	source   TitleSource
	target   Reloader
	interval time.Duration
	done     chan struct{}
}

// NewDictionaryRefresher creates a new DictionaryRefresher instance.
func NewDictionaryRefresher(source TitleSource, target Reloader, interval time.Duration) *DictionaryRefresher {
	return &DictionaryRefresher{
		source:   source,
		target:   target,
		interval: interval,
		done:     make(chan struct{}),
	}
}

func (d *DictionaryRefresher) Stop() {
	close(d.done)
}

// Run reloads the dictionary once, then on every tick until Stop is called.
func (d *DictionaryRefresher) Run() {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.refresh()
	for {
		select {
		case <-d.done:
			return
		case <-ticker.C:
			d.refresh()
		}
	}
}

func (d *DictionaryRefresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), d.interval)
	defer cancel()

	titles, err := d.source.ListProfileTitles(ctx)
	if err != nil {
		logrus.Errorf("failed to list profile titles: %v", err)
		return
	}

	d.target.Reload(titles)
	logrus.Debugf("dictionary reloaded with %d names", len(titles))
}
