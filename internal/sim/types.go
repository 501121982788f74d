package sim

import (
	"time"

	"github.com/san-kum/galaxysim/internal/series"
)

// Observer is notified after every recorded frame.
type Observer interface {
	OnFrame(done, total int)
}

type ObserverFunc func(done, total int)

func (f ObserverFunc) OnFrame(done, total int) { f(done, total) }

type Result struct {
	Series     *series.Series
	Frames     int
	Exclusions int
	Metrics    map[string]float64
	Elapsed    time.Duration
}
