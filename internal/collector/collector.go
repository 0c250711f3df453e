package collector

import (
	"fmt"
	"log"

	"github.com/cailot/cool-runnings/internal/archive"
	"github.com/cailot/cool-runnings/internal/model"
)

// fetchBatch is how many recent draws a sync requests; big enough to cover
// any realistic gap between runs.
const fetchBatch = 20

// StaticFetcher returns controllable fixed data for development and testing.
type StaticFetcher struct {
	Draws []model.Draw
	Err   error
}

func (s *StaticFetcher) Name() string { return "static" }

func (s *StaticFetcher) FetchLatest(count int) ([]model.Draw, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	draws := s.Draws
	if len(draws) > count {
		draws = draws[:count]
	}
	return draws, nil
}

// Collector keeps the draw archive in step with the published results.
type Collector struct {
	Fetcher Fetcher
	Archive archive.Archive
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, a archive.Archive) *Collector {
	return &Collector{Fetcher: fetcher, Archive: a}
}

// Sync fetches recent draws and stores any the archive doesn't have yet.
// Returns the number of new draws saved.
func (c *Collector) Sync() (int, error) {
	draws, err := c.Fetcher.FetchLatest(fetchBatch)
	if err != nil {
		return 0, fmt.Errorf("fetch latest draws (%s): %w", c.Fetcher.Name(), err)
	}

	saved := 0
	for _, d := range draws {
		existing, err := c.Archive.FindByIndex(d.Index)
		if err != nil {
			return saved, fmt.Errorf("lookup draw %d: %w", d.Index, err)
		}
		if existing != nil {
			continue
		}
		if err := c.Archive.SaveDraw(d); err != nil {
			return saved, fmt.Errorf("save draw %d: %w", d.Index, err)
		}
		log.Printf("[INFO] collector: new draw %d (%s) saved", d.Index, d.Date.Format("2006-01-02"))
		saved++
	}

	if saved == 0 {
		log.Printf("[INFO] collector: archive already up to date")
	} else {
		log.Printf("[INFO] collector: %d new draws saved", saved)
	}
	return saved, nil
}
