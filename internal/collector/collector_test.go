package collector

import (
	"errors"
	"testing"
	"time"

	"github.com/cailot/cool-runnings/internal/archive"
	"github.com/cailot/cool-runnings/internal/model"
)

func testDraw(index int) model.Draw {
	return model.Draw{
		Index:   index,
		Date:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, index),
		Winning: [7]int{1, 5, 12, 19, 23, 30, 38},
		Bonus:   [2]int{41, 44},
	}
}

func TestSync_SavesOnlyNewDraws(t *testing.T) {
	store := archive.NewMemoryArchiveWith([]model.Draw{testDraw(101)})
	fetcher := &StaticFetcher{Draws: []model.Draw{testDraw(103), testDraw(102), testDraw(101)}}
	c := NewCollector(fetcher, store)

	saved, err := c.Sync()
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if saved != 2 {
		t.Errorf("expected 2 new draws, got %d", saved)
	}

	count, _ := store.Count()
	if count != 3 {
		t.Errorf("expected 3 archived draws, got %d", count)
	}

	saved, err = c.Sync()
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if saved != 0 {
		t.Errorf("expected an up-to-date archive, got %d saved", saved)
	}
}

func TestSync_FetchError(t *testing.T) {
	fetchErr := errors.New("results endpoint down")
	c := NewCollector(&StaticFetcher{Err: fetchErr}, archive.NewMemoryArchive())

	if _, err := c.Sync(); !errors.Is(err, fetchErr) {
		t.Errorf("expected the fetch error to surface, got %v", err)
	}
}

func TestStaticFetcher_TrimsToCount(t *testing.T) {
	fetcher := &StaticFetcher{Draws: []model.Draw{
		testDraw(5), testDraw(4), testDraw(3), testDraw(2), testDraw(1),
	}}

	draws, err := fetcher.FetchLatest(3)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(draws) != 3 {
		t.Fatalf("expected 3 draws, got %d", len(draws))
	}
	if draws[0].Index != 5 || draws[2].Index != 3 {
		t.Errorf("expected the newest draws first, got %d..%d", draws[0].Index, draws[2].Index)
	}
}
