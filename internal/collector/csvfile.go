package collector

import (
	"fmt"
	"sort"

	"github.com/cailot/cool-runnings/internal/archive"
	"github.com/cailot/cool-runnings/internal/model"
)

// CSVFetcher serves draw results from an exported CSV file. Useful when no
// results endpoint is configured or reachable.
type CSVFetcher struct {
	Path string
}

func NewCSVFetcher(path string) *CSVFetcher {
	return &CSVFetcher{Path: path}
}

func (f *CSVFetcher) Name() string { return "csv" }

func (f *CSVFetcher) FetchLatest(count int) ([]model.Draw, error) {
	draws, err := archive.ReadCSV(f.Path)
	if err != nil {
		return nil, err
	}
	if len(draws) == 0 {
		return nil, fmt.Errorf("csv: no draws in %s", f.Path)
	}

	sort.Slice(draws, func(i, j int) bool { return draws[i].Index > draws[j].Index })
	if len(draws) > count {
		draws = draws[:count]
	}
	return draws, nil
}
