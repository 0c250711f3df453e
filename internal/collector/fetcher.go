package collector

import "github.com/cailot/cool-runnings/internal/model"

// Fetcher defines the interface for fetching published draw results.
type Fetcher interface {
	// FetchLatest returns up to count recent draws, newest first.
	FetchLatest(count int) ([]model.Draw, error)
	Name() string
}
