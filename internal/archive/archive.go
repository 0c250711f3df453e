package archive

import "github.com/cailot/cool-runnings/internal/model"

// Archive is the read/write surface over the historical draw store. The
// prediction engine only reads; the collector is the sole writer.
type Archive interface {
	// ListDrawsDescending returns all draws, newest first.
	ListDrawsDescending() ([]model.Draw, error)
	// FindByIndex returns the draw with the given index, or nil if absent.
	FindByIndex(index int) (*model.Draw, error)
	// LatestDraw returns the newest draw, or nil if the archive is empty.
	LatestDraw() (*model.Draw, error)
	// SaveDraw inserts a draw. Saving an existing index is a no-op.
	SaveDraw(d model.Draw) error
	// Count returns the number of stored draws.
	Count() (int, error)
	Close() error
}
