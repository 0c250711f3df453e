package archive

import (
	"sort"
	"sync"

	"github.com/cailot/cool-runnings/internal/model"
)

// MemoryArchive is an in-memory implementation used in tests and when
// SQLite is not configured.
type MemoryArchive struct {
	mu    sync.RWMutex
	draws map[int]model.Draw
}

func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{draws: make(map[int]model.Draw)}
}

// NewMemoryArchiveWith seeds the archive with the given draws.
func NewMemoryArchiveWith(draws []model.Draw) *MemoryArchive {
	a := NewMemoryArchive()
	for _, d := range draws {
		a.draws[d.Index] = d
	}
	return a
}

func (a *MemoryArchive) ListDrawsDescending() ([]model.Draw, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]model.Draw, 0, len(a.draws))
	for _, d := range a.draws {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index > out[j].Index })
	return out, nil
}

func (a *MemoryArchive) FindByIndex(index int) (*model.Draw, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if d, ok := a.draws[index]; ok {
		return &d, nil
	}
	return nil, nil
}

func (a *MemoryArchive) LatestDraw() (*model.Draw, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var latest *model.Draw
	for i := range a.draws {
		d := a.draws[i]
		if latest == nil || d.Index > latest.Index {
			latest = &d
		}
	}
	return latest, nil
}

func (a *MemoryArchive) SaveDraw(d model.Draw) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.draws[d.Index]; !exists {
		a.draws[d.Index] = d
	}
	return nil
}

func (a *MemoryArchive) Count() (int, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.draws), nil
}

func (a *MemoryArchive) Close() error { return nil }
