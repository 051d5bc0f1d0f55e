package samples

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Gallery holds the loaded samples and reloads them on demand.
type Gallery struct {
	dir    string
	logger *slog.Logger

	mu      sync.RWMutex
	samples []*Sample
	byName  map[string]*Sample

	// onReload, when set, is called after every successful reload.
	onReload func()
}

// NewGallery creates a gallery over the given directory. Call Load
// before serving.
func NewGallery(dir string) *Gallery {
	return &Gallery{
		dir:    dir,
		logger: slog.Default().With("component", "samples.gallery"),
		byName: make(map[string]*Sample),
	}
}

// OnReload registers a hook called after each successful Load.
func (g *Gallery) OnReload(fn func()) {
	g.onReload = fn
}

// Load reads all sample files from the gallery directory. Files that
// fail to parse are skipped with a warning so one broken sample does
// not take the gallery down.
func (g *Gallery) Load() error {
	entries, err := os.ReadDir(g.dir)
	if err != nil {
		return fmt.Errorf("reading sample directory: %w", err)
	}

	var samples []*Sample
	byName := make(map[string]*Sample)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		if strings.HasPrefix(name, ".") {
			continue
		}

		path := filepath.Join(g.dir, name)
		s, err := loadSampleFile(path)
		if err != nil {
			g.logger.Warn("skipping broken sample", "file", name, "error", err)
			continue
		}
		if s.Name == "" {
			s.Name = strings.TrimSuffix(name, ext)
		}
		samples = append(samples, s)
		byName[s.Name] = s
	}

	sort.Slice(samples, func(i, j int) bool { return samples[i].Name < samples[j].Name })

	g.mu.Lock()
	g.samples = samples
	g.byName = byName
	g.mu.Unlock()

	g.logger.Info("sample gallery loaded", "dir", g.dir, "samples", len(samples))
	if g.onReload != nil {
		g.onReload()
	}
	return nil
}

// List returns all samples sorted by name.
func (g *Gallery) List() []*Sample {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Sample, len(g.samples))
	copy(out, g.samples)
	return out
}

// Get returns the sample with the given name, or nil.
func (g *Gallery) Get(name string) *Sample {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.byName[name]
}
