// Package registry holds the templates discovered on disk and signals when
// the catalog must be rescanned.
//
// Mutating catalog operations call MarkDirty; the next listing consumes the
// flag with ConsumeDirty and rescans. Watchers receive Added, Updated and
// Removed events when Sync applies a new scan.
package registry

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// TemplateRegistry manages all discovered templates
type TemplateRegistry struct {
	templates map[string]*TemplateInfo
	mutex     sync.RWMutex
	watchers  []chan TemplateEvent
	dirty     atomic.Bool
}

// TemplateInfo describes one template file and its language variants.
type TemplateInfo struct {
	Version  string
	Category string
	Flag     string
	// Path is the template file.
	Path string
	// Languages holds the language flags, sorted; "" is the default language.
	Languages []string
	LastMod   time.Time
	Hash      string
}

// ID is the category followed by the flag, unique within a version.
func (t *TemplateInfo) ID() string {
	return t.Category + t.Flag
}

// Key identifies the template across versions.
func (t *TemplateInfo) Key() string {
	return t.Version + "/" + t.ID()
}

// HasLanguage reports whether the language flag exists for the template.
func (t *TemplateInfo) HasLanguage(flag string) bool {
	for _, l := range t.Languages {
		if l == flag {
			return true
		}
	}
	return false
}

func (t *TemplateInfo) sameAs(o *TemplateInfo) bool {
	if t.Path != o.Path || t.Hash != o.Hash || len(t.Languages) != len(o.Languages) {
		return false
	}
	for i := range t.Languages {
		if t.Languages[i] != o.Languages[i] {
			return false
		}
	}
	return true
}

// TemplateEvent represents a change in the template registry
type TemplateEvent struct {
	Type      EventType
	Template  *TemplateInfo
	Timestamp time.Time
}

// EventType represents the type of template event
type EventType int

const (
	EventTypeAdded EventType = iota
	EventTypeUpdated
	EventTypeRemoved
)

func (e EventType) String() string {
	switch e {
	case EventTypeAdded:
		return "added"
	case EventTypeUpdated:
		return "updated"
	case EventTypeRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// NewTemplateRegistry creates a new template registry. It starts dirty so
// the first listing triggers a scan.
func NewTemplateRegistry() *TemplateRegistry {
	r := &TemplateRegistry{
		templates: make(map[string]*TemplateInfo),
		watchers:  make([]chan TemplateEvent, 0),
	}
	r.dirty.Store(true)
	return r
}

// MarkDirty requests a rescan on the next listing.
func (r *TemplateRegistry) MarkDirty() {
	r.dirty.Store(true)
}

// ConsumeDirty reports whether a rescan was requested and clears the flag.
func (r *TemplateRegistry) ConsumeDirty() bool {
	return r.dirty.Swap(false)
}

// IsDirty reports whether a rescan is pending without clearing it.
func (r *TemplateRegistry) IsDirty() bool {
	return r.dirty.Load()
}

// Register adds or updates a template in the registry
func (r *TemplateRegistry) Register(info *TemplateInfo) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.registerLocked(info)
}

func (r *TemplateRegistry) registerLocked(info *TemplateInfo) {
	eventType := EventTypeAdded
	if _, exists := r.templates[info.Key()]; exists {
		eventType = EventTypeUpdated
	}
	r.templates[info.Key()] = info
	r.notify(eventType, info)
}

// notify must be called with the mutex held.
func (r *TemplateRegistry) notify(eventType EventType, info *TemplateInfo) {
	event := TemplateEvent{
		Type:      eventType,
		Template:  info,
		Timestamp: time.Now(),
	}
	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}

// Get retrieves a template by version and ID
func (r *TemplateRegistry) Get(version, id string) (*TemplateInfo, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	info, exists := r.templates[version+"/"+id]
	return info, exists
}

// GetAll returns the templates of version sorted by category, then flag.
// An empty version returns every template.
func (r *TemplateRegistry) GetAll(version string) []*TemplateInfo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]*TemplateInfo, 0, len(r.templates))
	for _, info := range r.templates {
		if version == "" || info.Version == version {
			result = append(result, info)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Version != b.Version {
			return a.Version < b.Version
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Flag < b.Flag
	})
	return result
}

// Remove removes a template from the registry
func (r *TemplateRegistry) Remove(version, id string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	key := version + "/" + id
	info, exists := r.templates[key]
	if !exists {
		return
	}
	delete(r.templates, key)
	r.notify(EventTypeRemoved, info)
}

// Sync replaces the templates of version with found. Unchanged templates
// produce no event. It returns the number of events emitted.
func (r *TemplateRegistry) Sync(version string, found []*TemplateInfo) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	events := 0
	seen := make(map[string]struct{}, len(found))
	for _, info := range found {
		seen[info.Key()] = struct{}{}
		if old, ok := r.templates[info.Key()]; ok && old.sameAs(info) {
			r.templates[info.Key()] = info
			continue
		}
		r.registerLocked(info)
		events++
	}

	for key, info := range r.templates {
		if info.Version != version {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		delete(r.templates, key)
		r.notify(EventTypeRemoved, info)
		events++
	}
	return events
}

// Watch returns a channel that receives template events
func (r *TemplateRegistry) Watch() <-chan TemplateEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan TemplateEvent, 100)
	r.watchers = append(r.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it
func (r *TemplateRegistry) UnWatch(ch <-chan TemplateEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, watcher := range r.watchers {
		if watcher == ch {
			close(watcher)
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
			break
		}
	}
}

// Count returns the number of registered templates
func (r *TemplateRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.templates)
}
