package catalog

import (
	"slices"
	"time"

	"github.com/five82/snooze/internal/storyapi"
)

// Catalog is a point-in-time snapshot of all stories in server order.
type Catalog struct {
	Stories  []storyapi.Story
	LoadedAt time.Time
}

// Len returns the number of stories.
func (c Catalog) Len() int {
	return len(c.Stories)
}

// Contains reports whether a story with id is in the snapshot.
func (c Catalog) Contains(id string) bool {
	_, ok := c.Find(id)
	return ok
}

// Find returns the story with id.
func (c Catalog) Find(id string) (storyapi.Story, bool) {
	if id == "" {
		return storyapi.Story{}, false
	}
	i := slices.IndexFunc(c.Stories, func(s storyapi.Story) bool { return s.StoryID == id })
	if i < 0 {
		return storyapi.Story{}, false
	}
	return c.Stories[i], true
}

// Clone returns a copy that shares nothing with c.
func (c Catalog) Clone() Catalog {
	return Catalog{Stories: slices.Clone(c.Stories), LoadedAt: c.LoadedAt}
}

// dedupe keeps the first occurrence of every id so the snapshot never holds
// duplicate ids even if the service returns them.
func dedupe(stories []storyapi.Story) []storyapi.Story {
	seen := make(map[string]struct{}, len(stories))
	out := make([]storyapi.Story, 0, len(stories))
	for _, s := range stories {
		if _, ok := seen[s.StoryID]; ok {
			continue
		}
		seen[s.StoryID] = struct{}{}
		out = append(out, s)
	}
	return out
}
