package session

import (
	"maps"
	"slices"

	"github.com/five82/snooze/internal/storyapi"
)

// Refs is a set of story ids. Membership is by id only, never by record
// identity, so references from different fetches compare equal. A Refs value
// is never mutated after construction; use with and without to derive a new
// set.
type Refs map[string]struct{}

// NewRefs builds a set from ids.
func NewRefs(ids ...string) Refs {
	r := make(Refs, len(ids))
	for _, id := range ids {
		if id != "" {
			r[id] = struct{}{}
		}
	}
	return r
}

func refsFromStories(stories []storyapi.Story) Refs {
	r := make(Refs, len(stories))
	for _, s := range stories {
		if s.StoryID != "" {
			r[s.StoryID] = struct{}{}
		}
	}
	return r
}

// Has reports membership of id. A nil set contains nothing.
func (r Refs) Has(id string) bool {
	_, ok := r[id]
	return ok
}

// Len returns the number of ids.
func (r Refs) Len() int {
	return len(r)
}

// IDs returns the ids in sorted order.
func (r Refs) IDs() []string {
	return slices.Sorted(maps.Keys(r))
}

func (r Refs) with(id string) Refs {
	out := maps.Clone(r)
	if out == nil {
		out = make(Refs, 1)
	}
	out[id] = struct{}{}
	return out
}

func (r Refs) without(id string) Refs {
	out := maps.Clone(r)
	delete(out, id)
	return out
}
