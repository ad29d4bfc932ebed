package reconcile

import (
	"github.com/five82/snooze/internal/catalog"
	"github.com/five82/snooze/internal/session"
	"github.com/five82/snooze/internal/storyapi"
)

// Variant is the display variant of a story for the current session.
type Variant int

const (
	Anonymous Variant = iota
	Unfavorited
	Favorited
)

func (v Variant) String() string {
	switch v {
	case Unfavorited:
		return "unfavorited"
	case Favorited:
		return "favorited"
	default:
		return "anonymous"
	}
}

// Classification is the derived display state of one story. IsOwn is
// independent of Variant: an owned story may also be a favorite.
type Classification struct {
	Variant Variant
	IsOwn   bool
}

// Classify derives the display state of story for sess. Favorite and
// ownership are decided by id membership only.
func Classify(sess *session.Session, story storyapi.Story) Classification {
	if !sess.Authenticated() {
		return Classification{Variant: Anonymous}
	}
	c := Classification{Variant: Unfavorited, IsOwn: sess.Owns(story.StoryID)}
	if sess.IsFavorite(story.StoryID) {
		c.Variant = Favorited
	}
	return c
}

// Row pairs a story with its classification.
type Row struct {
	Story storyapi.Story
	Classification
}

// ClassifyAll classifies every story of cat in catalog order.
func ClassifyAll(sess *session.Session, cat catalog.Catalog) []Row {
	rows := make([]Row, 0, len(cat.Stories))
	for _, s := range cat.Stories {
		rows = append(rows, Row{Story: s, Classification: Classify(sess, s)})
	}
	return rows
}
