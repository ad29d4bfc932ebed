package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/five82/snooze/internal/storyapi"
)

func TestDedupe_KeepsFirstOccurrence(t *testing.T) {
	got := dedupe([]storyapi.Story{
		{StoryID: "a", Title: "first"},
		{StoryID: "b"},
		{StoryID: "a", Title: "second"},
	})
	require.Len(t, got, 2)
	require.Equal(t, "first", got[0].Title)
}

func TestCatalog_FindAndClone(t *testing.T) {
	c := Catalog{Stories: []storyapi.Story{{StoryID: "a"}, {StoryID: "b"}}}
	require.True(t, c.Contains("b"))
	require.False(t, c.Contains(""))
	require.False(t, c.Contains("z"))

	clone := c.Clone()
	clone.Stories[0].Title = "changed"
	require.Empty(t, c.Stories[0].Title)
}

func TestCheckStory_ReportsEveryField(t *testing.T) {
	err := checkStory(newValidator(), normalize(storyapi.NewStory{Author: "  ", Title: "T", URL: "ftp://x"}))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.ErrorIs(t, err, storyapi.ErrValidation)
	require.Equal(t, []FieldError{
		{Field: "author", Message: "is required"},
		{Field: "url", Message: "must be an http or https URL"},
	}, verr.Fields)
	require.Contains(t, err.Error(), "author: is required")

	require.NoError(t, checkStory(newValidator(), storyapi.NewStory{Author: "A", Title: "T", URL: "https://example.com"}))
}
