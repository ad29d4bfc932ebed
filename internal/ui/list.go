package ui

import (
	"fmt"
	"io"

	"github.com/five82/snooze/internal/catalog"
	"github.com/five82/snooze/internal/reconcile"
	"github.com/five82/snooze/internal/session"
)

// WriteList prints cat as plain text, one story per line, with favorite and
// ownership markers for sess.
func WriteList(w io.Writer, sess *session.Session, cat catalog.Catalog) error {
	for _, r := range reconcile.ClassifyAll(sess, cat) {
		if _, err := fmt.Fprintln(w, plainRow(storyRow{story: r.Story, class: r.Classification})); err != nil {
			return err
		}
	}
	return nil
}
