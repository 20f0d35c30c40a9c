package twitter

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNotFound is returned (wrapped with the selector) when a lookup matches
// nothing.
var ErrNotFound = errors.New("element not found")

// IsNotFound reports whether err comes from a lookup that matched nothing.
func IsNotFound(err error) bool {
	return errors.Cause(err) == ErrNotFound
}

// Element is one located node of the host page.
type Element interface {
	Text() (string, error)
	// Attribute returns "" when the attribute is not set.
	Attribute(name string) (string, error)
	// Find looks up a descendant without waiting for it to appear.
	Find(selector string) (Element, error)

	Click() error
	Focus() error
	MouseDown() error
	MouseUp() error
	// Clear empties an input's value or an editable node's text.
	Clear() error
	// NotifyInput dispatches an input event carrying data so the page's
	// listeners (counters, button enablement, suggestions) update.
	NotifyInput(data string) error
}

// Page is the fixed capability set the automation needs from the host page.
// Lookups never wait: a missing element is reported as ErrNotFound.
type Page interface {
	Navigate(ctx context.Context, url string) error
	Find(ctx context.Context, selector string) (Element, error)
	FindAll(ctx context.Context, selector string) ([]Element, error)
	// FindByText returns the first selector match whose text matches the JS
	// regex pattern, e.g. `/^search$/i`.
	FindByText(ctx context.Context, selector, pattern string) (Element, error)
	// InsertText inserts text at the current caret, as typing would.
	InsertText(ctx context.Context, text string) error
	ScrollBy(ctx context.Context, dy int) error
	Location(ctx context.Context) (string, error)
}
