package webclient

import (
	"context"
	"sync"
	"time"

	"github.com/folioweb/siteserver/types"
)

const defaultDebounce = 300 * time.Millisecond

// SuggestionFetcher supplies autocomplete candidates and user detail.
type SuggestionFetcher interface {
	SearchUsernames(ctx context.Context, term string) ([]string, error)
	SearchUser(ctx context.Context, username string) (types.Profile, error)
}

// Autocomplete drives the admin search box: keystrokes are debounced
// into at most one pending fetch, the suggestion list supports circular
// keyboard selection, and a selection triggers a detail fetch delivered
// through onDetail.
//
// Responses carry a sequence token; only the response matching the
// latest issued request is applied. Clearing the query, selecting a
// suggestion, and Reset all advance the token, so a slow stale fetch
// can neither overwrite a newer result nor re-show a dismissed list.
type Autocomplete struct {
	mu       sync.Mutex
	fetch    SuggestionFetcher
	delay    time.Duration
	onDetail func(username string, profile types.Profile, err error)

	timer       *time.Timer
	seq         uint64
	query       string
	suggestions []string
	selected    int
	visible     bool
}

func newAutocomplete(fetch SuggestionFetcher, delay time.Duration, onDetail func(string, types.Profile, error)) *Autocomplete {
	return &Autocomplete{
		fetch:    fetch,
		delay:    delay,
		onDetail: onDetail,
		selected: -1,
	}
}

// Query returns the current content of the search box.
func (a *Autocomplete) Query() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.query
}

// Suggestions returns the current candidate list and highlighted index
// (-1 when nothing is highlighted).
func (a *Autocomplete) Suggestions() ([]string, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.suggestions...), a.selected
}

// Visible reports whether the suggestion list is shown.
func (a *Autocomplete) Visible() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.visible
}

// SetQuery records a keystroke. Each call cancels the pending fetch
// timer and schedules a new one; an empty query hides the list and
// issues no fetch at all.
func (a *Autocomplete) SetQuery(ctx context.Context, query string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.query = query
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}

	if len(query) == 0 {
		a.seq++ // any in-flight fetch is now stale
		a.suggestions = nil
		a.selected = -1
		a.visible = false
		return
	}

	a.timer = time.AfterFunc(a.delay, func() {
		a.fire(ctx, query)
	})
}

// fire issues the debounced fetch and applies the result only if no
// newer fetch has been issued since.
func (a *Autocomplete) fire(ctx context.Context, query string) {
	a.mu.Lock()
	a.seq++
	token := a.seq
	a.mu.Unlock()

	users, err := a.fetch.SearchUsernames(ctx, query)
	if err != nil {
		users = nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if token != a.seq {
		// A newer request was issued while this one was in flight.
		return
	}
	a.suggestions = users
	a.selected = -1
	a.visible = len(users) > 0
}

// MoveDown advances the highlight, wrapping past the last suggestion.
// The search box follows the highlighted candidate.
func (a *Autocomplete) MoveDown() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.suggestions) == 0 {
		return
	}
	a.selected = (a.selected + 1) % len(a.suggestions)
	a.query = a.suggestions[a.selected]
}

// MoveUp moves the highlight back, wrapping from the first suggestion
// to the last.
func (a *Autocomplete) MoveUp() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.suggestions) == 0 {
		return
	}
	a.selected = (a.selected - 1 + len(a.suggestions)) % len(a.suggestions)
	a.query = a.suggestions[a.selected]
}

// Confirm selects the highlighted suggestion, if any. Equivalent to
// clicking it.
func (a *Autocomplete) Confirm(ctx context.Context) {
	a.mu.Lock()
	if a.selected < 0 || a.selected >= len(a.suggestions) {
		a.mu.Unlock()
		return
	}
	username := a.suggestions[a.selected]
	a.mu.Unlock()

	a.Select(ctx, username)
}

// Select applies a suggestion: the search box takes the username, the
// list hides, and the user's detail is fetched and delivered.
func (a *Autocomplete) Select(ctx context.Context, username string) {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.seq++ // any in-flight fetch is now stale
	a.query = username
	a.visible = false
	a.mu.Unlock()

	profile, err := a.fetch.SearchUser(ctx, username)
	if a.onDetail != nil {
		a.onDetail(username, profile, err)
	}
}

// ClickOutside hides the list without clearing the search box.
func (a *Autocomplete) ClickOutside() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.visible = false
}

// Reset clears the search box and the list, cancelling any pending fetch.
func (a *Autocomplete) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.seq++ // any in-flight fetch is now stale
	a.query = ""
	a.suggestions = nil
	a.selected = -1
	a.visible = false
}
