package find

import "errors"

// Search signals. None of them is fatal; callers turn them into notifications.
var (
	ErrEmptyQuery   = errors.New("empty search query")
	ErrNoMatches    = errors.New("no matches")
	ErrNoSearch     = errors.New("no active search")
	ErrSingleMatch  = errors.New("only one match")
	ErrSameWord     = errors.New("replacement equals search text")
	ErrNotReplacing = errors.New("no replacement pending")
	ErrStaleMatches = errors.New("matches no longer present in buffer")
)
