package observer

import "errors"

// ErrNilObserver is returned by APIs that require a non-nil Observer
// argument rather than silently ignoring it the way Manager.Register does.
var ErrNilObserver = errors.New("observer: observer must not be nil")
