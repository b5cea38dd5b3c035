package btree

import "github.com/pkg/errors"

// ErrDuplicateKey is returned when an insert targets a key already present.
var ErrDuplicateKey = errors.New("btree: key already exists")

// ErrNoData is returned when an update, select, or delete targets a key
// that is not present.
var ErrNoData = errors.New("btree: no such key")
