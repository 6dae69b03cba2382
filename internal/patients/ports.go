package patients

import (
	"context"
	"errors"
)

// ErrStoreUnavailable is returned by every Store when the record source cannot
// be read: transport, auth or a malformed response.
var ErrStoreUnavailable = errors.New("patients: record store unavailable")

// Store is the external tabular source of patient rows. FetchAll re-reads the
// whole source on every call; implementations must not cache.
type Store interface {
	FetchAll(ctx context.Context) (RecordSet, error)
}
