package patients

import (
	"context"
	"strings"
	"time"
)

// matchFields are compared against the identifier, in this order, for each row.
var matchFields = []string{FieldPatientID, FieldPrenom, FieldEmail}

// Resolve returns the first record, in store order, whose patient_id, prenom
// or email equals identifier ignoring case. Blank identifiers never match.
func Resolve(identifier string, records RecordSet) (Record, bool) {
	needle := strings.ToLower(strings.TrimSpace(identifier))
	if needle == "" {
		return nil, false
	}

	for _, rec := range records {
		for _, field := range matchFields {
			v, ok := rec.Lookup(field)
			if !ok {
				continue
			}
			if strings.ToLower(v) == needle {
				return rec, true
			}
		}
	}
	return nil, false
}

// FetchObserver receives the duration of each store read. Optional.
type FetchObserver interface {
	ObserveStoreFetch(seconds float64, err error)
}

// Resolver reloads the store on every lookup and resolves against the fresh
// snapshot. It keeps no reference to records between calls.
type Resolver struct {
	store    Store
	observer FetchObserver
}

func NewResolver(store Store, observer FetchObserver) *Resolver {
	return &Resolver{store: store, observer: observer}
}

// Find loads the current record set and resolves identifier against it.
// A store failure is returned as is (wrapping ErrStoreUnavailable); no match
// is reported through the boolean.
func (r *Resolver) Find(ctx context.Context, identifier string) (Record, bool, error) {
	// Skip the remote read for identifiers that can never match.
	if strings.TrimSpace(identifier) == "" {
		return nil, false, nil
	}

	start := time.Now()
	records, err := r.store.FetchAll(ctx)
	if r.observer != nil {
		r.observer.ObserveStoreFetch(time.Since(start).Seconds(), err)
	}
	if err != nil {
		return nil, false, err
	}

	rec, ok := Resolve(identifier, records)
	return rec, ok, nil
}
