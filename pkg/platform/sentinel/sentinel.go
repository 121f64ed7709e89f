package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and provider clients return
// these (optionally wrapped) so services can translate them into user-facing
// outcomes.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: record does not exist in store
// - ErrNoData: upstream provider had no data for the request
// - ErrStale: write rejected because a newer address superseded the input
// - ErrConflict: concurrent modification detected
// - ErrUnavailable: service or resource temporarily unavailable
var (
	ErrNotFound    = errors.New("not found")
	ErrNoData      = errors.New("no data")
	ErrStale       = errors.New("stale")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
