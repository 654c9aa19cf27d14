package enrichment

import "errors"

var (
	// ErrUnknownProvider is returned when a request names a service outside hunter, apollo and lusha.
	ErrUnknownProvider = errors.New("unknown enrichment service")
	// ErrMissingOwner is returned when a batch is requested without an owning user.
	ErrMissingOwner = errors.New("owner id is required")
)
