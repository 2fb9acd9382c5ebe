package health

import "context"

// StorePinger checks the session store.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// BackendChecker checks that the CMS backend answers.
type BackendChecker interface {
	Health(ctx context.Context) error
}
