package stage

import (
	"context"

	"boxcar/internal/journal"
)

// Handler describes the contract the workflow manager needs from each stage.
type Handler interface {
	Prepare(context.Context, *journal.Record) error
	Execute(context.Context, *journal.Record) error
	HealthCheck(context.Context) Health
}
