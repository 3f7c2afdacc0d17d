package repository

import (
	"context"

	"github.com/diillson/aws-finops-reporter-go/internal/domain/entity"
)

// TelemetryRepository defines the interface to the event ingestion sink.
// Send delivers the full batch for a run; a failure surfaces as
// *types.SinkError and is logged, not fatal.
type TelemetryRepository interface {
	Send(ctx context.Context, events []entity.EventRecord) error
}
