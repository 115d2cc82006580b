package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/geoflex/internal/core/domain"
)

// ArchiveInput is the input for the archive workflow.
type ArchiveInput struct {
	Kind     string
	Source   string
	Polyline string
}

// ArchiveGeometryWorkflow decodes, stores and announces one encoded
// geometry and returns the stored ID. If the announcement fails, the stored
// row is deleted (saga compensation).
func ArchiveGeometryWorkflow(ctx workflow.Context, input ArchiveInput) (string, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting archive workflow", "kind", input.Kind, "source", input.Source)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: Decode and validate
	var g domain.StoredGeometry
	if err := workflow.ExecuteActivity(ctx, "DecodeGeometry", input).Get(ctx, &g); err != nil {
		return "", err
	}

	// Step 2: Store
	var stored domain.StoredGeometry
	if err := workflow.ExecuteActivity(ctx, "StoreGeometry", &g).Get(ctx, &stored); err != nil {
		return "", err
	}

	// Step 3: Announce
	err := workflow.ExecuteActivity(ctx, "PublishStored", &stored).Get(ctx, nil)
	if err != nil {
		logger.Warn("publish failed, compensating", "id", stored.ID, "error", err)
		if derr := workflow.ExecuteActivity(ctx, "DeleteGeometry", stored.ID).Get(ctx, nil); derr != nil {
			logger.Error("compensation failed", "id", stored.ID, "error", derr)
		}
		return "", err
	}

	logger.Info("Geometry archived", "id", stored.ID, "points", stored.PointCount)
	return stored.ID, nil
}
