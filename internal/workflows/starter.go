package workflows

import (
	"context"
	"fmt"

	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"

	"github.com/samirrijal/geoflex/internal/core/domain"
	"github.com/samirrijal/geoflex/internal/core/ports"
)

var _ ports.WorkflowStarter = (*Starter)(nil)

// Starter starts archive workflows on a Temporal task queue.
type Starter struct {
	client    client.Client
	taskQueue string
}

// NewStarter creates a Starter.
func NewStarter(c client.Client, taskQueue string) *Starter {
	return &Starter{client: c, taskQueue: taskQueue}
}

// StartArchive starts ArchiveGeometryWorkflow for the event. The workflow ID
// is derived from the event source: a redelivered event joins the run already
// in progress, and a source whose archive completed is never archived again.
// Only a failed run may be replaced.
func (s *Starter) StartArchive(ctx context.Context, event *domain.GeometryEvent) (string, error) {
	opts := client.StartWorkflowOptions{
		ID:                    "archive-" + event.Source,
		TaskQueue:             s.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE_FAILED_ONLY,
	}
	input := ArchiveInput{
		Kind:     event.Kind,
		Source:   event.Source,
		Polyline: event.Polyline,
	}
	run, err := s.client.ExecuteWorkflow(ctx, opts, ArchiveGeometryWorkflow, input)
	if err != nil {
		return "", fmt.Errorf("start archive workflow: %w", err)
	}
	return run.GetRunID(), nil
}
