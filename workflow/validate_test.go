package workflow_test

import (
	"testing"

	"github.com/hupe1980/agentwire/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRejectsEmptyWorkflow(t *testing.T) {
	_, err := workflow.ParseConfig([]byte(`
workflows:
  empty:
    description: nothing to do
    steps: []
`))

	var invalidErr *workflow.InvalidWorkflowError
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, "empty", invalidErr.Workflow)
	assert.Contains(t, invalidErr.Reason, "no steps")
}

func TestValidateRejectsStepWithoutAgent(t *testing.T) {
	_, err := workflow.ParseConfig([]byte(`
workflows:
  broken:
    steps:
      - task: orphan
`))

	var invalidErr *workflow.InvalidWorkflowError
	require.ErrorAs(t, err, &invalidErr)
	assert.Contains(t, invalidErr.Reason, "no agent")
}

func TestValidateRejectsDanglingRoute(t *testing.T) {
	_, err := workflow.ParseConfig([]byte(`
workflows:
  dangling:
    steps:
      - agent: producer
        task: produce
        route_output_to:
          agent: consumer
          task: consume
      - agent: consumer
        task: something_else
`))

	var invalidErr *workflow.InvalidWorkflowError
	require.ErrorAs(t, err, &invalidErr)
	assert.Contains(t, invalidErr.Reason, "matches no later step")
}

func TestValidateRejectsRouteToEarlierStep(t *testing.T) {
	// The route target exists but only before the producing step; routes
	// flow strictly forward.
	_, err := workflow.ParseConfig([]byte(`
workflows:
  backwards:
    steps:
      - agent: consumer
        task: consume
      - agent: producer
        task: produce
        route_output_to:
          agent: consumer
          task: consume
`))

	var invalidErr *workflow.InvalidWorkflowError
	require.ErrorAs(t, err, &invalidErr)
}

func TestValidateRejectsContextKeyClobber(t *testing.T) {
	_, err := workflow.ParseConfig([]byte(`
workflows:
  clobber:
    steps:
      - agent: first
        task: produce
        route_output_to:
          agent: consumer
          task: consume
          input_mapping:
            payload: output.result
      - agent: second
        task: produce
        route_output_to:
          agent: consumer
          task: consume
          input_mapping:
            payload: output.result
      - agent: consumer
        task: consume
`))

	var invalidErr *workflow.InvalidWorkflowError
	require.ErrorAs(t, err, &invalidErr)
	assert.Contains(t, invalidErr.Reason, "clobbering")
}

func TestValidateAllowsKeyReuseAfterConsumption(t *testing.T) {
	// The first delivery is consumed by step 1 before step 1 routes the same
	// key again, so no clobber occurs.
	_, err := workflow.ParseConfig([]byte(`
workflows:
  relay:
    steps:
      - agent: a
        task: produce
        route_output_to:
          agent: b
          task: relay
          input_mapping:
            payload: output.result
      - agent: b
        task: relay
        route_output_to:
          agent: c
          task: consume
          input_mapping:
            payload: output.result
      - agent: c
        task: consume
`))

	assert.NoError(t, err)
}

func TestValidateNilConfig(t *testing.T) {
	assert.ErrorIs(t, workflow.Validate(nil), workflow.ErrNoConfig)
}
