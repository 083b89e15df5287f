package workflow

import "fmt"

// Validate performs purely structural validation of a workflow configuration.
// It fails with *InvalidWorkflowError when a workflow has zero steps, a step
// is missing its agent or task binding, a route names a target that does not
// exist among the later steps, or a routed context key would clobber a key
// still pending delivery to a different step. Live agent registration is not
// required; only names are checked.
func Validate(cfg *Config) error {
	if cfg == nil {
		return ErrNoConfig
	}
	for name, wf := range cfg.Workflows {
		if err := validateWorkflow(name, wf); err != nil {
			return err
		}
	}
	return nil
}

func validateWorkflow(name string, wf Workflow) error {
	if len(wf.Steps) == 0 {
		return &InvalidWorkflowError{Workflow: name, Reason: "workflow has no steps"}
	}

	for i, step := range wf.Steps {
		if step.Agent == "" {
			return &InvalidWorkflowError{
				Workflow: name,
				Reason:   fmt.Sprintf("step %d has no agent", i),
			}
		}
		if step.Task == "" {
			return &InvalidWorkflowError{
				Workflow: name,
				Reason:   fmt.Sprintf("step %d has no task", i),
			}
		}
	}

	// pending maps a routed context key to the index of the step it is
	// destined for. A second route writing the same key before the first
	// consumer has run would silently clobber the earlier delivery.
	pending := map[string]int{}

	for i, step := range wf.Steps {
		for key, consumer := range pending {
			if consumer == i {
				delete(pending, key)
			}
		}

		route := step.RouteOutputTo
		if route == nil {
			continue
		}

		target := findRouteTarget(wf.Steps, i, route)
		if target < 0 {
			return &InvalidWorkflowError{
				Workflow: name,
				Reason: fmt.Sprintf("step %d routes output to %s.%s, which matches no later step",
					i, route.Agent, route.Task),
			}
		}

		for key := range route.InputMapping {
			if _, clobbers := pending[key]; clobbers {
				return &InvalidWorkflowError{
					Workflow: name,
					Reason: fmt.Sprintf("step %d routes context key %q, clobbering a delivery still pending for step %d",
						i, key, pending[key]),
				}
			}
			pending[key] = target
		}
	}

	return nil
}

// findRouteTarget returns the index of the first step after from matching the
// route's agent and task, or -1.
func findRouteTarget(steps []Step, from int, route *Route) int {
	for j := from + 1; j < len(steps); j++ {
		if steps[j].Agent == route.Agent && steps[j].Task == route.Task {
			return j
		}
	}
	return -1
}
