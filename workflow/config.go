package workflow

// Config is the immutable, validated set of named workflows loaded from
// configuration. Field names are fixed and must be matched exactly by any
// config source.
type Config struct {
	Workflows map[string]Workflow `yaml:"workflows" json:"workflows"`
}

// Workflow is a named, ordered sequence of steps.
type Workflow struct {
	Description string `yaml:"description" json:"description"`
	Steps       []Step `yaml:"steps" json:"steps"`
}

// Step binds an agent and task, with an optional static input template and
// an optional routing rule feeding this step's output into a later step.
type Step struct {
	Agent         string         `yaml:"agent" json:"agent"`
	Task          string         `yaml:"task" json:"task"`
	Input         map[string]any `yaml:"input,omitempty" json:"input,omitempty"`
	RouteOutputTo *Route         `yaml:"route_output_to,omitempty" json:"route_output_to,omitempty"`
}

// Route names the consuming step (agent + task among the later steps of the
// same workflow) and maps output fields of the producing step to input fields
// of the consumer. An empty mapping delivers the whole output unchanged.
type Route struct {
	Agent        string            `yaml:"agent" json:"agent"`
	Task         string            `yaml:"task" json:"task"`
	InputMapping map[string]string `yaml:"input_mapping,omitempty" json:"input_mapping,omitempty"`
}

// Get returns the named workflow, if configured.
func (c *Config) Get(name string) (Workflow, bool) {
	wf, ok := c.Workflows[name]
	return wf, ok
}

// Names returns the configured workflow names in unspecified order.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Workflows))
	for name := range c.Workflows {
		names = append(names, name)
	}
	return names
}

// AgentIDs returns every agent id referenced by any step or route across all
// workflows. These are the registration slots agents may be bound to.
func (c *Config) AgentIDs() map[string]bool {
	ids := make(map[string]bool)
	for _, wf := range c.Workflows {
		for _, step := range wf.Steps {
			ids[step.Agent] = true
			if step.RouteOutputTo != nil {
				ids[step.RouteOutputTo.Agent] = true
			}
		}
	}
	return ids
}
