package workflow

// TaskStatus is the state of one step execution record.
// Transitions are monotone: pending -> running -> {completed | failed}.
type TaskStatus int

const (
	TaskPending TaskStatus = iota
	TaskRunning
	TaskCompleted
	TaskFailed
)

func (s TaskStatus) String() string {
	switch s {
	case TaskPending:
		return "pending"
	case TaskRunning:
		return "running"
	case TaskCompleted:
		return "completed"
	case TaskFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is allowed.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskFailed
}

// InstanceStatus is the state of one workflow instance.
// Transitions are monotone: created -> running -> {completed | failed}.
// Completed is reached only when every step's task record completed in
// sequence; failed is reached as soon as any step's record fails.
type InstanceStatus int

const (
	InstanceCreated InstanceStatus = iota
	InstanceRunning
	InstanceCompleted
	InstanceFailed
)

func (s InstanceStatus) String() string {
	switch s {
	case InstanceCreated:
		return "created"
	case InstanceRunning:
		return "running"
	case InstanceCompleted:
		return "completed"
	case InstanceFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is allowed.
func (s InstanceStatus) Terminal() bool {
	return s == InstanceCompleted || s == InstanceFailed
}
