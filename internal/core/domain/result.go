package domain

// Status is the outcome field of a task result.
type Status string

// Task result statuses.
const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

const (
	outputKey = "_output"
	errorKey  = "_error"
)

// TaskResult is the envelope every task operation reports.
type TaskResult struct {
	Status Status         `json:"status"`
	Result map[string]any `json:"result"`
}

// TaskError is the structured failure reported under the "_error" key.
type TaskError struct {
	Msg     string         `json:"msg"`
	Kind    Kind           `json:"kind"`
	Details map[string]any `json:"details"`
}

// Success wraps a result map in a successful envelope.
func Success(result map[string]any) TaskResult {
	if result == nil {
		result = map[string]any{}
	}
	return TaskResult{Status: StatusSuccess, Result: result}
}

// Output reports a successful task that produced a message.
func Output(msg string) TaskResult {
	return Success(map[string]any{outputKey: msg})
}

// Failure reports err as a failed task. The message is err's text, the kind
// is derived from the sentinel in the chain.
func Failure(err error) TaskResult {
	return TaskResult{
		Status: StatusFailure,
		Result: map[string]any{
			errorKey: TaskError{
				Msg:     err.Error(),
				Kind:    KindOf(err),
				Details: Details(err),
			},
		},
	}
}

// OK reports whether the task succeeded.
func (r TaskResult) OK() bool {
	return r.Status == StatusSuccess
}

// Message returns the "_output" message of a successful result, if any.
func (r TaskResult) Message() string {
	msg, _ := r.Result[outputKey].(string)
	return msg
}

// Err returns the structured failure of a failed result, if any.
func (r TaskResult) Err() (TaskError, bool) {
	te, ok := r.Result[errorKey].(TaskError)
	return te, ok
}
