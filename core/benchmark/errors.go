package benchmark

import (
	"errors"
	"fmt"
)

// Execution stages reported by ExecutionError.
const (
	StageLoad    = "load"
	StageSplit   = "split"
	StageFit     = "fit"
	StagePredict = "predict"
	StageScore   = "score"
)

// ConfigurationError reports malformed or colliding identifiers, empty
// registries, empty scorer lists and missing collaborators.
type ConfigurationError struct {
	Op  string
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %v", e.Op, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ExecutionError reports a failure while evaluating one (task, estimator)
// pair. Fold is -1 for failures before the fold loop (load, split).
type ExecutionError struct {
	TaskID      string
	EstimatorID string
	Fold        int
	Stage       string
	Err         error
}

func (e *ExecutionError) Error() string {
	if e.Fold < 0 {
		return fmt.Sprintf("execution error: task %s, estimator %s: %s: %v", e.TaskID, e.EstimatorID, e.Stage, e.Err)
	}
	return fmt.Sprintf("execution error: task %s, estimator %s, fold %d: %s: %v", e.TaskID, e.EstimatorID, e.Fold, e.Stage, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Tags returns the error context for monitoring.
func (e *ExecutionError) Tags() map[string]string {
	return map[string]string{
		"validation_id": e.TaskID,
		"model_id":      e.EstimatorID,
		"fold":          fmt.Sprint(e.Fold),
		"stage":         e.Stage,
	}
}

// IOError reports a failure persisting the report.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("io error: %s: %v", e.Path, e.Err) }

func (e *IOError) Unwrap() error { return e.Err }

func configErr(op string, err error) error { return &ConfigurationError{Op: op, Err: err} }

func isExecution(err error) bool {
	var ee *ExecutionError
	return errors.As(err, &ee)
}
