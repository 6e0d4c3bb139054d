package domain

import "errors"

// Sentinel errors forming the pipeline failure taxonomy. Call sites wrap them
// with fmt.Errorf("...: %w", ...) so the orchestrator can classify a stage
// failure with errors.Is.
var (
	// ErrValidation marks bad submission parameters. Raised before a job
	// exists and never retried.
	ErrValidation = errors.New("invalid parameters")

	// ErrTransientOracle marks a network or timeout failure from an external
	// oracle. Retried with bounded backoff before converting into a stage
	// failure.
	ErrTransientOracle = errors.New("transient oracle failure")

	// ErrOracleContract marks oracle output that failed schema validation
	// after the bounded repair attempts were exhausted.
	ErrOracleContract = errors.New("oracle contract violation")

	// ErrRender marks a visual rendering failure. Absorbed per-slide during
	// enrichment, fatal during assembly.
	ErrRender = errors.New("render failure")

	// ErrNotFound marks an unknown job id.
	ErrNotFound = errors.New("not found")
)

// ErrorKind is the classification recorded on a failed job.
type ErrorKind string

const (
	ErrKindValidation     ErrorKind = "validation"
	ErrKindTransient      ErrorKind = "transient_oracle"
	ErrKindOracleContract ErrorKind = "oracle_contract"
	ErrKindRender         ErrorKind = "render"
	ErrKindCancelled      ErrorKind = "cancelled"
	ErrKindInternal       ErrorKind = "internal"
)

// ClassifyError maps a stage failure onto its taxonomy kind.
func ClassifyError(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrValidation):
		return ErrKindValidation
	case errors.Is(err, ErrOracleContract):
		return ErrKindOracleContract
	case errors.Is(err, ErrTransientOracle):
		return ErrKindTransient
	case errors.Is(err, ErrRender):
		return ErrKindRender
	default:
		return ErrKindInternal
	}
}
