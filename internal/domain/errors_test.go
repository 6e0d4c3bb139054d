package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"validation", fmt.Errorf("bad input: %w", ErrValidation), ErrKindValidation},
		{"transient", fmt.Errorf("gemini: %w", ErrTransientOracle), ErrKindTransient},
		{"contract", fmt.Errorf("%w: empty outline", ErrOracleContract), ErrKindOracleContract},
		{"render", fmt.Errorf("%w: bad archive", ErrRender), ErrKindRender},
		{"unknown", errors.New("disk full"), ErrKindInternal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyError(tc.err); got != tc.want {
				t.Fatalf("ClassifyError() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestContractBeatsTransientWhenBothWrapped(t *testing.T) {
	// A contract violation caused by a transient error chain still reports as
	// a contract failure: the retry budget was already spent.
	err := fmt.Errorf("%w: after retries: %w", ErrOracleContract, ErrTransientOracle)
	if got := ClassifyError(err); got != ErrKindOracleContract {
		t.Fatalf("ClassifyError() = %q, want oracle_contract", got)
	}
}

func TestJobStateTerminal(t *testing.T) {
	terminal := []JobState{JobStateCompleted, JobStateFailed, JobStateCancelled}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%s.Terminal() = false, want true", s)
		}
	}
	working := []JobState{JobStateQueued, JobStateIngesting, JobStatePlanning, JobStateEnriching, JobStateRendering}
	for _, s := range working {
		if s.Terminal() {
			t.Errorf("%s.Terminal() = true, want false", s)
		}
	}
}

func TestJobStatePercentMonotonic(t *testing.T) {
	order := []JobState{JobStateQueued, JobStateIngesting, JobStatePlanning, JobStateEnriching, JobStateRendering, JobStateCompleted}
	prev := -1
	for _, s := range order {
		if p := s.Percent(); p <= prev {
			t.Fatalf("Percent(%s) = %d, not increasing past %d", s, p, prev)
		} else {
			prev = p
		}
	}
	if got := JobStateCompleted.Percent(); got != 100 {
		t.Fatalf("completed percent = %d, want 100", got)
	}
}
