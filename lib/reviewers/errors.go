package reviewers

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrChangeClosed = errors.New("change is closed")

type Stage string

const (
	StageConfig Stage = "config"
	StageVCS    Stage = "vcs"
	StageLookup Stage = "lookup"
	StagePost   Stage = "post"
)

// PassError is the error that made a pass stop, tagged with the stage where it
// happened.
type PassError struct {
	Stage Stage
	Err   error
}

func newPassError(stage Stage, err error) *PassError {
	return &PassError{
		Stage: stage,
		Err:   err,
	}
}

func (e *PassError) Error() string {
	return fmt.Sprintf("%v: %v", e.Stage, e.Err)
}

func (e *PassError) Unwrap() error {
	return e.Err
}
