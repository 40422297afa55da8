package export

import "fmt"

// Step names the pipeline stage that failed.
type Step string

const (
	StepPrepare Step = "prepare"
	StepCapture Step = "capture"
	StepEncode  Step = "encode"
	StepVerify  Step = "verify"
)

// Fault is the single failure shape of an export. No partial artifact
// accompanies it.
type Fault struct {
	Step Step
	Err  error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("export %s: %v", f.Step, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }
