// Package report delivers the verdict of a field-check run to the outside
// world: workflow annotations, a pass/fail flag for a one-shot CI consumer
// and an optional SQLite history.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/banshee-data/osi-field-checker/internal/checker"
	"github.com/banshee-data/osi-field-checker/internal/fsutil"
	"github.com/banshee-data/osi-field-checker/internal/store"
)

// Summary holds run statistics gathered step by step.
type Summary struct {
	Steps        int
	CheckedSteps int
	MeanObjects  float64
	MaxObjects   int
}

// RunReport is the final result of one run.
type RunReport struct {
	InstanceName   string
	ExpectedFields int
	Violations     []checker.Violation
	Summary        Summary
}

// Failed reports whether any required field was missing.
func (r RunReport) Failed() bool { return len(r.Violations) > 0 }

// Reporter consumes a RunReport at termination.
type Reporter interface {
	Report(r RunReport) error
}

// Func adapts a plain function to Reporter.
type Func func(r RunReport) error

// Report implements Reporter.
func (f Func) Report(r RunReport) error { return f(r) }

// ResultFunc adapts a pass/fail callback to Reporter.
func ResultFunc(fn func(failed bool)) Reporter {
	return Func(func(r RunReport) error {
		fn(r.Failed())
		return nil
	})
}

// Multi fans a report out to every reporter and joins their errors.
type Multi []Reporter

// Report implements Reporter.
func (m Multi) Report(r RunReport) error {
	var errs []error
	for _, rep := range m {
		if rep == nil {
			continue
		}
		if err := rep.Report(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Annotations writes one workflow error annotation per missing field, with
// the communication point it was first missing at, and a closing verdict line
// when the run failed.
type Annotations struct {
	W io.Writer
}

// Report implements Reporter.
func (a Annotations) Report(r RunReport) error {
	for _, v := range r.Violations {
		if _, err := fmt.Fprintf(a.W, "::error title=MissingField::%s (first missing at t=%g s, %d step(s))\n",
			v.Path, v.FirstSeen, v.Steps); err != nil {
			return fmt.Errorf("write annotation: %w", err)
		}
	}
	if r.Failed() {
		if _, err := fmt.Fprintln(a.W, "test failed"); err != nil {
			return fmt.Errorf("write verdict: %w", err)
		}
	}
	return nil
}

// GitHubOutput appends "failed=1" to a step output file when the run failed.
// An empty Path disables it.
type GitHubOutput struct {
	FS   fsutil.FileSystem
	Path string
}

// Report implements Reporter.
func (g GitHubOutput) Report(r RunReport) error {
	if g.Path == "" || !r.Failed() {
		return nil
	}
	fsys := g.FS
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}
	if err := fsys.AppendFile(g.Path, []byte("failed=1\n"), os.FileMode(0o644)); err != nil {
		return fmt.Errorf("append step output: %w", err)
	}
	return nil
}

// SQLite stores each report as a run row plus one row per missing field.
type SQLite struct {
	Store *store.Store
}

// Report implements Reporter.
func (s SQLite) Report(r RunReport) error {
	run := &store.Run{
		InstanceName:   r.InstanceName,
		ExpectedFields: r.ExpectedFields,
		Steps:          r.Summary.Steps,
		CheckedSteps:   r.Summary.CheckedSteps,
		MeanObjects:    r.Summary.MeanObjects,
		MaxObjects:     r.Summary.MaxObjects,
	}
	if err := s.Store.CreateRun(run); err != nil {
		return err
	}
	for _, v := range r.Violations {
		if err := s.Store.InsertMissingField(run.RunID, v); err != nil {
			return err
		}
	}
	return s.Store.FinishRun(run, !r.Failed())
}

// SQLiteFile opens the database at Path for each report and closes it
// afterwards, so the file is only touched when a run actually ends.
type SQLiteFile struct {
	Path string
}

// Report implements Reporter.
func (s SQLiteFile) Report(r RunReport) error {
	st, err := store.Open(s.Path)
	if err != nil {
		return err
	}
	defer st.Close()
	return SQLite{Store: st}.Report(r)
}
