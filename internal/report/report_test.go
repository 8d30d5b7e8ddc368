package report

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/osi-field-checker/internal/checker"
	"github.com/banshee-data/osi-field-checker/internal/fsutil"
	"github.com/banshee-data/osi-field-checker/internal/store"
)

func failingReport() RunReport {
	return RunReport{
		InstanceName:   "checker",
		ExpectedFields: 2,
		Violations: []checker.Violation{
			{Path: "moving_object.base.position", FirstSeen: 0.6, Steps: 3},
			{Path: "moving_object.base.velocity", FirstSeen: 1.2, Steps: 1},
		},
		Summary: Summary{Steps: 10, CheckedSteps: 5, MeanObjects: 1, MaxObjects: 1},
	}
}

func TestAnnotations(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Annotations{W: &buf}.Report(failingReport()))
	assert.Equal(t,
		"::error title=MissingField::moving_object.base.position (first missing at t=0.6 s, 3 step(s))\n"+
			"::error title=MissingField::moving_object.base.velocity (first missing at t=1.2 s, 1 step(s))\n"+
			"test failed\n",
		buf.String())

	buf.Reset()
	require.NoError(t, Annotations{W: &buf}.Report(RunReport{}))
	assert.Empty(t, buf.String())
}

func TestGitHubOutput(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	out := GitHubOutput{FS: mfs, Path: "/gh/output"}

	require.NoError(t, out.Report(RunReport{}))
	assert.False(t, mfs.Exists("/gh/output"), "passing run writes nothing")

	require.NoError(t, out.Report(failingReport()))
	data, err := mfs.ReadFile("/gh/output")
	require.NoError(t, err)
	assert.Equal(t, "failed=1\n", string(data))

	assert.NoError(t, GitHubOutput{}.Report(failingReport()), "no path configured")
}

func TestMultiAndFuncs(t *testing.T) {
	var verdicts []bool
	boom := errors.New("boom")
	m := Multi{
		ResultFunc(func(failed bool) { verdicts = append(verdicts, failed) }),
		nil,
		Func(func(RunReport) error { return boom }),
	}

	err := m.Report(failingReport())
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, Multi{ResultFunc(func(failed bool) { verdicts = append(verdicts, failed) })}.Report(RunReport{}))
	assert.Equal(t, []bool{true, false}, verdicts)
}

func TestSQLite(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, SQLite{Store: s}.Report(failingReport()))

	ids, err := s.ListRuns()
	require.NoError(t, err)
	require.Len(t, ids, 1)

	run, err := s.GetRun(ids[0])
	require.NoError(t, err)
	require.NotNil(t, run.Passed)
	assert.False(t, *run.Passed)
	assert.Equal(t, 10, run.Steps)
	assert.Equal(t, 2, run.ExpectedFields)

	missing, err := s.ListMissingFields(ids[0])
	require.NoError(t, err)
	assert.Equal(t, failingReport().Violations, missing)
}

func TestSQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	rep := SQLiteFile{Path: path}
	require.NoError(t, rep.Report(failingReport()))
	require.NoError(t, rep.Report(RunReport{InstanceName: "second"}))

	s, err := store.Open(path)
	require.NoError(t, err)
	defer s.Close()
	ids, err := s.ListRuns()
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}
