package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/osi-field-checker/internal/checker"
	"github.com/banshee-data/osi-field-checker/internal/timeutil"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_Migrates(t *testing.T) {
	s := openTestStore(t)

	version, dirty, err := s.migrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// Running again is a no-op.
	require.NoError(t, s.MigrateUp())
}

func TestRunLifecycle(t *testing.T) {
	s := openTestStore(t)
	clock := timeutil.NewMockClock(time.Unix(1_700_000_000, 0))
	s.SetClock(clock)

	run := &Run{InstanceName: "checker-1", ExpectedFields: 3}
	require.NoError(t, s.CreateRun(run))
	require.NotEmpty(t, run.RunID)
	assert.Equal(t, clock.Now().UnixNano(), run.StartedAt)

	got, err := s.GetRun(run.RunID)
	require.NoError(t, err)
	assert.Nil(t, got.Passed)
	assert.Zero(t, got.FinishedAt)

	require.NoError(t, s.InsertMissingField(run.RunID, checker.Violation{Path: "moving_object.base.velocity", FirstSeen: 0.6, Steps: 4}))
	require.NoError(t, s.InsertMissingField(run.RunID, checker.Violation{Path: "moving_object.base", FirstSeen: 0.7, Steps: 1}))

	clock.Advance(time.Minute)
	run.Steps, run.CheckedSteps, run.MeanObjects, run.MaxObjects = 20, 15, 1.5, 3
	require.NoError(t, s.FinishRun(run, false))

	got, err = s.GetRun(run.RunID)
	require.NoError(t, err)
	require.NotNil(t, got.Passed)
	assert.False(t, *got.Passed)
	assert.Equal(t, clock.Now().UnixNano(), got.FinishedAt)
	assert.Equal(t, 20, got.Steps)
	assert.Equal(t, 15, got.CheckedSteps)
	assert.Equal(t, 3, got.ExpectedFields)
	assert.InDelta(t, 1.5, got.MeanObjects, 1e-9)
	assert.Equal(t, 3, got.MaxObjects)

	missing, err := s.ListMissingFields(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, []checker.Violation{
		{Path: "moving_object.base", FirstSeen: 0.7, Steps: 1},
		{Path: "moving_object.base.velocity", FirstSeen: 0.6, Steps: 4},
	}, missing)

	ids, err := s.ListRuns()
	require.NoError(t, err)
	assert.Equal(t, []string{run.RunID}, ids)
}

func TestGetRun_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetRun("nope")
	assert.ErrorIs(t, err, ErrRunNotFound)

	err = s.FinishRun(&Run{RunID: "nope"}, true)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestInsertMissingField_RequiresRun(t *testing.T) {
	s := openTestStore(t)
	err := s.InsertMissingField("ghost", checker.Violation{Path: "moving_object"})
	assert.Error(t, err, "foreign key enforced")
}
