package pipeline

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drtkpi/internal/files"
)

func TestRunManifest_StageLifecycle(t *testing.T) {
	m := NewRunManifest("run-1", "1.0.0", ManifestOptions{VehicleType: "drt"}, ToolchainInfo{})
	assert.Equal(t, StatusRunning, m.Status)

	m.RecordStageStart(StageTripinfo)
	assert.False(t, m.IsStageCompleted(StageTripinfo))
	m.RecordStageCompletion(StageTripinfo, map[string]interface{}{"persons_raw": 3})
	assert.True(t, m.IsStageCompleted(StageTripinfo))
	require.Len(t, m.Stages, 1)
	assert.Equal(t, StatusCompleted, m.Stages[0].Status)
	assert.NotEmpty(t, m.Stages[0].Duration)

	m.RecordStageStart(StageAggregate)
	m.RecordStageFailure(StageAggregate, errors.New("zero denominator"))
	assert.Equal(t, StatusFailed, m.Status)
	assert.Contains(t, m.Error, "aggregate")
	assert.Equal(t, "zero denominator", m.Stages[1].Error)
	assert.False(t, m.EndTime.IsZero())
}

func TestRunManifest_SaveAndLoad(t *testing.T) {
	earliest := 3600.0
	m := NewRunManifest("run-2", "1.2.0", ManifestOptions{VehicleType: "drt", DepartEarliest: &earliest, SheetName: "output"},
		ToolchainInfo{SumoHome: "/opt/sumo", ToolsDir: "/opt/sumo/tools"})
	m.SetInput(&InputInfo{
		Source:   "tripinfo",
		Required: true,
		Supplied: true,
		Present:  true,
		Entries:  5,
		File:     &files.FileInfo{Path: "tripinfo.xml", Size: 10, SHA256: "abc"},
	})
	m.RecordStageStart(StageWrite)
	m.RecordStageCompletion(StageWrite, nil)
	m.Complete("output.xls")

	path := filepath.Join(t.TempDir(), "manifests", "run.json")
	require.NoError(t, m.SaveToFile(path))

	loaded, err := LoadManifestFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "run-2", loaded.RunID)
	assert.Equal(t, StatusCompleted, loaded.Status)
	assert.Equal(t, "output.xls", loaded.Output)
	require.NotNil(t, loaded.Options.DepartEarliest)
	assert.Equal(t, 3600.0, *loaded.Options.DepartEarliest)
	assert.Nil(t, loaded.Options.ArrivalLatest)

	in, ok := loaded.Input("tripinfo")
	require.True(t, ok)
	assert.Equal(t, 5, in.Entries)
	assert.Equal(t, "abc", in.File.SHA256)
	assert.True(t, loaded.IsStageCompleted(StageWrite))
}

func TestLoadManifestFromFile_Missing(t *testing.T) {
	_, err := LoadManifestFromFile(filepath.Join(t.TempDir(), "none.json"))
	assert.Error(t, err)
}
