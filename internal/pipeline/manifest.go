package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"drtkpi/internal/files"
)

// Run status values
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RunManifest records what a report run read, did and produced
type RunManifest struct {
	mu sync.RWMutex `json:"-"`

	// Identity
	RunID     string    `json:"run_id"`
	Version   string    `json:"version"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	// Configuration
	Options   ManifestOptions `json:"options"`
	Toolchain ToolchainInfo   `json:"toolchain"`

	// Inputs by source name
	Inputs map[string]*InputInfo `json:"inputs"`

	// Execution tracking
	Stages []StageExecution `json:"stages"`

	Output string `json:"output,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ManifestOptions is the run configuration as recorded in the manifest
type ManifestOptions struct {
	VehicleType    string   `json:"vtype"`
	DepartEarliest *float64 `json:"depart_earliest,omitempty"`
	ArrivalLatest  *float64 `json:"arrival_latest,omitempty"`
	SheetName      string   `json:"sheet_name"`
}

// ToolchainInfo records the simulator installation the run was configured with
type ToolchainInfo struct {
	SumoHome string `json:"sumo_home,omitempty"`
	ToolsDir string `json:"tools_dir,omitempty"`
}

// InputInfo tracks one input source of the run
type InputInfo struct {
	Source   string          `json:"source"`
	Required bool            `json:"required"`
	Supplied bool            `json:"supplied"`
	File     *files.FileInfo `json:"file,omitempty"`
	Entries  int             `json:"entries"`
	// Present is false when an optional source was omitted or held no matching entries
	Present bool `json:"present"`
}

// StageExecution tracks the execution of a single stage
type StageExecution struct {
	Stage     string                 `json:"stage"`
	StartTime time.Time              `json:"start_time"`
	EndTime   time.Time              `json:"end_time"`
	Duration  string                 `json:"duration"`
	Status    string                 `json:"status"`
	Error     string                 `json:"error,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewRunManifest creates a manifest for a run that starts now
func NewRunManifest(runID, version string, opts ManifestOptions, toolchain ToolchainInfo) *RunManifest {
	return &RunManifest{
		RunID:     runID,
		Version:   version,
		StartTime: time.Now().UTC(),
		Options:   opts,
		Toolchain: toolchain,
		Inputs:    make(map[string]*InputInfo),
		Stages:    []StageExecution{},
		Status:    StatusRunning,
	}
}

// SetInput records information about an input source
func (m *RunManifest) SetInput(info *InputInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Inputs[info.Source] = info
}

// Input returns the recorded information about source
func (m *RunManifest) Input(source string) (*InputInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	info, ok := m.Inputs[source]
	return info, ok
}

// RecordStageStart records the start of a stage execution
func (m *RunManifest) RecordStageStart(stage string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Stages = append(m.Stages, StageExecution{
		Stage:     stage,
		StartTime: time.Now().UTC(),
		Status:    StatusRunning,
	})
}

// RecordStageCompletion records the completion of the most recent run of stage
func (m *RunManifest) RecordStageCompletion(stage string, metadata map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s := m.lastStage(stage); s != nil {
		s.EndTime = time.Now().UTC()
		s.Duration = s.EndTime.Sub(s.StartTime).String()
		s.Status = StatusCompleted
		s.Metadata = metadata
	}
}

// RecordStageFailure records a stage failure and fails the run
func (m *RunManifest) RecordStageFailure(stage string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s := m.lastStage(stage); s != nil {
		s.EndTime = time.Now().UTC()
		s.Duration = s.EndTime.Sub(s.StartTime).String()
		s.Status = StatusFailed
		s.Error = err.Error()
	}
	m.Status = StatusFailed
	m.Error = fmt.Sprintf("stage %s failed: %v", stage, err)
	m.EndTime = time.Now().UTC()
}

// Complete marks the run as completed with output written to path
func (m *RunManifest) Complete(output string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Output = output
	m.Status = StatusCompleted
	m.EndTime = time.Now().UTC()
}

// IsStageCompleted checks if a stage has been completed
func (m *RunManifest) IsStageCompleted(stage string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.Stages {
		if s.Stage == stage && s.Status == StatusCompleted {
			return true
		}
	}
	return false
}

func (m *RunManifest) lastStage(stage string) *StageExecution {
	for i := len(m.Stages) - 1; i >= 0; i-- {
		if m.Stages[i].Stage == stage {
			return &m.Stages[i]
		}
	}
	return nil
}

// SaveToFile saves the manifest to a JSON file
func (m *RunManifest) SaveToFile(path string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	err = files.WriteAtomic(path, func(w io.Writer) error {
		_, err := w.Write(append(data, '\n'))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to write manifest file: %w", err)
	}
	return nil
}

// LoadManifestFromFile loads a manifest from a JSON file
func LoadManifestFromFile(path string) (*RunManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	var manifest RunManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	return &manifest, nil
}
