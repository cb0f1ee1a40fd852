package storage

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func sampleRun() (RunMetadata, []float64, []float64, [][]float64) {
	meta := RunMetadata{
		Scenario:    "binary",
		Seed:        42,
		Dt:          0.01,
		Duration:    1.0,
		G:           1.0,
		Theta:       0.5,
		Approximate: true,
		Bodies:      2,
		Metrics:     map[string]float64{"energy_drift": 0.001},
	}
	times := []float64{0, 0.5, 1.0}
	energies := []float64{-25.0, -25.1, -24.9}
	positions := [][]float64{
		{-10, 0, 0, 10, 0, 0},
		{-9, 1, 0, 9, -1, 0},
		{-8, 2, 0, 8, -2, 0},
	}
	return meta, times, energies, positions
}

func TestSaveLoadRoundtrip(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error: %v", err)
	}

	meta, times, energies, positions := sampleRun()
	runID, err := store.Save(meta, times, energies, positions)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if !strings.HasPrefix(runID, "binary_") {
		t.Errorf("runID = %q, want binary_ prefix", runID)
	}

	loaded, err := store.Load(runID)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.ID != runID {
		t.Errorf("ID = %q, want %q", loaded.ID, runID)
	}
	if loaded.Scenario != "binary" || loaded.Bodies != 2 || loaded.Seed != 42 {
		t.Errorf("metadata mismatch: %+v", loaded)
	}
	if loaded.Metrics["energy_drift"] != 0.001 {
		t.Errorf("metrics not persisted: %v", loaded.Metrics)
	}

	gotTimes, gotEnergies, gotPositions, err := store.LoadStates(runID)
	if err != nil {
		t.Fatalf("LoadStates() error: %v", err)
	}
	if len(gotTimes) != 3 || len(gotEnergies) != 3 || len(gotPositions) != 3 {
		t.Fatalf("LoadStates() lengths = %d/%d/%d, want 3", len(gotTimes), len(gotEnergies), len(gotPositions))
	}
	for i := range times {
		if gotTimes[i] != times[i] {
			t.Errorf("time[%d] = %v, want %v", i, gotTimes[i], times[i])
		}
		if gotEnergies[i] != energies[i] {
			t.Errorf("energy[%d] = %v, want %v", i, gotEnergies[i], energies[i])
		}
		for j := range positions[i] {
			if gotPositions[i][j] != positions[i][j] {
				t.Errorf("position[%d][%d] = %v, want %v", i, j, gotPositions[i][j], positions[i][j])
			}
		}
	}
}

func TestListRuns(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error: %v", err)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("empty store lists %d runs", len(runs))
	}

	meta, times, energies, positions := sampleRun()
	if _, err := store.Save(meta, times, energies, positions); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	runs, err = store.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("List() = %d runs, want 1", len(runs))
	}
	if runs[0].Scenario != "binary" {
		t.Errorf("Scenario = %q, want binary", runs[0].Scenario)
	}
}

func TestListMissingBaseDir(t *testing.T) {
	store := New("does-not-exist")
	runs, err := store.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("List() = %d runs, want 0", len(runs))
	}
}

func TestExportJSON(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	meta, times, energies, positions := sampleRun()
	runID, err := store.Save(meta, times, energies, positions)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	var buf bytes.Buffer
	if err := store.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}

	var run Run
	if err := json.Unmarshal(buf.Bytes(), &run); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if run.ID != runID || len(run.Times) != 3 || len(run.Positions) != 3 {
		t.Errorf("exported run incomplete: %+v", run.RunMetadata)
	}
}

func TestExportCSV(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	meta, times, energies, positions := sampleRun()
	runID, err := store.Save(meta, times, energies, positions)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	var buf bytes.Buffer
	if err := store.ExportCSV(&buf, runID); err != nil {
		t.Fatalf("ExportCSV() error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("export has %d lines, want header + 3 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "time,energy,b0_x") {
		t.Errorf("unexpected header: %q", lines[0])
	}
}
