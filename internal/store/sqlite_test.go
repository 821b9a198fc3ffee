package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"poreparse/poreblazer"
)

func openTestStore(t *testing.T) *RunStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRun(dir string) *poreblazer.Run {
	cum := 0.125
	deriv := 0.05
	return &poreblazer.Run{
		Dir:           dir,
		InputFileName: "IRMOF-1.xyz",
		Summary: &poreblazer.Summary{
			InputFileName: "IRMOF-1.xyz",
			General: map[string]poreblazer.Value{
				"Porosity":        {Float: 0.45},
				"Number_of_atoms": {Int: 424, IsInt: true},
			},
			Total:             map[string]float64{"Surface_area": 2332.61},
			NetworkAccessible: map[string]float64{"S_ac_m2g": 3854.27},
		},
		PSD: []poreblazer.PSDRow{
			{Diameter: 2.5, Cumulative: &cum, Derivative: &deriv},
			{Diameter: 10, Cumulative: &cum},
		},
	}
}

func TestOpenCreatesSchema(t *testing.T) {
	s := openTestStore(t)

	runs, err := s.ListRuns(context.Background())
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("fresh store has %d runs, want 0", len(runs))
	}
}

func TestIndexAndGetRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.IndexRun(ctx, testRun("/data/run1"))
	if err != nil {
		t.Fatalf("IndexRun() error = %v", err)
	}
	if id == 0 {
		t.Error("IndexRun() returned id 0")
	}

	rec, err := s.GetRun(ctx, "/data/run1")
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if rec.InputFile != "IRMOF-1.xyz" {
		t.Errorf("InputFile = %q, want IRMOF-1.xyz", rec.InputFile)
	}
	if rec.IndexedAt.IsZero() {
		t.Error("IndexedAt is zero")
	}
}

func TestIndexRunUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.IndexRun(ctx, testRun("/data/run1"))
	if err != nil {
		t.Fatalf("first IndexRun() error = %v", err)
	}

	run := testRun("/data/run1")
	run.InputFileName = "MOF-5.xyz"
	run.Summary.Total = map[string]float64{"Surface_area": 1111.0}
	second, err := s.IndexRun(ctx, run)
	if err != nil {
		t.Fatalf("second IndexRun() error = %v", err)
	}
	if first != second {
		t.Errorf("re-index created new id %d, want %d", second, first)
	}

	values, err := s.SummaryValues(ctx, "/data/run1")
	if err != nil {
		t.Fatalf("SummaryValues() error = %v", err)
	}
	if got := values[SectionTotal]["Surface_area"]; got != 1111.0 {
		t.Errorf("Surface_area = %v, want 1111.0 (old rows not replaced)", got)
	}
	if len(values[SectionTotal]) != 1 {
		t.Errorf("total section has %d keys, want 1", len(values[SectionTotal]))
	}

	runs, err := s.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("ListRuns() = %d runs, want 1", len(runs))
	}
}

func TestSummaryValues(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.IndexRun(ctx, testRun("/data/run1")); err != nil {
		t.Fatalf("IndexRun() error = %v", err)
	}

	values, err := s.SummaryValues(ctx, "/data/run1")
	if err != nil {
		t.Fatalf("SummaryValues() error = %v", err)
	}
	if got := values[SectionGeneral]["Porosity"]; got != 0.45 {
		t.Errorf("Porosity = %v, want 0.45", got)
	}
	if got := values[SectionGeneral]["Number_of_atoms"]; got != 424 {
		t.Errorf("Number_of_atoms = %v, want 424", got)
	}
	if got := values[SectionNetworkAccessible]["S_ac_m2g"]; got != 3854.27 {
		t.Errorf("S_ac_m2g = %v, want 3854.27", got)
	}
}

func TestPSDRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.IndexRun(ctx, testRun("/data/run1")); err != nil {
		t.Fatalf("IndexRun() error = %v", err)
	}

	rows, err := s.PSD(ctx, "/data/run1", false)
	if err != nil {
		t.Fatalf("PSD() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0].Diameter != 2.5 || rows[1].Diameter != 10 {
		t.Errorf("diameters = %v, %v, want 2.5, 10", rows[0].Diameter, rows[1].Diameter)
	}
	if rows[0].Derivative == nil || *rows[0].Derivative != 0.05 {
		t.Errorf("rows[0].Derivative = %v, want 0.05", rows[0].Derivative)
	}
	// The second fixture row has no derivative; NULL must come back as nil.
	if rows[1].Derivative != nil {
		t.Errorf("rows[1].Derivative = %v, want nil", *rows[1].Derivative)
	}

	network, err := s.PSD(ctx, "/data/run1", true)
	if err != nil {
		t.Fatalf("PSD(network) error = %v", err)
	}
	if len(network) != 0 {
		t.Errorf("network PSD has %d rows, want 0", len(network))
	}
}

func TestGetRunNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetRun(context.Background(), "/data/absent")
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetRun() error = %v, want ErrRunNotFound", err)
	}
}

func TestDeleteRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.IndexRun(ctx, testRun("/data/run1")); err != nil {
		t.Fatalf("IndexRun() error = %v", err)
	}
	if err := s.DeleteRun(ctx, "/data/run1"); err != nil {
		t.Fatalf("DeleteRun() error = %v", err)
	}
	if _, err := s.GetRun(ctx, "/data/run1"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetRun() after delete error = %v, want ErrRunNotFound", err)
	}
	if err := s.DeleteRun(ctx, "/data/run1"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("second DeleteRun() error = %v, want ErrRunNotFound", err)
	}
}
