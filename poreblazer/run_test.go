package poreblazer

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// Fixtures shaped like real PoreBlazer output: ragged whitespace, colons
// after keys, and a couple of space-separated key names.

const sampleSummaryRaw = `IRMOF-1.xyz
O_density:    1.1420
He_density:   1.1325
Porosity:     0.45
Unit_cell_volume:   17237.4920
System_density:     0.5962
Number_of_atoms:    424
Total:
Surface area:      2332.61
S_ex_m2g:     3912.15
V_p_cm3g:     1.2430

V_void_cm3g:        1.5231
Fraction_void:      0.9080
D_is_A:       15.0410
D_if_A:       8.0070
D_isp_A:      15.0410
Pore_limiting_diameter:   8.0070
Maximum_pore_diameter:    15.0410
Network accessible:
S_ac_m2cm3:   2298.11
S_ac_m2g:     3854.27
V_ac_cm3g:    1.2395

V_void_ac_cm3g:     1.5102
`

const samplePSDCumulativeRaw = `Cumulative pore size distribution
Pore diameter (A)    Cumulative volume fraction

 2.5000   0.0000
 5.0000   0.1250
 7.5000   0.4370
 10.0000  0.8210
`

const samplePSDRaw = `Pore diameter (A)  dV/dd
 2.5000   0.0000
 5.0000   0.0500
 7.5000   0.1248
 12.5000  0.0020
`

const sampleXYZRaw = `3
probe occupiable volume
He   0.0000   0.0000  0.0000
He   1.2500   0.0000  0.0000
He   1.2500   1.2500  0.0000
`

// writeRunDir lays out a complete run directory in a temp dir.
func writeRunDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"summary.dat":                           sampleSummaryRaw,
		"Total_psd_cumulative.txt":              samplePSDCumulativeRaw,
		"Total_psd.txt":                         samplePSDRaw,
		"Network-accessible_psd_cumulative.txt": samplePSDCumulativeRaw,
		"Network-accessible_psd.txt":            samplePSDRaw,
		"probe_occupiable_volume.xyz":           sampleXYZRaw,
		"nitrogen_network.xyz":                  sampleXYZRaw,
		"nitrogen_network.grd":                  "0 0 0\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
			t.Fatalf("writing fixture %s: %v", name, err)
		}
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeRunDir(t)

	run, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if run.Dir != dir {
		t.Errorf("Dir = %q, want %q", run.Dir, dir)
	}
	if run.InputFileName != "IRMOF-1.xyz" {
		t.Errorf("InputFileName = %q, want IRMOF-1.xyz", run.InputFileName)
	}
	if run.Summary == nil {
		t.Fatal("Summary is nil")
	}
	if len(run.PSD) != 5 {
		t.Errorf("len(PSD) = %d, want 5", len(run.PSD))
	}
	if len(run.NetworkPSD) != 5 {
		t.Errorf("len(NetworkPSD) = %d, want 5", len(run.NetworkPSD))
	}
	if len(run.OccupiableVolume) != 3 {
		t.Errorf("len(OccupiableVolume) = %d, want 3", len(run.OccupiableVolume))
	}
	if len(run.NitrogenNetwork) != 3 {
		t.Errorf("len(NitrogenNetwork) = %d, want 3", len(run.NitrogenNetwork))
	}
	if len(run.Files) != 8 {
		t.Errorf("len(Files) = %d, want 8", len(run.Files))
	}

	// The grid file is discovered but never parsed.
	if run.Path(FileNitrogenNetworkGrid) == "" {
		t.Error("grid file was not discovered")
	}
}

func TestLoadDeterministic(t *testing.T) {
	dir := writeRunDir(t)

	first, err := Load(dir)
	if err != nil {
		t.Fatalf("first Load() error = %v", err)
	}
	second, err := Load(dir)
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two loads of the same directory differ")
	}
}

func TestLoadMissingDir(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Load() of missing directory succeeded")
	}
}

func TestLoadEmptyDir(t *testing.T) {
	_, err := Load(t.TempDir())
	if err == nil {
		t.Fatal("Load() of empty directory succeeded")
	}
	if !strings.Contains(err.Error(), "no PoreBlazer output files") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadPartialDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "summary.dat"), []byte(sampleSummaryRaw), 0600); err != nil {
		t.Fatal(err)
	}

	run, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if run.Summary == nil {
		t.Error("Summary is nil")
	}
	if run.PSD != nil {
		t.Errorf("PSD = %v, want nil", run.PSD)
	}
	if run.OccupiableVolume != nil {
		t.Errorf("OccupiableVolume = %v, want nil", run.OccupiableVolume)
	}
}

// A single PSD file of the pair still yields a one-sided table.
func TestLoadPSDPairOneSide(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Total_psd.txt"), []byte(samplePSDRaw), 0600); err != nil {
		t.Fatal(err)
	}

	run, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(run.PSD) != 4 {
		t.Fatalf("len(PSD) = %d, want 4", len(run.PSD))
	}
	for _, row := range run.PSD {
		if row.Cumulative != nil {
			t.Errorf("d=%v: Cumulative = %v, want nil", row.Diameter, *row.Cumulative)
		}
		if row.Derivative == nil {
			t.Errorf("d=%v: Derivative is nil", row.Diameter)
		}
	}
}

// One malformed file fails the whole load; no partial Run escapes.
func TestLoadMalformedFile(t *testing.T) {
	dir := writeRunDir(t)
	bad := filepath.Join(dir, "Total_psd.txt")
	if err := os.WriteFile(bad, []byte("header\n2.5 0.1\n5.0\n"), 0600); err != nil {
		t.Fatal(err)
	}

	run, err := Load(dir)
	if err == nil {
		t.Fatal("Load() with truncated PSD row succeeded")
	}
	if run != nil {
		t.Errorf("Load() returned partial run %+v alongside error", run)
	}
	if !strings.Contains(err.Error(), "Total_psd.txt") {
		t.Errorf("error does not name the offending file: %v", err)
	}
}

func TestLoadWithNamesOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "renamed_summary.txt"), []byte(sampleSummaryRaw), 0600); err != nil {
		t.Fatal(err)
	}

	names := DefaultFileNames()
	names[FileSummary] = "renamed_summary.txt"
	run, err := LoadWithNames(dir, names)
	if err != nil {
		t.Fatalf("LoadWithNames() error = %v", err)
	}
	if run.InputFileName != "IRMOF-1.xyz" {
		t.Errorf("InputFileName = %q, want IRMOF-1.xyz", run.InputFileName)
	}
}
