// Package poreblazer parses the output files of a PoreBlazer run into typed
// in-memory objects: a summary mapping, joined pore-size-distribution tables
// and xyz point clouds. Parsing is read-only and deterministic; a Run is
// immutable once loaded.
package poreblazer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Run is the parsed content of one PoreBlazer output directory. Fields for
// files absent from the directory are left zero; Files records which known
// output files were found.
type Run struct {
	// Dir is the run directory the Run was loaded from.
	Dir string `json:"dir"`

	// InputFileName is the structure file named on the first line of the
	// summary file. Empty when the summary file is absent.
	InputFileName string `json:"input_file_name,omitempty"`

	// Summary holds the scalar results, when summary.dat is present.
	Summary *Summary `json:"summary,omitempty"`

	// PSD is the joined total pore-size distribution.
	PSD []PSDRow `json:"psd,omitempty"`

	// NetworkPSD is the joined network-accessible pore-size distribution.
	NetworkPSD []PSDRow `json:"network_psd,omitempty"`

	// OccupiableVolume is the probe-occupiable volume point cloud.
	OccupiableVolume []XYZRow `json:"occupiable_volume,omitempty"`

	// NitrogenNetwork is the nitrogen-accessible network point cloud.
	NitrogenNetwork []XYZRow `json:"nitrogen_network,omitempty"`

	// Files maps each discovered output file kind to its path. It includes
	// kinds this package discovers but does not parse (the .grd grid).
	Files map[FileKind]string `json:"files"`
}

// Path returns the discovered path for kind, or "" when the file was not
// present in the run directory.
func (r *Run) Path(kind FileKind) string {
	return r.Files[kind]
}

// Load parses the PoreBlazer output files found in dir using the standard
// file names. Files absent from the directory are skipped; a directory with
// no recognizable output files at all is an error, as is any malformed file.
func Load(dir string) (*Run, error) {
	return LoadWithNames(dir, DefaultFileNames())
}

// LoadWithNames is Load with caller-supplied file names, for runs whose
// output files have been renamed.
func LoadWithNames(dir string, names map[FileKind]string) (*Run, error) {
	files, err := DiscoverFiles(dir, names)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: no PoreBlazer output files found", dir)
	}

	run := &Run{Dir: dir, Files: files}

	if path, ok := files[FileSummary]; ok {
		summary, err := ParseSummaryFile(path)
		if err != nil {
			return nil, withFile(err, path)
		}
		run.Summary = summary
		run.InputFileName = summary.InputFileName
	}

	if run.PSD, err = loadPSDPair(files, FilePSDCumulative, FilePSD); err != nil {
		return nil, err
	}
	if run.NetworkPSD, err = loadPSDPair(files, FileNetworkPSDCumulative, FileNetworkPSD); err != nil {
		return nil, err
	}

	if path, ok := files[FileOccupiableVolume]; ok {
		if run.OccupiableVolume, err = ParseXYZFile(path); err != nil {
			return nil, withFile(err, path)
		}
	}
	if path, ok := files[FileNitrogenNetworkXYZ]; ok {
		if run.NitrogenNetwork, err = ParseXYZFile(path); err != nil {
			return nil, withFile(err, path)
		}
	}

	return run, nil
}

// loadPSDPair parses whichever of the cumulative/derivative pair is present
// and joins them on diameter.
func loadPSDPair(files map[FileKind]string, cumKind, derivKind FileKind) ([]PSDRow, error) {
	var cum, deriv []psdPoint

	if path, ok := files[cumKind]; ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("psd file: %w", err)
		}
		if cum, err = parsePSDTable(string(data), psdCumulativeHeaderLines); err != nil {
			return nil, withFile(err, path)
		}
	}
	if path, ok := files[derivKind]; ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("psd file: %w", err)
		}
		if deriv, err = parsePSDTable(string(data), psdDerivativeHeaderLines); err != nil {
			return nil, withFile(err, path)
		}
	}
	if cum == nil && deriv == nil {
		return nil, nil
	}
	return joinPSD(cum, deriv), nil
}

// withFile stamps a FormatError with the file it came from.
func withFile(err error, path string) error {
	var fe *FormatError
	if errors.As(err, &fe) {
		fe.File = filepath.Base(path)
	}
	return err
}
