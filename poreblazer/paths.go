package poreblazer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// FileKind identifies one of the known PoreBlazer output files.
type FileKind string

const (
	FileSummary              FileKind = "summary"
	FilePSD                  FileKind = "psd"
	FilePSDCumulative        FileKind = "psd_cum"
	FileNetworkPSD           FileKind = "na_psd"
	FileNetworkPSDCumulative FileKind = "na_psd_cum"
	FileOccupiableVolume     FileKind = "occup_vol"
	FileNitrogenNetworkXYZ   FileKind = "nitrogen_xyz"
	FileNitrogenNetworkGrid  FileKind = "nitrogen_grd"
)

// DefaultFileNames returns the file name PoreBlazer uses for each output kind.
// Callers may copy and override entries before passing the map to LoadWithNames.
func DefaultFileNames() map[FileKind]string {
	return map[FileKind]string{
		FileSummary:              "summary.dat",
		FilePSD:                  "Total_psd.txt",
		FilePSDCumulative:        "Total_psd_cumulative.txt",
		FileNetworkPSD:           "Network-accessible_psd.txt",
		FileNetworkPSDCumulative: "Network-accessible_psd_cumulative.txt",
		FileOccupiableVolume:     "probe_occupiable_volume.xyz",
		FileNitrogenNetworkXYZ:   "nitrogen_network.xyz",
		FileNitrogenNetworkGrid:  "nitrogen_network.grd",
	}
}

// DiscoverFiles returns the paths of the known output files present in dir,
// keyed by kind. The directory itself must exist; any subset of output files
// (including none) is acceptable at this stage.
func DiscoverFiles(dir string, names map[FileKind]string) (map[FileKind]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("run directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("run directory %s: not a directory", dir)
	}

	found := make(map[FileKind]string)
	for kind, name := range names {
		path := filepath.Join(dir, name)
		fi, err := os.Stat(path)
		if err != nil || fi.IsDir() {
			continue
		}
		found[kind] = path
	}
	return found, nil
}

// kindsOf returns the discovered kinds in a stable order.
func kindsOf(files map[FileKind]string) []FileKind {
	kinds := make([]FileKind, 0, len(files))
	for k := range files {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
