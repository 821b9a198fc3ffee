package poreblazer

import (
	"fmt"
	"os"
)

// CleanDir rewrites the known output files in dir to their normalized form
// (collapsed whitespace, "key value" summary lines). Parsing does not need
// this; it exists for users who want the files grep- and spreadsheet-ready.
// Returns the paths of files whose content changed. Idempotent.
func CleanDir(dir string, names map[FileKind]string) ([]string, error) {
	return cleanDir(dir, names, true)
}

// CleanDirPreview reports which files CleanDir would rewrite without
// touching them.
func CleanDirPreview(dir string, names map[FileKind]string) ([]string, error) {
	return cleanDir(dir, names, false)
}

func cleanDir(dir string, names map[FileKind]string, write bool) ([]string, error) {
	files, err := DiscoverFiles(dir, names)
	if err != nil {
		return nil, err
	}

	var changed []string
	for _, kind := range kindsOf(files) {
		path := files[kind]
		normalize, ok := normalizers[kind]
		if !ok {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("clean: %w", err)
		}
		cleaned, err := normalize(string(data))
		if err != nil {
			return nil, withFile(err, path)
		}
		if cleaned == string(data) {
			continue
		}

		if write {
			info, err := os.Stat(path)
			if err != nil {
				return nil, fmt.Errorf("clean: %w", err)
			}
			if err := os.WriteFile(path, []byte(cleaned), info.Mode().Perm()); err != nil {
				return nil, fmt.Errorf("clean: %w", err)
			}
		}
		changed = append(changed, path)
	}
	return changed, nil
}

// normalizers maps each cleanable file kind to its normalizer. The .grd grid
// is binary-ish column data and is left alone.
var normalizers = map[FileKind]func(string) (string, error){
	FileSummary:              NormalizeSummary,
	FilePSD:                  tableNormalizer,
	FilePSDCumulative:        tableNormalizer,
	FileNetworkPSD:           tableNormalizer,
	FileNetworkPSDCumulative: tableNormalizer,
	FileOccupiableVolume:     tableNormalizer,
	FileNitrogenNetworkXYZ:   tableNormalizer,
}

func tableNormalizer(text string) (string, error) {
	return NormalizeTable(text), nil
}
