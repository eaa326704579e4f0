package file

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// CreateFileNumMap numbers the input paths in the order given.
func CreateFileNumMap(paths []string) map[int]string {
	res := make(map[int]string)
	for i, v := range paths {
		res[i] = v
	}
	return res
}

func IsMidiPath(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".mid") || strings.HasSuffix(lower, ".midi")
}

// GatherMidiPaths expands directories into the MIDI files below them. Plain
// file arguments are kept as given. maxNum of 0 means no limit.
func GatherMidiPaths(args []string, maxNum int) ([]string, error) {
	var res []string
	full := func() bool { return maxNum > 0 && len(res) >= maxNum }

	for _, arg := range args {
		var found []string
		err := filepath.WalkDir(arg, func(s string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if s == arg && !d.IsDir() {
				found = append(found, s)
				return nil
			}
			if !d.IsDir() && IsMidiPath(s) {
				found = append(found, s)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		for _, s := range found {
			if full() {
				return res, nil
			}
			res = append(res, s)
		}
	}
	return res, nil
}
