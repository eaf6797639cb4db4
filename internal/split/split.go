// Package split models the unit of parallel input assignment: a contiguous
// byte range of one input file, processed by exactly one reader instance.
package split

import (
	"fmt"
	"os"
)

// Split is a contiguous byte range [Offset, Offset+Length) of Path.
type Split struct {
	Path   string `json:"path"`
	Offset int64  `json:"offset"`
	Length int64  `json:"length"`
}

// End returns the first byte offset past the split.
func (s Split) End() int64 { return s.Offset + s.Length }

func (s Split) String() string {
	return fmt.Sprintf("%s[%d:%d]", s.Path, s.Offset, s.End())
}

// Plan divides the file at path into splits of at most targetSize bytes.
// When targetSize <= 0 the whole file becomes a single split. An empty
// file yields one zero-length split so the read still runs and terminates
// normally at end of input.
//
// Ranges are planned on byte boundaries without regard to line structure;
// the row source is responsible for resolving lines that straddle a
// boundary (the split containing a line's first byte owns the line).
func Plan(path string, targetSize int64) ([]Split, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("plan splits: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("plan splits: %s is a directory", path)
	}
	size := info.Size()
	if targetSize <= 0 || size <= targetSize {
		return []Split{{Path: path, Offset: 0, Length: size}}, nil
	}

	var splits []Split
	for off := int64(0); off < size; off += targetSize {
		length := targetSize
		if off+length > size {
			length = size - off
		}
		splits = append(splits, Split{Path: path, Offset: off, Length: length})
	}
	return splits, nil
}
