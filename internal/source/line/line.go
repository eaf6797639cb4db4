// Package line implements the row source consumed by the format readers: a
// buffered, line-oriented reader over one split's byte range of a local
// file.
//
// Each logical record is one text line paired with its 0-based index within
// the split. A line belongs to the split containing its first byte, so a
// line that straddles the split boundary is read to completion past the
// boundary, and the partial line at the start of a non-zero offset is
// discarded (it belongs to the previous split).
package line

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"formats/internal/split"
)

// Reader yields one line per call to Next within its assigned split. It is
// driven by a single goroutine; distinct Reader instances over distinct
// splits share nothing and may run concurrently.
type Reader struct {
	f     *os.File
	br    *bufio.Reader
	sp    split.Split
	pos   int64 // absolute offset of the next unread byte
	start int64 // absolute offset of the most recently returned line
	index uint64
	done  bool
}

// Open opens the split's file and positions the reader on the first line
// owned by the split.
//
// If the context is already canceled, Open returns the context error
// without touching the filesystem (same contract as the local data
// source). Filesystem errors are wrapped with the split for context while
// staying errors.Is-compatible (e.g. os.ErrNotExist).
func Open(ctx context.Context, sp split.Split) (*Reader, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	f, err := os.Open(sp.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", sp, err)
	}

	r := &Reader{f: f, sp: sp, pos: sp.Offset}

	if sp.Offset > 0 {
		// Back up one byte and discard through the next newline. If the
		// byte before the split is itself a newline the discard consumes
		// exactly that byte, so a line starting exactly at the offset is
		// kept.
		if _, err := f.Seek(sp.Offset-1, io.SeekStart); err != nil {
			f.Close()
			return nil, fmt.Errorf("seek %s: %w", sp, err)
		}
		r.br = bufio.NewReader(f)
		skipped, err := r.br.ReadString('\n')
		if err != nil && err != io.EOF {
			f.Close()
			return nil, fmt.Errorf("read %s: %w", sp, err)
		}
		r.pos = sp.Offset - 1 + int64(len(skipped))
		if err == io.EOF {
			r.done = true
		}
	} else {
		r.br = bufio.NewReader(f)
	}
	return r, nil
}

// Next returns the next line of the split and its index. At end of the
// split it returns io.EOF; any other error is a read failure.
//
// The returned line has its trailing newline (and a preceding carriage
// return, if any) stripped.
func (r *Reader) Next() (uint64, string, error) {
	if r.done || r.pos >= r.sp.End() {
		r.done = true
		return 0, "", io.EOF
	}

	raw, err := r.br.ReadString('\n')
	if err != nil && err != io.EOF {
		return 0, "", fmt.Errorf("read %s: %w", r.sp, err)
	}
	if err == io.EOF {
		r.done = true
		if raw == "" {
			return 0, "", io.EOF
		}
	}

	r.start = r.pos
	r.pos += int64(len(raw))
	line := strings.TrimSuffix(raw, "\n")
	line = strings.TrimSuffix(line, "\r")

	idx := r.index
	r.index++
	return idx, line, nil
}

// Offset returns the absolute byte offset at which the most recently
// returned line starts. Valid only after a successful Next.
func (r *Reader) Offset() int64 { return r.start }

// Progress reports the fraction of the split consumed so far, in [0, 1].
func (r *Reader) Progress() float64 {
	if r.sp.Length <= 0 {
		if r.done {
			return 1
		}
		return 0
	}
	p := float64(r.pos-r.sp.Offset) / float64(r.sp.Length)
	if p > 1 {
		p = 1
	}
	if p < 0 {
		p = 0
	}
	return p
}

// Close releases the underlying file. It is idempotent.
func (r *Reader) Close() error {
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	return err
}
