package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"formats/internal/config"
	"formats/internal/format"
	"formats/internal/format/delimited"
	"formats/internal/metrics"
	"formats/internal/schema"
	"formats/internal/sink"
	"formats/internal/split"
)

const (
	defaultBatchSize     = 5000
	defaultChannelBuffer = 1024
	defaultReaderWorkers = 4

	// inferSampleBytes bounds how much of the input the schema inference
	// pass is allowed to read.
	inferSampleBytes = 1 << 20
	inferSampleRows  = 200
)

// schemaCache deduplicates schema parsing across runs in the same
// process. A single run only parses one schema, but the cache also
// catches a config that repeats the same schema text verbatim.
var schemaCache = schema.NewCache()

func run(ctx context.Context, p config.Pipeline, verbose bool) error {
	start := time.Now()

	s, err := resolveSchema(p)
	if err != nil {
		return err
	}

	splits, err := split.Plan(p.Source.Path, p.Source.SplitSize)
	if err != nil {
		return fmt.Errorf("plan splits: %w", err)
	}

	var planned int64
	for _, sp := range splits {
		planned += sp.Length
	}
	log.Printf("planned %d split(s) over %s: %v", len(splits), humanize.Bytes(uint64(planned)), p.Source.Path)

	columns := outputColumns(p, s)

	repo, err := sink.New(ctx, sink.Config{
		Kind:    p.Sink.Kind,
		DSN:     p.Sink.DB.DSN,
		Table:   p.Sink.DB.Table,
		Columns: columns,
	})
	if err != nil {
		return fmt.Errorf("open sink: %w", err)
	}
	defer repo.Close()

	workers := p.Runtime.ReaderWorkers
	if workers <= 0 {
		workers = defaultReaderWorkers
	}
	batchSize := p.Runtime.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	buffer := p.Runtime.ChannelBuffer
	if buffer <= 0 {
		buffer = defaultChannelBuffer
	}

	rows := make(chan []any, buffer)

	var read, assembled, assemblyErrors atomic.Int64

	// A fatal loader error must cancel upstream work: readers block
	// sending on the rows channel, and once the loader stops draining only
	// this cancel can unblock them.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	readers, rctx := errgroup.WithContext(runCtx)
	readers.SetLimit(workers)
	for _, sp := range splits {
		sp := sp
		readers.Go(func() error {
			splitStart := time.Now()
			err := readSplit(rctx, p, s, sp, columns, rows, &read, &assembled, &assemblyErrors, verbose)
			metrics.RecordSplit(p.Job, err, time.Since(splitStart))
			if err != nil {
				return fmt.Errorf("split %v: %w", sp, err)
			}
			return nil
		})
	}

	var batches atomic.Int64
	countingCopy := func(ctx context.Context, columns []string, batch [][]any) (int64, error) {
		n, err := repo.CopyFrom(ctx, columns, batch)
		if err == nil {
			batches.Add(1)
		}
		return n, err
	}

	loader, lctx := errgroup.WithContext(runCtx)
	loader.Go(func() error {
		inserted, err := sink.LoadBatches(lctx, columns, rows, batchSize, countingCopy)
		metrics.RecordRow(p.Job, "inserted", inserted)
		metrics.RecordBatches(p.Job, batches.Load())
		if err != nil {
			cancel()
		}
		return err
	})

	readErr := readers.Wait()
	close(rows)
	loadErr := loader.Wait()

	metrics.RecordRow(p.Job, "read", read.Load())
	metrics.RecordRow(p.Job, "assembled", assembled.Load())
	metrics.RecordRow(p.Job, "assembly_errors", assemblyErrors.Load())

	log.Printf("done: read=%s assembled=%s errors=%d elapsed=%v",
		humanize.Comma(read.Load()), humanize.Comma(assembled.Load()), assemblyErrors.Load(), time.Since(start).Round(time.Millisecond))

	// A loader failure cancels the readers, so their errors are just the
	// cancellation; report the root cause first.
	if loadErr != nil {
		return loadErr
	}
	return readErr
}

// readSplit drives one format reader over one split and forwards its
// records, shaped into positional rows, onto the shared channel.
func readSplit(ctx context.Context, p config.Pipeline, s *schema.Schema, sp split.Split, columns []string, rows chan<- []any, read, assembled, assemblyErrors *atomic.Int64, verbose bool) error {
	r, err := format.New(p.Format.Kind, s, p.Format.Options)
	if err != nil {
		return err
	}
	r = format.WithPathTracking(r, format.PathTracking{
		PathField:             p.Format.PathField,
		LengthField:           p.Format.LengthField,
		ModificationTimeField: p.Format.ModificationTimeField,
		FilenameOnly:          p.Format.FilenameOnly,
	})

	if err := r.Open(ctx, sp); err != nil {
		return err
	}
	defer r.Close()

	for {
		ok, err := r.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		read.Add(1)

		rec, err := r.Record()
		if err != nil {
			assemblyErrors.Add(1)
			if verbose {
				log.Printf("split %v: %v", sp, err)
			}
			continue
		}
		assembled.Add(1)

		row := make([]any, len(columns))
		for i, name := range columns {
			row[i] = rec[name]
		}

		select {
		case rows <- row:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// resolveSchema parses the configured schema, or infers one from a
// sample of the input when the config carries none.
func resolveSchema(p config.Pipeline) (*schema.Schema, error) {
	if len(p.Format.Schema) > 0 {
		s, err := schemaCache.Parse(p.Format.Schema)
		if err != nil {
			return nil, fmt.Errorf("parse schema: %w", err)
		}
		return s, nil
	}

	if p.Format.Kind != "delimited" {
		return nil, fmt.Errorf("format %q requires an explicit schema", p.Format.Kind)
	}

	delim := p.Format.Options.String("delimiter", ",")
	quoted := p.Format.Options.Bool("enable_quoted_values", false)
	hasHeader := p.Format.Options.Bool("skip_header", false)

	s, err := inferFromSample(p.Source.Path, delim, quoted, hasHeader)
	if err != nil {
		return nil, fmt.Errorf("infer schema: %w", err)
	}
	log.Printf("inferred schema with %d field(s) from %v", s.Len(), p.Source.Path)
	return s, nil
}

func inferFromSample(path, delim string, quoted, hasHeader bool) (*schema.Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sample [][]string
	sc := bufio.NewScanner(io.LimitReader(f, inferSampleBytes))
	// A single line may span the whole sample; the default 64 KiB token
	// cap would fail on long lines the split reader handles fine.
	sc.Buffer(make([]byte, 0, 64<<10), inferSampleBytes)
	for len(sample) < inferSampleRows && sc.Scan() {
		tok := delimited.NewTokenizer(sc.Text(), delim, quoted)
		var fields []string
		for {
			v, ok := tok.Next()
			if !ok {
				break
			}
			fields = append(fields, v)
		}
		sample = append(sample, fields)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(sample) == 0 {
		return nil, fmt.Errorf("no sample rows in %v", path)
	}

	var header []string
	if hasHeader {
		header = sample[0]
		sample = sample[1:]
	}
	return schema.Infer(header, sample)
}

// outputColumns decides the positional row layout: the sink's explicit
// column list wins, otherwise the schema field order plus any
// path-tracking metadata fields.
func outputColumns(p config.Pipeline, s *schema.Schema) []string {
	if len(p.Sink.DB.Columns) > 0 {
		return p.Sink.DB.Columns
	}
	var columns []string
	for _, f := range s.Fields() {
		columns = append(columns, f.Name)
	}
	for _, name := range []string{p.Format.PathField, p.Format.LengthField, p.Format.ModificationTimeField} {
		if name != "" {
			columns = append(columns, name)
		}
	}
	return columns
}
