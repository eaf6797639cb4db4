// Command schemaprobe samples the head of a delimited file, infers a
// schema from the sample, and prints it as JSON. The output can be
// pasted into a pipeline config's format.schema field.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"formats/internal/format/delimited"
	"formats/internal/schema"
)

func main() {
	path := flag.String("path", "", "delimited file to sample")
	delim := flag.String("delimiter", ",", "field delimiter")
	quoted := flag.Bool("quoted", false, "treat double-quoted values as single fields")
	header := flag.Bool("header", true, "first sampled row is a header with field names")
	maxRows := flag.Int("rows", 200, "maximum rows to sample")
	maxBytes := flag.Int64("bytes", 1<<20, "maximum bytes to read from the file")
	flag.Parse()

	if *path == "" {
		flag.Usage()
		os.Exit(2)
	}

	s, err := probe(*path, *delim, *quoted, *header, *maxRows, *maxBytes)
	if err != nil {
		log.Printf("probe: %v", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		log.Printf("encode schema: %v", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func probe(path, delim string, quoted, header bool, maxRows int, maxBytes int64) (*schema.Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sample [][]string
	sc := bufio.NewScanner(io.LimitReader(f, maxBytes))
	// A single line may span the whole sample; the default 64 KiB token
	// cap would fail on long lines.
	sc.Buffer(make([]byte, 0, 64<<10), int(maxBytes))
	for len(sample) < maxRows && sc.Scan() {
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
		return nil, fmt.Errorf("no rows sampled from %v", path)
	}

	var names []string
	if header {
		names = sample[0]
		sample = sample[1:]
	}
	if len(sample) == 0 {
		return nil, fmt.Errorf("only a header row sampled from %v", path)
	}
	return schema.Infer(names, sample)
}
