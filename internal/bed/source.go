package bed

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Source is a restartable origin of BED text. Every call to Open starts
// reading from the beginning.
type Source interface {
	Open() (io.ReadCloser, error)
	String() string
}

// FileSource reads a BED file from disk. Gzipped (and BGZF) files are
// detected by their magic bytes. The path "-" reads stdin, which can only
// be consumed once.
type FileSource string

// Open opens the file, transparently decompressing it when needed.
func (s FileSource) Open() (io.ReadCloser, error) {
	if s == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	file, err := os.Open(string(s))
	if err != nil {
		return nil, fmt.Errorf("open bed file: %w", err)
	}

	br := bufio.NewReader(file)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read bed header: %w", err)
	}

	// gzip magic number (0x1f, 0x8b)
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		return &gzipFile{Reader: gz, file: file}, nil
	}

	return &bufferedFile{Reader: br, file: file}, nil
}

func (s FileSource) String() string {
	return string(s)
}

// StringSource holds BED text in memory.
type StringSource string

// Open returns a reader over the text.
func (s StringSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(string(s))), nil
}

func (s StringSource) String() string {
	return "<string>"
}

// LinesSource holds an ordered sequence of BED lines without terminators.
type LinesSource []string

// Open returns a reader over the lines joined by newlines.
func (s LinesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(strings.Join(s, "\n"))), nil
}

func (s LinesSource) String() string {
	return "<lines>"
}

type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	g.Reader.Close()
	return g.file.Close()
}

type bufferedFile struct {
	*bufio.Reader
	file *os.File
}

func (b *bufferedFile) Close() error {
	return b.file.Close()
}
