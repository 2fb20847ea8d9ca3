package bed

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// MaxScore is the upper bound of the BED score column.
const MaxScore = 1000

// ErrorPolicy selects what the parser does with a malformed record.
type ErrorPolicy int

const (
	// Skip records the malformed line as a diagnostic and continues.
	Skip ErrorPolicy = iota
	// Abort ends the stream with the first malformed record.
	Abort
)

func (p ErrorPolicy) String() string {
	switch p {
	case Skip:
		return "skip"
	case Abort:
		return "abort"
	default:
		return fmt.Sprintf("ErrorPolicy(%d)", int(p))
	}
}

// ParseErrorPolicy converts "skip" or "abort" to an ErrorPolicy.
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch s {
	case "skip":
		return Skip, nil
	case "abort":
		return Abort, nil
	default:
		return Skip, fmt.Errorf("unknown malformed record policy %q", s)
	}
}

// MalformedRecordError reports a data line that is not a valid BED record.
type MalformedRecordError struct {
	Line   int // 1-based line number
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("bed parse error at line %d: %s", e.Line, e.Reason)
}

// Parser reads features from BED text. It is a pull-based, single-pass
// sequence; open the Source again to restart.
type Parser struct {
	reader     *bufio.Reader
	closer     io.Closer
	policy     ErrorPolicy
	lineNumber int
	skipped    []*MalformedRecordError
	err        error // sticky once the stream has failed
	logger     *zap.Logger
}

// NewParser opens src and returns a parser over it.
func NewParser(src Source, policy ErrorPolicy) (*Parser, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, err
	}
	p := NewParserFromReader(rc, policy)
	p.closer = rc
	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
func NewParserFromReader(r io.Reader, policy ErrorPolicy) *Parser {
	return &Parser{
		reader: bufio.NewReader(r),
		policy: policy,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger used to report skipped records.
func (p *Parser) SetLogger(l *zap.Logger) {
	p.logger = l
}

// Next reads the next feature.
// Returns nil, nil when there are no more features.
func (p *Parser) Next() (*Feature, error) {
	if p.err != nil {
		return nil, p.err
	}

	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			p.err = fmt.Errorf("read bed line: %w", err)
			return nil, p.err
		}
		if err == io.EOF && line == "" {
			return nil, nil
		}
		p.lineNumber++

		// Only the terminator is removed: empty trailing tab-delimited
		// fields still count as columns.
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" || isHeaderLine(line) {
			if err == io.EOF {
				return nil, nil
			}
			continue
		}

		f, perr := ParseLine(line, p.lineNumber)
		if perr == nil {
			return f, nil
		}

		if p.policy == Abort {
			p.err = perr
			return nil, perr
		}

		p.skipped = append(p.skipped, perr)
		p.logger.Warn("skipping malformed bed record",
			zap.Int("line", perr.Line),
			zap.String("reason", perr.Reason))
		if err == io.EOF {
			return nil, nil
		}
	}
}

// All returns the remaining features as a range-over-func sequence. The
// sequence stops after yielding the first error.
func (p *Parser) All() iter.Seq2[*Feature, error] {
	return func(yield func(*Feature, error) bool) {
		for {
			f, err := p.Next()
			if err != nil {
				yield(nil, err)
				return
			}
			if f == nil {
				return
			}
			if !yield(f, nil) {
				return
			}
		}
	}
}

// Diagnostics returns the records skipped so far under the Skip policy.
func (p *Parser) Diagnostics() []*MalformedRecordError {
	return append([]*MalformedRecordError(nil), p.skipped...)
}

// Policy returns the parser's malformed record policy.
func (p *Parser) Policy() ErrorPolicy {
	return p.policy
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the underlying source.
func (p *Parser) Close() error {
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}

// isHeaderLine reports comment, track and browser lines.
func isHeaderLine(line string) bool {
	if strings.HasPrefix(line, "#") {
		return true
	}
	for _, kw := range []string{"track", "browser"} {
		if line == kw || strings.HasPrefix(line, kw+" ") || strings.HasPrefix(line, kw+"\t") {
			return true
		}
	}
	return false
}

// splitFields splits on tabs when present, otherwise on whitespace runs.
func splitFields(line string) []string {
	if strings.IndexByte(line, '\t') >= 0 {
		return strings.Split(strings.TrimRight(line, " "), "\t")
	}
	return strings.Fields(line)
}

// ParseLine parses a single BED data line. lineNumber is only used for
// error reporting.
func ParseLine(line string, lineNumber int) (*Feature, *MalformedRecordError) {
	fields := splitFields(line)
	n := len(fields)

	malformed := func(format string, args ...any) (*Feature, *MalformedRecordError) {
		return nil, &MalformedRecordError{Line: lineNumber, Reason: fmt.Sprintf(format, args...)}
	}

	switch {
	case n < 3:
		return malformed("expected at least 3 columns, found %d", n)
	case n > 13:
		return malformed("expected at most 13 columns, found %d", n)
	case n == 7:
		return malformed("thickStart without thickEnd (7 columns)")
	case n == 10 || n == 11:
		return malformed("block columns are incomplete (%d columns)", n)
	}

	f := &Feature{Chrom: fields[0], Columns: n, Line: lineNumber}
	if f.Chrom == "" {
		return malformed("empty chrom")
	}

	var err error
	if f.Start, err = strconv.ParseInt(fields[1], 10, 64); err != nil {
		return malformed("invalid start: %s", fields[1])
	}
	if f.End, err = strconv.ParseInt(fields[2], 10, 64); err != nil {
		return malformed("invalid end: %s", fields[2])
	}
	if f.Start < 0 {
		return malformed("negative start: %d", f.Start)
	}
	if f.Start >= f.End {
		return malformed("start %d is not less than end %d", f.Start, f.End)
	}

	if n >= 4 && fields[3] != "." {
		f.Name = fields[3]
	}

	if n >= 5 && fields[4] != "." {
		score, err := strconv.Atoi(fields[4])
		if err != nil {
			return malformed("invalid score: %s", fields[4])
		}
		if score < 0 || score > MaxScore {
			return malformed("score %d outside [0, %d]", score, MaxScore)
		}
		f.Score = score
		f.HasScore = true
	}

	if n >= 6 {
		switch fields[5] {
		case "+", "-", ".":
			f.Strand = Strand(fields[5][0])
		default:
			return malformed("invalid strand: %s", fields[5])
		}
	}

	if n >= 8 {
		switch {
		case fields[6] == "." && fields[7] == ".":
		case fields[6] == "." || fields[7] == ".":
			return malformed("thickStart and thickEnd must both be set or both be '.'")
		default:
			if f.ThickStart, err = strconv.ParseInt(fields[6], 10, 64); err != nil {
				return malformed("invalid thickStart: %s", fields[6])
			}
			if f.ThickEnd, err = strconv.ParseInt(fields[7], 10, 64); err != nil {
				return malformed("invalid thickEnd: %s", fields[7])
			}
			if f.ThickStart < f.Start || f.ThickStart > f.ThickEnd || f.ThickEnd > f.End {
				return malformed("thick range %d-%d outside %d-%d", f.ThickStart, f.ThickEnd, f.Start, f.End)
			}
			f.HasThick = true
		}
	}

	if n >= 9 && fields[8] != "." && fields[8] != "0" {
		rgb, err := ParseRGB(fields[8])
		if err != nil {
			return malformed("invalid itemRgb: %v", err)
		}
		f.ItemRGB = rgb
		f.HasRGB = true
	}

	if n >= 12 {
		count, err := strconv.Atoi(fields[9])
		if err != nil || count < 0 {
			return malformed("invalid blockCount: %s", fields[9])
		}
		if f.BlockSizes, err = parseList(fields[10]); err != nil {
			return malformed("invalid blockSizes: %v", err)
		}
		if f.BlockStarts, err = parseList(fields[11]); err != nil {
			return malformed("invalid blockStarts: %v", err)
		}
		if len(f.BlockSizes) != count || len(f.BlockStarts) != count {
			return malformed("blockCount %d does not match %d sizes and %d starts",
				count, len(f.BlockSizes), len(f.BlockStarts))
		}
		for i := range count {
			if f.BlockSizes[i] <= 0 {
				return malformed("block %d has non-positive size %d", i+1, f.BlockSizes[i])
			}
			if f.BlockStarts[i] < 0 {
				return malformed("block %d has negative start %d", i+1, f.BlockStarts[i])
			}
		}
	}

	if n == 13 && fields[12] != "." {
		f.Type = fields[12]
	}

	return f, nil
}

// ParseRGB parses an "R,G,B" triple with components in [0, 255].
func ParseRGB(s string) (RGB, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return RGB{}, fmt.Errorf("expected R,G,B, got %q", s)
	}
	var c [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return RGB{}, fmt.Errorf("component %q not in [0, 255]", p)
		}
		c[i] = uint8(v)
	}
	return RGB{R: c[0], G: c[1], B: c[2]}, nil
}

// parseList parses a comma-separated integer list; a trailing comma is allowed.
func parseList(s string) ([]int64, error) {
	s = strings.TrimSuffix(s, ",")
	if s == "" {
		return []int64{}, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", p)
		}
		out[i] = v
	}
	return out, nil
}
