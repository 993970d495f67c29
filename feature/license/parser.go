package license

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"license-auditor/core/reconcile"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const (
	// SectionStart marks the beginning of the object assignment table.
	SectionStart = "Object Assignment"
	// SectionEnd marks the end of the object assignment table.
	SectionEnd = "Module Objects and Permissions"
	// HeaderLines is the number of lines skipped before the first row, counting
	// the SectionStart line itself. The layout is assumed, not validated.
	HeaderLines = 5

	rowFields = 5
)

var (
	// ErrMissingSection is returned when the report has no object assignment section.
	ErrMissingSection = errors.New("license report has no \"" + SectionStart + "\" section")
	// ErrUnsupportedLayout is returned for a row that does not have exactly five fields.
	ErrUnsupportedLayout = errors.New("unsupported license report layout")
)

// DefaultRanges returns the ranges granted to every license for customization.
func DefaultRanges() []reconcile.LicenseRange {
	return []reconcile.LicenseRange{
		{ObjectType: reconcile.TableData, From: 50000, To: 50009, Permission: "RIMDX"},
		{ObjectType: reconcile.Page, From: 50000, To: 50099, Permission: "X"},
		{ObjectType: reconcile.Report, From: 50000, To: 50099, Permission: "X"},
		{ObjectType: reconcile.Codeunit, From: 50000, To: 50099, Permission: "X"},
		{ObjectType: reconcile.XMLport, From: 50000, To: 50099, Permission: "X"},
		{ObjectType: reconcile.Query, From: 50000, To: 50099, Permission: "X"},
	}
}

type scanState int

const (
	seekingStart scanState = iota
	skippingHeader
	collectingRows
	done
)

// scanner walks the report line by line. remaining counts the header lines
// still to skip while in skippingHeader.
type scanner struct {
	state     scanState
	remaining int
	line      int
	ranges    []reconcile.LicenseRange
}

// feed advances the state machine by one line.
func (s *scanner) feed(line string) error {
	s.line++

	switch s.state {
	case seekingStart:
		if line == SectionStart {
			s.state = skippingHeader
			s.remaining = HeaderLines - 1
			if s.remaining == 0 {
				s.state = collectingRows
			}
		}
	case skippingHeader:
		s.remaining--
		if s.remaining == 0 {
			s.state = collectingRows
		}
	case collectingRows:
		if line == SectionEnd {
			s.state = done
			return nil
		}
		if strings.TrimSpace(line) == "" {
			return nil
		}
		r, err := parseRow(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", s.line, err)
		}
		s.ranges = append(s.ranges, r)
	}
	return nil
}

func parseRow(line string) (reconcile.LicenseRange, error) {
	fields := strings.Fields(line)
	if len(fields) != rowFields {
		return reconcile.LicenseRange{}, fmt.Errorf("%w: expected %d fields, got %d in %q", ErrUnsupportedLayout, rowFields, len(fields), line)
	}

	objectType, err := reconcile.ParseObjectType(fields[0])
	if err != nil {
		return reconcile.LicenseRange{}, err
	}

	// fields[1] is the quantity column, recomputed from the bounds instead.
	from, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return reconcile.LicenseRange{}, fmt.Errorf("%w: range start %q", ErrUnsupportedLayout, fields[2])
	}
	to, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return reconcile.LicenseRange{}, fmt.Errorf("%w: range end %q", ErrUnsupportedLayout, fields[3])
	}

	return reconcile.NewLicenseRange(objectType, from, to, fields[4])
}

// ParseRanges returns the ranges listed in the object assignment section of a
// UTF-8 report, in file order.
func ParseRanges(r io.Reader) ([]reconcile.LicenseRange, error) {
	s := &scanner{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() && s.state != done {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if err := s.feed(line); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read license report: %w", err)
	}

	if s.state == seekingStart {
		return nil, ErrMissingSection
	}

	return s.ranges, nil
}

// Parse builds the full range set: default ranges first, then the ranges of
// the report in file order.
func Parse(r io.Reader) (*reconcile.RangeSet, error) {
	parsed, err := ParseRanges(r)
	if err != nil {
		return nil, err
	}

	rs := reconcile.NewRangeSet(DefaultRanges()...)
	rs.Add(parsed...)
	return rs, nil
}

// Decode wraps a Windows-1252 encoded reader so it yields UTF-8.
func Decode(r io.Reader) io.Reader {
	return transform.NewReader(r, charmap.Windows1252.NewDecoder())
}

// ParseFile reads and parses a Windows-1252 encoded license report.
func ParseFile(path string) (*reconcile.RangeSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not read the license report: %w", err)
	}
	defer f.Close()

	rs, err := Parse(Decode(f))
	if err != nil {
		return nil, fmt.Errorf("failed to parse license report %s: %w", path, err)
	}
	return rs, nil
}
