package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"license-auditor/core/reconcile"

	"go.uber.org/zap"
)

const (
	// FileName is the name of the remediation artifact.
	FileName = "missing-permissions.csv"

	// NoViolationsMessage is printed instead of writing an artifact.
	NoViolationsMessage = "No missing objects found (no violations)"

	permissionLevel = "Direct"
)

// Header lists the artifact columns.
var Header = []string{
	"ObjectType",
	"FromObjectID",
	"ToObjectID",
	"Read",
	"Insert",
	"Modify",
	"Delete",
	"Execute",
	"AvailableRange",
	"Used",
	"ObjectTypeRemaining",
	"CompanyObjectPermissionID",
}

// Reporter prints violations and writes the remediation artifact.
type Reporter struct {
	out    io.Writer
	dir    string
	logger *zap.Logger
}

// NewReporter creates a reporter printing to out and writing the artifact into dir.
func NewReporter(out io.Writer, dir string, logger *zap.Logger) *Reporter {
	if dir == "" {
		dir = "."
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{out: out, dir: dir, logger: logger}
}

// Report prints one line per violation and writes the artifact. Without
// violations it prints a notice, writes nothing and returns an empty path.
func (r *Reporter) Report(violations []reconcile.Violation) (string, error) {
	if len(violations) == 0 {
		fmt.Fprintln(r.out, NoViolationsMessage)
		return "", nil
	}

	for _, v := range violations {
		fmt.Fprintln(r.out, Line(v))
	}

	path := filepath.Join(r.dir, FileName)
	if err := WriteFile(path, violations); err != nil {
		return "", err
	}

	r.logger.Debug("Wrote remediation artifact", zap.String("path", path), zap.Int("rows", len(violations)))
	fmt.Fprintf(r.out, "Wrote missing permissions to %s\n", path)

	return path, nil
}

// Line formats a violation for the console: "<id> <type>\t<name>".
func Line(v reconcile.Violation) string {
	return fmt.Sprintf("%d %s\t%s", v.ID, v.ObjectType, v.Name)
}

// Row builds the artifact row for a violation: a single-id range covering it.
func Row(v reconcile.Violation) []string {
	id := strconv.FormatInt(v.ID, 10)
	return []string{
		v.ObjectType.String(),
		id,
		id,
		permissionLevel,
		permissionLevel,
		permissionLevel,
		permissionLevel,
		permissionLevel,
		reconcile.CustomizationBand.String(),
		"1",
		"0",
		"0",
	}
}

// WriteCSV writes the header and one row per violation. Fields are joined
// with commas and never quoted.
func WriteCSV(w io.Writer, violations []reconcile.Violation) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(strings.Join(Header, ",") + "\n"); err != nil {
		return err
	}
	for _, v := range violations {
		if _, err := bw.WriteString(strings.Join(Row(v), ",") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile creates (or truncates) path and writes the artifact into it.
func WriteFile(path string, violations []reconcile.Violation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := WriteCSV(f, violations); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
