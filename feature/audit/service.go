package audit

import (
	"context"
	"fmt"
	"io"
	"time"

	"license-auditor/core/reconcile"
	"license-auditor/feature/history"
	"license-auditor/feature/inventory"
	"license-auditor/feature/license"
	"license-auditor/feature/report"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Outcome is the result of one audit run.
type Outcome struct {
	RunID      string                `json:"run_id"`
	Sheet      string                `json:"sheet"`
	Summary    reconcile.Summary     `json:"summary"`
	Violations []reconcile.Violation `json:"violations"`
	// Artifact is the local path of missing-permissions.csv, if one was written.
	Artifact string `json:"artifact,omitempty"`
	// Published is the object storage location of the artifact, if uploaded.
	Published string `json:"published,omitempty"`
}

// CheckRequest describes an audit of files on disk.
type CheckRequest struct {
	LicensePath string
	ObjectsPath string
	// Picker chooses the inventory sheet; nil selects the first one.
	Picker inventory.SheetPicker
	// Out receives the console report.
	Out io.Writer
	// OutputDir overrides Config.OutputDir.
	OutputDir string
}

// UploadRequest describes an audit of uploaded files.
type UploadRequest struct {
	LicenseName string
	License     io.Reader
	ObjectsName string
	Objects     io.Reader
	Sheet       string
}

// Service runs audits and hands their results to the optional publisher and
// history repository.
type Service struct {
	cfg       Config
	publisher *report.Publisher
	history   *history.Repository
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates an audit service. publisher and repo may be nil.
func NewService(cfg Config, publisher *report.Publisher, repo *history.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:       cfg,
		publisher: publisher,
		history:   repo,
		logger:    logger,
		now:       time.Now,
	}
}

// History returns the run repository, or nil when history is disabled.
func (s *Service) History() *history.Repository {
	return s.history
}

// Check audits a license report against an inventory export on disk, prints
// the violations and writes missing-permissions.csv. The license is parsed
// before the inventory is opened.
func (s *Service) Check(ctx context.Context, req CheckRequest) (*Outcome, error) {
	started := s.now()

	ranges, err := license.ParseFile(req.LicensePath)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Parsed license report", zap.String("path", req.LicensePath), zap.Int("ranges", ranges.Len()))

	inv, err := inventory.LoadFile(req.ObjectsPath, req.Picker)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Loaded inventory", zap.String("sheet", inv.Sheet), zap.Int("objects", len(inv.Objects)))

	result := reconcile.ReconcileWithSummary(ranges, inv.Objects)

	dir := req.OutputDir
	if dir == "" {
		dir = s.cfg.OutputDir
	}
	out := req.Out
	if out == nil {
		out = io.Discard
	}
	artifact, err := report.NewReporter(out, dir, s.logger).Report(result.Violations)
	if err != nil {
		return nil, err
	}

	outcome := newOutcome(inv.Sheet, result)
	outcome.Artifact = artifact
	s.finish(ctx, outcome, req.LicensePath, req.ObjectsPath, started)
	return outcome, nil
}

// Upload audits uploaded files. Nothing is written locally; the artifact is
// only published when a publisher is configured.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (*Outcome, error) {
	started := s.now()

	ranges, err := license.Parse(license.Decode(req.License))
	if err != nil {
		return nil, fmt.Errorf("failed to parse license report %s: %w", req.LicenseName, err)
	}

	src, err := inventory.Read(req.ObjectsName, req.Objects)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	picker := inventory.FirstSheetPicker
	if sheet := firstNonEmpty(req.Sheet, s.cfg.Sheet); sheet != "" {
		picker = inventory.NamedPicker(sheet)
	}
	inv, err := inventory.Load(src, picker)
	if err != nil {
		return nil, err
	}

	outcome := newOutcome(inv.Sheet, reconcile.ReconcileWithSummary(ranges, inv.Objects))
	s.finish(ctx, outcome, req.LicenseName, req.ObjectsName, started)
	return outcome, nil
}

// finish publishes and records a run. Failures are logged and never fail the audit.
func (s *Service) finish(ctx context.Context, outcome *Outcome, licenseSource, objectsSource string, started time.Time) {
	l := s.logger.With(zap.String("run_id", outcome.RunID))

	if s.publisher != nil && len(outcome.Violations) > 0 {
		location, err := s.publisher.Publish(ctx, outcome.RunID, outcome.Violations)
		if err != nil {
			l.Warn("Publishing artifact failed", zap.Error(err))
		} else {
			outcome.Published = location
		}
	}

	if s.history != nil {
		artifact := firstNonEmpty(outcome.Published, outcome.Artifact)
		_, err := s.history.Save(ctx, history.Run{
			ID:            outcome.RunID,
			LicenseSource: licenseSource,
			ObjectsSource: objectsSource,
			Sheet:         outcome.Sheet,
			Result:        reconcile.Result{Violations: outcome.Violations, Summary: outcome.Summary},
			Artifact:      artifact,
			StartedAt:     started,
		})
		if err != nil {
			l.Warn("Recording audit run failed", zap.Error(err))
		}
	}

	l.Info("Audit finished",
		zap.Int("checked", outcome.Summary.Checked),
		zap.Int("violations", outcome.Summary.Violations),
	)
}

func newOutcome(sheet string, result reconcile.Result) *Outcome {
	return &Outcome{
		RunID:      uuid.NewString(),
		Sheet:      sheet,
		Summary:    result.Summary,
		Violations: result.Violations,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
