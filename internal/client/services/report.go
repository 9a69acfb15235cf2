package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/conecta/internal/client/models"
	"github.com/dmitrijs2005/conecta/internal/common"
	"github.com/dmitrijs2005/conecta/internal/filex"
	"github.com/dmitrijs2005/conecta/internal/logging"
	"github.com/dmitrijs2005/conecta/internal/netx"
)

// ReportService exports usage reports to a directory and, when a backend
// is reachable, archives them in object storage.
type ReportService struct {
	store  Store
	dir    string
	http   netx.HTTPDoer
	logger logging.Logger
	now    func() time.Time
}

func NewReportService(store Store, dir string, doer netx.HTTPDoer, logger logging.Logger) *ReportService {
	return &ReportService{
		store:  store,
		dir:    dir,
		http:   doer,
		logger: logger.With("service", "report"),
		now:    time.Now,
	}
}

// Build assembles the report from the stored counters and catalog.
func (s *ReportService) Build(ctx context.Context) models.Report {
	u := s.store.LoadUsage(ctx)
	c := s.store.LoadIcons(ctx)
	return models.Report{
		GeneratedAt:   models.ISOTimestamp(s.now()),
		DailyUsage:    u.Daily,
		WeeklyUsage:   u.Weekly,
		CategoryUsage: u.Categories,
		TotalIcons:    models.TotalIcons(&c),
	}
}

// ReportFileName is the export name for the UTC date of t.
func ReportFileName(t time.Time) string {
	return "conecta-autismo-relatorio-" + t.UTC().Format("2006-01-02") + ".json"
}

// ExportResult tells where a report went.
type ExportResult struct {
	Path     string
	Uploaded bool
}

// Export writes the report as indented JSON into the report directory. The
// upload to object storage is best effort and never fails the export.
func (s *ReportService) Export(ctx context.Context) (ExportResult, error) {
	data, err := json.MarshalIndent(s.Build(ctx), "", "  ")
	if err != nil {
		return ExportResult{}, fmt.Errorf("encode report: %w", err)
	}

	dir, err := filex.EnsureDir(s.dir)
	if err != nil {
		return ExportResult{}, fmt.Errorf("report dir: %w", err)
	}
	name := ReportFileName(s.now())
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ExportResult{}, fmt.Errorf("write report: %w", err)
	}
	res := ExportResult{Path: path}
	s.logger.Info(ctx, "report written", "path", path)

	if s.store.RemoteAvailable() {
		res.Uploaded = s.upload(ctx, name, data)
	}
	return res, nil
}

func (s *ReportService) upload(ctx context.Context, name string, data []byte) bool {
	url, err := s.store.PresignReportUpload(ctx, name)
	if err != nil {
		s.logger.Warn(ctx, "report upload url unavailable", "err", err)
		return false
	}
	if err := netx.UploadToPresignedURL(ctx, s.http, url, common.ReportContentType, data); err != nil {
		s.logger.Warn(ctx, "report upload failed", "err", err)
		return false
	}
	s.logger.Info(ctx, "report archived", "name", name)
	return true
}
