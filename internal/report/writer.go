package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"CopperAnalytics/internal/logger"
	"CopperAnalytics/internal/model"
)

// Artifacts are the exact bytes persisted by a successful run.
type Artifacts struct {
	Report    []byte
	Companion []byte
}

// Writer persists the report and its companion timestamp document.
type Writer struct {
	ReportPath    string
	CompanionPath string
	IndexHTMLPath string

	rename renameFunc
	log    *logger.Entry
}

func NewWriter(reportPath, companionPath, indexHTMLPath string) *Writer {
	return &Writer{
		ReportPath:    reportPath,
		CompanionPath: companionPath,
		IndexHTMLPath: indexHTMLPath,
		rename:        os.Rename,
		log:           logger.GetLogger().WithComponent("report"),
	}
}

// WithLogger returns a copy of w logging through entry.
func (w *Writer) WithLogger(entry *logger.Entry) *Writer {
	cp := *w
	cp.log = entry.WithComponent("report")
	return &cp
}

// Persist serializes both documents before touching disk, then writes the
// report followed by the companion. A failure at any step leaves the
// previous report in place. If only the companion write fails, the new
// report is already visible and the error is still returned.
func (w *Writer) Persist(r *model.AnalysisReport) (*Artifacts, error) {
	reportBytes, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, model.NewSerializationError(fmt.Errorf("marshal report: %w", err))
	}
	companion, err := companionFor(r)
	if err != nil {
		return nil, model.NewSerializationError(err)
	}
	companionBytes, err := json.Marshal(companion)
	if err != nil {
		return nil, model.NewSerializationError(fmt.Errorf("marshal companion: %w", err))
	}

	if err := writeFileAtomic(w.ReportPath, reportBytes, w.rename); err != nil {
		return nil, model.NewIOError(err)
	}
	if err := writeFileAtomic(w.CompanionPath, companionBytes, w.rename); err != nil {
		return nil, model.NewIOError(err)
	}
	w.log.WithFields(logger.Fields{
		"report":    w.ReportPath,
		"companion": w.CompanionPath,
		"bytes":     len(reportBytes),
	}).Info("report persisted")

	if w.IndexHTMLPath != "" {
		w.writeIndex(r)
	}
	return &Artifacts{Report: reportBytes, Companion: companionBytes}, nil
}

// writeIndex failures are logged only; the landing page is not part of the run result.
func (w *Writer) writeIndex(r *model.AnalysisReport) {
	page, err := RenderIndex(r, w.ReportPath, w.CompanionPath)
	if err == nil {
		err = writeFileAtomic(w.IndexHTMLPath, page, w.rename)
	}
	if err != nil {
		w.log.WithError(err).WithField("path", w.IndexHTMLPath).Warn("landing page not written")
	}
}

func companionFor(r *model.AnalysisReport) (*model.LastUpdated, error) {
	ts, err := time.Parse(time.RFC3339, r.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("report timestamp %q: %w", r.Timestamp, err)
	}
	return &model.LastUpdated{Timestamp: r.Timestamp, UnixTimestamp: ts.Unix()}, nil
}

// LoadReport reads a persisted report.
func LoadReport(path string) (*model.AnalysisReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r model.AnalysisReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &r, nil
}
