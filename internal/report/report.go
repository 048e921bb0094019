// Package report renders the administrator's application report as HTML and,
// through headless Chrome, as PDF.
package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/khrees2412/jobportal/internal/reconciler"
	"github.com/khrees2412/jobportal/pkg/models"
)

// JobStats counts the applications received by one job.
type JobStats struct {
	JobID    string
	Title    string
	Total    int
	Pending  int
	Selected int
	Rejected int
}

// Stats summarises the applications on an admin dashboard.
type Stats struct {
	Jobs     int
	Admins   int
	Total    int
	Pending  int
	Selected int
	Rejected int
	PerJob   []JobStats
}

// SelectionRate is the share of reviewed applications that were selected.
func (s Stats) SelectionRate() float64 {
	reviewed := s.Selected + s.Rejected
	if reviewed == 0 {
		return 0
	}
	return float64(s.Selected) / float64(reviewed) * 100
}

// Summarize counts applications overall and per job. Jobs are ordered by
// application count, busiest first, then by title.
func Summarize(view reconciler.AdminView) Stats {
	s := Stats{
		Jobs:     len(view.Jobs),
		Admins:   len(view.Admins),
		Total:    view.Applications.Total(),
		Pending:  len(view.Applications.Pending),
		Selected: len(view.Applications.Selected),
		Rejected: len(view.Applications.Rejected),
	}

	byJob := map[string]*JobStats{}
	for _, job := range view.Jobs {
		byJob[job.ID] = &JobStats{JobID: job.ID, Title: job.Title}
	}
	for _, status := range models.Statuses {
		for _, a := range view.Applications.Group(status) {
			js, ok := byJob[a.JobID]
			if !ok {
				js = &JobStats{JobID: a.JobID, Title: "(unlisted job)"}
				byJob[a.JobID] = js
			}
			js.Total++
			switch status {
			case models.StatusPending:
				js.Pending++
			case models.StatusSelected:
				js.Selected++
			case models.StatusRejected:
				js.Rejected++
			}
		}
	}

	for _, js := range byJob {
		s.PerJob = append(s.PerJob, *js)
	}
	sort.Slice(s.PerJob, func(i, j int) bool {
		if s.PerJob[i].Total != s.PerJob[j].Total {
			return s.PerJob[i].Total > s.PerJob[j].Total
		}
		return s.PerJob[i].Title < s.PerJob[j].Title
	})
	return s
}

// Data is everything the report template renders.
type Data struct {
	GeneratedAt time.Time
	GeneratedBy string
	View        reconciler.AdminView
	Stats       Stats
}

// NewData builds report data for view.
func NewData(view reconciler.AdminView, generatedBy string) Data {
	return Data{
		GeneratedAt: time.Now(),
		GeneratedBy: generatedBy,
		View:        view,
		Stats:       Summarize(view),
	}
}

var funcs = template.FuncMap{
	"jobTitle": func(titles map[string]string, id string) string {
		if t, ok := titles[id]; ok {
			return t
		}
		return id
	},
	"percent": func(f float64) string { return fmt.Sprintf("%.1f%%", f) },
	"date": func(a models.Application) string {
		if t := a.AppliedAt(); !t.IsZero() {
			return t.Format("02 Jan 2006")
		}
		return "-"
	},
	"lower": func(s models.Status) string { return strings.ToLower(string(s)) },
	"ordered": func(p reconciler.Partitions) []models.Application {
		out := make([]models.Application, 0, p.Total())
		for _, status := range models.Statuses {
			out = append(out, p.Group(status)...)
		}
		return out
	},
}

var reportTmpl = template.Must(template.New("report").Funcs(funcs).Parse(reportHTML))

// RenderHTML writes the report as a standalone HTML document.
func RenderHTML(w io.Writer, data Data) error {
	if err := reportTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// Exporter turns an HTML document into PDF bytes.
type Exporter interface {
	Export(ctx context.Context, html []byte) ([]byte, error)
}

// WriteFile renders data to path. The format follows the extension: .html
// or .htm writes HTML, .pdf goes through exporter.
func WriteFile(ctx context.Context, path string, data Data, exporter Exporter) error {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, data); err != nil {
		return err
	}

	out := buf.Bytes()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
	case ".pdf":
		if exporter == nil {
			return fmt.Errorf("no PDF exporter configured")
		}
		pdf, err := exporter.Export(ctx, out)
		if err != nil {
			return fmt.Errorf("failed to export PDF: %w", err)
		}
		out = pdf
	default:
		return fmt.Errorf("unsupported report format %q (use .html or .pdf)", filepath.Ext(path))
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

const reportHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Job Portal Applications Report</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; color: #1f2937; margin: 32px; }
h1 { color: #1e40af; margin-bottom: 4px; }
.meta { color: #6b7280; font-size: 12px; margin-bottom: 24px; }
.cards { display: flex; gap: 12px; margin-bottom: 24px; }
.card { border: 1px solid #e5e7eb; border-radius: 6px; padding: 12px 16px; min-width: 110px; }
.card .n { font-size: 22px; font-weight: bold; }
table { border-collapse: collapse; width: 100%; margin-bottom: 24px; font-size: 12px; }
th, td { border-bottom: 1px solid #e5e7eb; padding: 6px 8px; text-align: left; }
th { background: #f3f4f6; }
.pending { color: #b45309; } .selected { color: #047857; } .rejected { color: #b91c1c; }
</style>
</head>
<body>
<h1>Applications Report</h1>
<div class="meta">Generated {{.GeneratedAt.Format "02 Jan 2006 15:04"}}{{with .GeneratedBy}} by {{.}}{{end}}</div>

<div class="cards">
  <div class="card"><div class="n">{{.Stats.Jobs}}</div>Active jobs</div>
  <div class="card"><div class="n">{{.Stats.Total}}</div>Applications</div>
  <div class="card"><div class="n pending">{{.Stats.Pending}}</div>Pending</div>
  <div class="card"><div class="n selected">{{.Stats.Selected}}</div>Selected</div>
  <div class="card"><div class="n rejected">{{.Stats.Rejected}}</div>Rejected</div>
  <div class="card"><div class="n">{{percent .Stats.SelectionRate}}</div>Selection rate</div>
</div>

<h2>By job</h2>
<table>
<tr><th>Job</th><th>Total</th><th>Pending</th><th>Selected</th><th>Rejected</th></tr>
{{range .Stats.PerJob}}<tr><td>{{.Title}}</td><td>{{.Total}}</td><td>{{.Pending}}</td><td>{{.Selected}}</td><td>{{.Rejected}}</td></tr>
{{else}}<tr><td colspan="5">No jobs posted.</td></tr>
{{end}}</table>

<h2>Applications</h2>
<table>
<tr><th>Applicant</th><th>Job</th><th>Experience</th><th>Phone</th><th>Applied</th><th>Status</th></tr>
{{$titles := .View.JobTitles}}{{range ordered .View.Applications}}<tr><td>{{.FullName}}</td><td>{{jobTitle $titles .JobID}}</td><td>{{.Experience}} yrs</td><td>{{.Phone}}</td><td>{{date .}}</td><td class="{{lower .Status}}">{{.Status}}</td></tr>
{{else}}<tr><td colspan="6">No applications yet.</td></tr>
{{end}}</table>
</body>
</html>
`
