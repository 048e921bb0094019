package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/khrees2412/jobportal/internal/dashboard"
	"github.com/khrees2412/jobportal/internal/reconciler"
	"github.com/khrees2412/jobportal/internal/session"
	"github.com/khrees2412/jobportal/pkg/models"
)

func TestRenderViewPhases(t *testing.T) {
	user := models.User{Adhaar: "123412341234", Name: "Asha", Qualification: models.QualBTech}
	jobs := []models.Job{
		{ID: "J1", Title: "Lab Instructor", MinQualification: models.QualDiploma, MaxQualification: models.QualMTech},
		{ID: "J2", Title: "Professor", MinQualification: models.QualMSc, MaxQualification: models.QualPhD},
	}
	apps := []models.Application{{ID: "A1", JobID: "J1", Status: models.StatusPending}}
	uv := reconciler.BuildUserView(user, jobs, apps)

	tests := []struct {
		name     string
		view     dashboard.View
		contains []string
		absent   []string
	}{
		{
			name:     "loading",
			view:     dashboard.View{Phase: dashboard.PhaseLoading},
			contains: []string{"Loading dashboard"},
		},
		{
			name:     "error",
			view:     dashboard.View{Phase: dashboard.PhaseError, Message: dashboard.ConnectivityMessage},
			contains: []string{dashboard.ConnectivityMessage},
			absent:   []string{"Lab Instructor"},
		},
		{
			name:     "user ready",
			view:     dashboard.View{Phase: dashboard.PhaseReady, Session: session.ForUser(user), User: &uv},
			contains: []string{"Asha", "Lab Instructor", string(reconciler.BadgeEligibleApplied), string(reconciler.BadgeNotEligible), "My applications"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			renderView(&buf, tt.view)
			out := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("expected output to contain %q, got:\n%s", want, out)
				}
			}
			for _, unwanted := range tt.absent {
				if strings.Contains(out, unwanted) {
					t.Errorf("expected output not to contain %q", unwanted)
				}
			}
		})
	}
}

func TestResumeName(t *testing.T) {
	tests := map[string]string{
		"":                   "",
		"  cv.pdf ":          "cv.pdf",
		"/home/asha/cv.pdf":  "cv.pdf",
		"docs/resume v2.pdf": "resume v2.pdf",
	}
	for in, expected := range tests {
		if got := resumeName(in); got != expected {
			t.Errorf("resumeName(%q) = %q, expected %q", in, got, expected)
		}
	}
}
