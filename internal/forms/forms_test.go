package forms

import (
	"errors"
	"testing"

	"github.com/khrees2412/jobportal/pkg/models"
)

func validRegistration() Registration {
	return Registration{
		Adhaar:        "123412341234",
		Name:          "Asha Rao",
		Email:         "asha@example.com",
		Qualification: "B.Tech",
		Phone:         "9876543210",
		Experience:    "2",
	}
}

func TestRegistrationValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Registration)
		field  string
		msg    string
	}{
		{"valid", func(r *Registration) {}, "", ""},
		{"short adhaar", func(r *Registration) { r.Adhaar = "12345" }, "adhaar", "Adhaar must be 12 digits"},
		{"long adhaar", func(r *Registration) { r.Adhaar = "1234123412345" }, "adhaar", "Adhaar must be 12 digits"},
		{"letters in adhaar", func(r *Registration) { r.Adhaar = "12341234123a" }, "adhaar", "Adhaar must be 12 digits"},
		{"missing name", func(r *Registration) { r.Name = "" }, "name", "name is required"},
		{"email without at", func(r *Registration) { r.Email = "asha.example.com" }, "email", "Invalid email format"},
		{"unknown qualification", func(r *Registration) { r.Qualification = "btech" }, "qualification", "Unknown qualification"},
		{"bad phone", func(r *Registration) { r.Phone = "12345" }, "phone", "Phone must be 10 digits"},
		{"phone optional", func(r *Registration) { r.Phone = "" }, "", ""},
		{"experience not a number", func(r *Registration) { r.Experience = "two" }, "experience", "Experience must be a number"},
		{"negative experience", func(r *Registration) { r.Experience = "-1" }, "experience", "Experience must be a number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validRegistration()
			tt.mutate(&form)
			err := form.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Error("expected error to wrap ErrValidation")
			}
			if verrs[tt.field] != tt.msg {
				t.Errorf("field %s: got %q, expected %q (all: %v)", tt.field, verrs[tt.field], tt.msg, verrs)
			}
		})
	}
}

func TestRegistrationUser(t *testing.T) {
	user, err := validRegistration().User()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Qualification != models.QualBTech || user.Experience != 2 {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestApplicationFormValidate(t *testing.T) {
	form := ApplicationForm{
		FullName:       "Asha Rao",
		Email:          "asha@example.com",
		Phone:          "9876543210",
		Experience:     "3",
		ResumeFileName: "asha.pdf",
	}
	if err := form.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if form.ExperienceYears() != 3 {
		t.Errorf("expected 3 years, got %d", form.ExperienceYears())
	}

	empty := ApplicationForm{}
	var verrs ValidationErrors
	if !errors.As(empty.Validate(), &verrs) {
		t.Fatal("expected validation errors for empty form")
	}
	for _, field := range []string{"fullName", "email", "phone", "experience", "resumeFileName"} {
		if _, ok := verrs[field]; !ok {
			t.Errorf("expected error for %s", field)
		}
	}
	if _, ok := verrs["coverLetter"]; ok {
		t.Error("cover letter is optional")
	}
}

func TestJobPosting(t *testing.T) {
	form := JobPosting{
		Title:            "Lecturer",
		Department:       "Physics",
		Location:         "Pune",
		Salary:           "50000",
		MinQualification: "B.Tech",
		MaxQualification: "M.Tech",
		Description:      "Teach undergraduate physics",
		Requirements:     "NET qualified\n\n  2 years experience  \n",
	}
	job, err := form.Job()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(job.Requirements) != 2 || job.Requirements[1] != "2 years experience" {
		t.Errorf("unexpected requirements: %q", job.Requirements)
	}

	form.MaxQualification = "Masters"
	var verrs ValidationErrors
	if _, err := form.Job(); !errors.As(err, &verrs) || verrs["maxQualification"] == "" {
		t.Errorf("expected maxQualification error, got %v", err)
	}

	form.MinQualification, form.MaxQualification = "PhD", "B.Tech"
	inverted, err := form.Job()
	if err != nil {
		t.Fatalf("expected inverted range to be accepted, got %v", err)
	}
	if inverted.MinQualification != models.QualPhD || inverted.MaxQualification != models.QualBTech {
		t.Errorf("unexpected range %s to %s", inverted.MinQualification, inverted.MaxQualification)
	}
}

func TestNewAdminValidate(t *testing.T) {
	form := NewAdmin{AdminID: "ops", Name: "Ops", Email: "ops@example.com", Password: "short"}
	var verrs ValidationErrors
	if !errors.As(form.Validate(), &verrs) || verrs["password"] != "Password must be at least 6 characters" {
		t.Errorf("expected password error, got %v", verrs)
	}
	form.Password = "longenough"
	if err := form.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		expected Strength
	}{
		{"abc", StrengthWeak},
		{"abcdef", StrengthMedium},
		{"Abcdef1", StrengthMedium},
		{"Admin@neelu1", StrengthStrong},
	}
	for _, tt := range tests {
		if got := PasswordStrength(tt.password); got != tt.expected {
			t.Errorf("PasswordStrength(%q) = %s, expected %s", tt.password, got, tt.expected)
		}
	}
}
