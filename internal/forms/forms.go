package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/khrees2412/jobportal/pkg/models"
)

// ErrValidation is wrapped by every ValidationErrors value.
var ErrValidation = errors.New("validation failed")

// ValidationErrors maps a form field to the message shown next to it.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, v[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Unwrap() error { return ErrValidation }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("qualification", func(fl validator.FieldLevel) bool {
		return models.Qualification(fl.Field().String()).Valid()
	})
	return v
}

// messages holds the user-facing text per field and failed rule. Fields
// without an entry fall back to a generic message for the rule.
var messages = map[string]map[string]string{
	"adhaar":         {"required": "Adhaar is required", "len": "Adhaar must be 12 digits", "number": "Adhaar must be 12 digits"},
	"phone":          {"required": "Phone is required", "len": "Phone must be 10 digits", "number": "Phone must be 10 digits"},
	"experience":     {"required": "Experience is required", "number": "Experience must be a number"},
	"email":          {"required": "Email is required", "contains": "Invalid email format"},
	"password":       {"required": "Password is required", "min": "Password must be at least 6 characters"},
	"resumeFileName": {"required": "Resume is required"},
}

func check(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := ValidationErrors{}
	for _, fe := range fieldErrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		if msg, ok := messages[field][fe.Tag()]; ok {
			out[field] = msg
			continue
		}
		switch fe.Tag() {
		case "required":
			out[field] = field + " is required"
		case "qualification":
			out[field] = "Unknown qualification"
		default:
			out[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return out
}

// UserLogin is the candidate sign-in form.
type UserLogin struct {
	Adhaar string `json:"adhaar" validate:"required"`
}

func (f UserLogin) Validate() error { return check(f) }

// AdminLogin is the administrator sign-in form.
type AdminLogin struct {
	ID       string `json:"id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (f AdminLogin) Validate() error { return check(f) }

// Registration is the candidate sign-up form.
type Registration struct {
	Adhaar        string `json:"adhaar" validate:"required,len=12,number"`
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,contains=@"`
	Qualification string `json:"qualification" validate:"required,qualification"`
	Phone         string `json:"phone" validate:"omitempty,len=10,number"`
	Experience    string `json:"experience" validate:"required,number"`
}

func (f Registration) Validate() error { return check(f) }

// User converts a validated form into the user record sent to the backend.
func (f Registration) User() (models.User, error) {
	if err := f.Validate(); err != nil {
		return models.User{}, err
	}
	exp, _ := strconv.Atoi(f.Experience)
	return models.User{
		Adhaar:        f.Adhaar,
		Name:          strings.TrimSpace(f.Name),
		Email:         strings.TrimSpace(f.Email),
		Qualification: models.Qualification(f.Qualification),
		Phone:         f.Phone,
		Experience:    exp,
	}, nil
}

// ApplicationForm is what a candidate fills in to apply for a job.
type ApplicationForm struct {
	FullName       string `json:"fullName" validate:"required"`
	Email          string `json:"email" validate:"required"`
	Phone          string `json:"phone" validate:"required,len=10,number"`
	Experience     string `json:"experience" validate:"required,number"`
	CoverLetter    string `json:"coverLetter"`
	ResumeFileName string `json:"resumeFileName" validate:"required"`
}

func (f ApplicationForm) Validate() error { return check(f) }

// ExperienceYears returns the parsed experience; call after Validate.
func (f ApplicationForm) ExperienceYears() int {
	n, _ := strconv.Atoi(f.Experience)
	return n
}

// JobPosting is the admin form for a new job.
type JobPosting struct {
	Title            string `json:"title" validate:"required"`
	Department       string `json:"department" validate:"required"`
	Location         string `json:"location" validate:"required"`
	Salary           string `json:"salary" validate:"required"`
	MinQualification string `json:"minQualification" validate:"required,qualification"`
	MaxQualification string `json:"maxQualification" validate:"required,qualification"`
	Description      string `json:"description" validate:"required"`
	// Requirements holds one requirement per line.
	Requirements string `json:"requirements"`
}

// Validate checks each field on its own. An inverted range is accepted; no
// candidate is eligible for such a job.
func (f JobPosting) Validate() error { return check(f) }

// Job converts a validated posting into a job record.
func (f JobPosting) Job() (models.Job, error) {
	if err := f.Validate(); err != nil {
		return models.Job{}, err
	}
	return models.Job{
		Title:            strings.TrimSpace(f.Title),
		Department:       strings.TrimSpace(f.Department),
		Location:         strings.TrimSpace(f.Location),
		Salary:           strings.TrimSpace(f.Salary),
		MinQualification: models.Qualification(f.MinQualification),
		MaxQualification: models.Qualification(f.MaxQualification),
		Description:      strings.TrimSpace(f.Description),
		Requirements:     SplitRequirements(f.Requirements),
	}, nil
}

// SplitRequirements splits a newline separated list, dropping blank lines.
func SplitRequirements(s string) []string {
	out := []string{}
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// NewAdmin is the form for adding another administrator.
type NewAdmin struct {
	AdminID  string `json:"adminId" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,contains=@"`
	Password string `json:"password" validate:"required,min=6"`
}

func (f NewAdmin) Validate() error { return check(f) }

// Strength grades an admin password.
type Strength string

const (
	StrengthWeak   Strength = "weak"
	StrengthMedium Strength = "medium"
	StrengthStrong Strength = "strong"
)

var (
	upperRe   = regexp.MustCompile(`[A-Z]`)
	digitRe   = regexp.MustCompile(`[0-9]`)
	specialRe = regexp.MustCompile(`[@$!%*?&]`)
)

// PasswordStrength is weak under 6 characters, strong with an upper-case
// letter, a digit and one of @$!%*?&, and medium otherwise.
func PasswordStrength(password string) Strength {
	switch {
	case len(password) < 6:
		return StrengthWeak
	case upperRe.MatchString(password) && digitRe.MatchString(password) && specialRe.MatchString(password):
		return StrengthStrong
	default:
		return StrengthMedium
	}
}
