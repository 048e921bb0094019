package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMalformed is returned by Validate when a decoded record is missing
// fields the client depends on.
var ErrMalformed = errors.New("malformed record")

// Qualification is an academic qualification tier. Tiers are totally ordered
// by their position in Qualifications.
type Qualification string

const (
	QualKG              Qualification = "KG"
	QualPrePrimary      Qualification = "Pre-Primary"
	QualPrimary         Qualification = "Primary"
	QualSecondary       Qualification = "Secondary"
	QualHigherSecondary Qualification = "Higher Secondary"
	QualDiploma         Qualification = "Diploma"
	QualBTech           Qualification = "B.Tech"
	QualBSc             Qualification = "B.Sc"
	QualBA              Qualification = "B.A"
	QualMTech           Qualification = "M.Tech"
	QualMSc             Qualification = "M.Sc"
	QualMA              Qualification = "M.A"
	QualMBA             Qualification = "MBA"
	QualPhD             Qualification = "PhD"
	QualPG              Qualification = "PG"
)

// Qualifications lists every tier from lowest to highest.
var Qualifications = []Qualification{
	QualKG, QualPrePrimary, QualPrimary, QualSecondary, QualHigherSecondary,
	QualDiploma, QualBTech, QualBSc, QualBA, QualMTech, QualMSc, QualMA,
	QualMBA, QualPhD, QualPG,
}

// Index returns the ordinal of q, or -1 when q is not a known tier.
func (q Qualification) Index() int {
	for i, tier := range Qualifications {
		if tier == q {
			return i
		}
	}
	return -1
}

// Valid reports whether q is a member of Qualifications.
func (q Qualification) Valid() bool {
	return q.Index() >= 0
}

// ParseQualification matches s exactly against the known tiers.
func ParseQualification(s string) (Qualification, error) {
	q := Qualification(strings.TrimSpace(s))
	if !q.Valid() {
		return "", fmt.Errorf("unknown qualification %q", s)
	}
	return q, nil
}

// Role tags which kind of identity holds the session.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is a registered candidate.
type User struct {
	Adhaar        string        `json:"adhaar"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Qualification Qualification `json:"qualification"`
	Phone         string        `json:"phone"`
	Experience    int           `json:"experience"`
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Adhaar) == "" {
		return fmt.Errorf("%w: user without adhaar", ErrMalformed)
	}
	if u.Experience < 0 {
		return fmt.Errorf("%w: user %s has negative experience", ErrMalformed, u.Adhaar)
	}
	return nil
}

// Admin is a portal administrator. The backend spells the identifier
// differently depending on the endpoint, so decoding accepts all of them.
type Admin struct {
	AdminID string `json:"adminId"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

func (a *Admin) UnmarshalJSON(data []byte) error {
	var raw struct {
		AdminID   string `json:"adminId"`
		AdminIDSn string `json:"admin_id"`
		ID        string `json:"id"`
		Name      string `json:"name"`
		Email     string `json:"email"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.AdminID = firstNonEmpty(raw.AdminID, raw.AdminIDSn, raw.ID)
	a.Name = raw.Name
	a.Email = raw.Email
	return nil
}

func (a Admin) Validate() error {
	if a.AdminID == "" {
		return fmt.Errorf("%w: admin without id", ErrMalformed)
	}
	return nil
}

// Job is a posting open to candidates whose qualification falls within
// [MinQualification, MaxQualification].
type Job struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Department       string        `json:"department"`
	Location         string        `json:"location"`
	Salary           string        `json:"salary"`
	MinQualification Qualification `json:"minQualification"`
	MaxQualification Qualification `json:"maxQualification"`
	Description      string        `json:"description"`
	Requirements     []string      `json:"requirements"`
	Status           string        `json:"status"`
	PostedBy         string        `json:"postedBy,omitempty"`
	PostedDate       string        `json:"postedDate,omitempty"`
}

func (j *Job) UnmarshalJSON(data []byte) error {
	type plain Job
	var raw struct {
		plain
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*j = Job(raw.plain)
	j.ID = firstNonEmpty(j.ID, raw.MongoID)
	return nil
}

func (j Job) Validate() error {
	if j.ID == "" {
		return fmt.Errorf("%w: job without id", ErrMalformed)
	}
	if strings.TrimSpace(j.Title) == "" {
		return fmt.Errorf("%w: job %s without title", ErrMalformed, j.ID)
	}
	return nil
}

// Status is the review state of an application.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusSelected Status = "Selected"
	StatusRejected Status = "Rejected"
)

// Statuses lists the review states in tab order.
var Statuses = []Status{StatusPending, StatusSelected, StatusRejected}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusSelected, StatusRejected:
		return true
	}
	return false
}

// CanTransition reports whether an application may move from s to next.
// Review decisions are final.
func (s Status) CanTransition(next Status) bool {
	return s == StatusPending && (next == StatusSelected || next == StatusRejected)
}

// ParseStatus accepts the canonical spelling in any letter case.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Application is a candidate's application to one job.
type Application struct {
	ID             string `json:"id"`
	JobID          string `json:"jobId"`
	Adhaar         string `json:"adhaar"`
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Experience     int    `json:"experience"`
	CoverLetter    string `json:"coverLetter,omitempty"`
	ResumeFileName string `json:"resumeFileName"`
	Status         Status `json:"status"`
	AppliedDate    string `json:"appliedDate"`
}

func (a *Application) UnmarshalJSON(data []byte) error {
	type plain Application
	var raw struct {
		plain
		MongoID string `json:"_id"`
		Resume  string `json:"resume"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = Application(raw.plain)
	a.ID = firstNonEmpty(a.ID, raw.MongoID)
	a.ResumeFileName = firstNonEmpty(a.ResumeFileName, raw.Resume)
	return nil
}

func (a Application) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("%w: application without id", ErrMalformed)
	}
	if a.JobID == "" {
		return fmt.Errorf("%w: application %s without job id", ErrMalformed, a.ID)
	}
	if !a.Status.Valid() {
		return fmt.Errorf("%w: application %s has status %q", ErrMalformed, a.ID, a.Status)
	}
	return nil
}

// AppliedAt parses AppliedDate, returning the zero time when it is absent or
// not in a recognised layout.
func (a Application) AppliedAt() time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, a.AppliedDate); err == nil {
			return t
		}
	}
	return time.Time{}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
