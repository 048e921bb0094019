package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/khrees2412/jobportal/pkg/models"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError is a non-2xx response that does not map to a sentinel error.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("portal api: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("portal api: HTTP %d: %s", e.StatusCode, e.Message)
}

// maxBody bounds how much of a response is read.
const maxBody = 4 << 20

// Client talks to the portal backend. All paths are relative to baseURL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:    trimmed,
		httpClient: httpClient,
		logger:     logger,
	}
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create %s %s: %w", method, path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	c.logger.Debug("portal request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return mapError(resp.StatusCode, payload)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", ErrMalformedResponse, method, path, err)
	}
	return nil
}

func mapError(status int, payload []byte) error {
	var parsed errorResponse
	message := strings.TrimSpace(string(payload))
	if err := json.Unmarshal(payload, &parsed); err == nil {
		message = parsed.Error
		if message == "" {
			message = parsed.Message
		}
	}
	switch status {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, message)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	default:
		return &APIError{StatusCode: status, Message: message}
	}
}

type validator interface {
	Validate() error
}

func validateAll[T validator](items []T) error {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}
	return nil
}

func validateOne(item validator) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// Auth

// LoginUser signs a candidate in by their adhaar number.
func (c *Client) LoginUser(ctx context.Context, adhaar string) (models.User, error) {
	var resp struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/users/login", map[string]string{"adhaar": adhaar}, &resp); err != nil {
		return models.User{}, err
	}
	if resp.User == nil {
		return models.User{}, fmt.Errorf("%w: login response without user", ErrMalformedResponse)
	}
	return *resp.User, validateOne(resp.User)
}

// RegisterUser creates a candidate account.
func (c *Client) RegisterUser(ctx context.Context, u models.User) (models.User, error) {
	var resp struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/users/register", u, &resp); err != nil {
		return models.User{}, err
	}
	if resp.User == nil {
		return models.User{}, fmt.Errorf("%w: register response without user", ErrMalformedResponse)
	}
	return *resp.User, validateOne(resp.User)
}

// LoginAdmin signs an administrator in.
func (c *Client) LoginAdmin(ctx context.Context, id, password string) (models.Admin, error) {
	var resp struct {
		Admin *models.Admin `json:"admin"`
	}
	body := map[string]string{"id": id, "password": password}
	if err := c.do(ctx, http.MethodPost, "/admin/login", body, &resp); err != nil {
		return models.Admin{}, err
	}
	if resp.Admin == nil {
		return models.Admin{}, fmt.Errorf("%w: login response without admin", ErrMalformedResponse)
	}
	return *resp.Admin, validateOne(resp.Admin)
}

// Jobs

func (c *Client) ListJobs(ctx context.Context) ([]models.Job, error) {
	jobs := []models.Job{}
	if err := c.do(ctx, http.MethodGet, "/jobs", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, validateAll(jobs)
}

func (c *Client) GetJob(ctx context.Context, id string) (models.Job, error) {
	var job models.Job
	if err := c.do(ctx, http.MethodGet, "/jobs/"+url.PathEscape(id), nil, &job); err != nil {
		return models.Job{}, err
	}
	return job, validateOne(job)
}

// PostJob publishes a job on behalf of postedBy.
func (c *Client) PostJob(ctx context.Context, job models.Job, postedBy string) (models.Job, error) {
	job.PostedBy = postedBy
	var resp struct {
		Job *models.Job `json:"job"`
	}
	if err := c.do(ctx, http.MethodPost, "/jobs", job, &resp); err != nil {
		return models.Job{}, err
	}
	if resp.Job == nil {
		return models.Job{}, fmt.Errorf("%w: post job response without job", ErrMalformedResponse)
	}
	return *resp.Job, validateOne(resp.Job)
}

// Admins

func (c *Client) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	admins := []models.Admin{}
	if err := c.do(ctx, http.MethodGet, "/admin/all-admins", nil, &admins); err != nil {
		return nil, err
	}
	return admins, validateAll(admins)
}

// AdminRequest is the body of an add-admin call.
type AdminRequest struct {
	AdminID  string `json:"adminId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) AddAdmin(ctx context.Context, req AdminRequest) (models.Admin, error) {
	var resp struct {
		Admin *models.Admin `json:"admin"`
	}
	if err := c.do(ctx, http.MethodPost, "/admin/add-admin", req, &resp); err != nil {
		return models.Admin{}, err
	}
	if resp.Admin == nil {
		return models.Admin{}, fmt.Errorf("%w: add admin response without admin", ErrMalformedResponse)
	}
	return *resp.Admin, validateOne(resp.Admin)
}

// Applications

// ListApplicationsFor returns the candidate's own applications.
func (c *Client) ListApplicationsFor(ctx context.Context, adhaar string) ([]models.Application, error) {
	apps := []models.Application{}
	if err := c.do(ctx, http.MethodGet, "/applications/"+url.PathEscape(adhaar), nil, &apps); err != nil {
		return nil, err
	}
	return apps, validateAll(apps)
}

// ListApplications returns every application, optionally only those with status.
func (c *Client) ListApplications(ctx context.Context, status models.Status) ([]models.Application, error) {
	path := "/applications"
	if status != "" {
		path += "?status=" + url.QueryEscape(string(status))
	}
	apps := []models.Application{}
	if err := c.do(ctx, http.MethodGet, path, nil, &apps); err != nil {
		return nil, err
	}
	return apps, validateAll(apps)
}

// ApplicationRequest is the body of an apply call.
type ApplicationRequest struct {
	JobID          string `json:"jobId"`
	Adhaar         string `json:"adhaar"`
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Experience     int    `json:"experience"`
	CoverLetter    string `json:"coverLetter,omitempty"`
	ResumeFileName string `json:"resumeFileName"`
}

func (r ApplicationRequest) MarshalJSON() ([]byte, error) {
	type plain ApplicationRequest
	// The backend stores the file name under "resume".
	return json.Marshal(struct {
		plain
		Resume string `json:"resume"`
	}{plain(r), r.ResumeFileName})
}

func (c *Client) SubmitApplication(ctx context.Context, req ApplicationRequest) (models.Application, error) {
	var resp struct {
		Application *models.Application `json:"application"`
	}
	if err := c.do(ctx, http.MethodPost, "/applications", req, &resp); err != nil {
		return models.Application{}, err
	}
	if resp.Application == nil {
		return models.Application{}, fmt.Errorf("%w: apply response without application", ErrMalformedResponse)
	}
	return *resp.Application, validateOne(resp.Application)
}

func (c *Client) UpdateApplicationStatus(ctx context.Context, id string, status models.Status) (models.Application, error) {
	var resp struct {
		Application *models.Application `json:"application"`
	}
	body := map[string]string{"status": string(status)}
	if err := c.do(ctx, http.MethodPut, "/applications/"+url.PathEscape(id), body, &resp); err != nil {
		return models.Application{}, err
	}
	if resp.Application == nil {
		return models.Application{}, fmt.Errorf("%w: update response without application", ErrMalformedResponse)
	}
	return *resp.Application, validateOne(resp.Application)
}

// Health

type Health struct {
	Status    string `json:"status"`
	Database  string `json:"database,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Health reports the backend's own view of its state. An unhealthy backend
// answers 500 with a body, which is returned alongside the error.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	err := c.do(ctx, http.MethodGet, "/health", nil, &h)
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		h.Status = "unhealthy"
		h.Error = apiErr.Message
	}
	return h, err
}
