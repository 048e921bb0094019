// Package devserver is an in-memory stand-in for the portal backend. It
// serves the same JSON API under /api so the client can be run and tested
// without the real service.
package devserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/khrees2412/jobportal/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

// StatusActive is the only job status the listing endpoint returns.
const StatusActive = "Active"

var errAdminExists = errors.New("Admin already exists")

// SeedAdmin is created when the server starts.
type SeedAdmin struct {
	ID       string
	Name     string
	Email    string
	Password string
}

type adminRecord struct {
	admin models.Admin
	hash  []byte
}

// Server holds all portal data in memory.
type Server struct {
	mu     sync.RWMutex
	users  map[string]models.User
	admins []adminRecord
	jobs   []models.Job
	apps   []models.Application
	logger *slog.Logger
}

func New(logger *slog.Logger, seeds ...SeedAdmin) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		users:  map[string]models.User{},
		logger: logger,
	}
	for _, seed := range seeds {
		if _, err := s.addAdmin(models.Admin{AdminID: seed.ID, Name: seed.Name, Email: seed.Email}, seed.Password); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Handler returns the gin engine serving the API.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	api := r.Group("/api")

	api.POST("/users/register", s.register)
	api.POST("/users/login", s.userLogin)

	api.POST("/admin/login", s.adminLogin)
	api.POST("/admin/add-admin", s.addAdminHandler)
	api.GET("/admin/all-admins", s.listAdmins)

	api.GET("/jobs", s.listJobs)
	api.GET("/jobs/:id", s.getJob)
	api.POST("/jobs", s.postJob)

	api.POST("/applications", s.apply)
	api.GET("/applications", s.listApplications)
	api.GET("/applications/:adhaar", s.userApplications)
	api.PUT("/applications/:id", s.updateApplication)

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "memory",
			"timestamp": now(),
		})
	})

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
	})
	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("devserver request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"request_id", c.GetHeader("X-Request-ID"),
			"duration", time.Since(start),
		)
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// AddJob stores a job as if an admin had posted it. Missing IDs, statuses
// and dates are filled in.
func (s *Server) AddJob(job models.Job) models.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = StatusActive
	}
	if job.PostedDate == "" {
		job.PostedDate = now()
	}
	if job.Requirements == nil {
		job.Requirements = []string{}
	}
	s.jobs = append(s.jobs, job)
	return job
}

func (s *Server) addAdmin(a models.Admin, password string) (models.Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Admin{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.findAdmin(a.AdminID); exists {
		return models.Admin{}, errAdminExists
	}
	s.admins = append(s.admins, adminRecord{admin: a, hash: hash})
	return a, nil
}

func (s *Server) findAdmin(id string) (adminRecord, bool) {
	for _, rec := range s.admins {
		if rec.admin.AdminID == id {
			return rec, true
		}
	}
	return adminRecord{}, false
}

// Users

func (s *Server) register(c *gin.Context) {
	var u models.User
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	if strings.TrimSpace(u.Adhaar) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Adhaar is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[u.Adhaar]; exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists with this Adhaar"})
		return
	}
	s.users[u.Adhaar] = u
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": u})
}

func (s *Server) userLogin(c *gin.Context) {
	var req struct {
		Adhaar string `json:"adhaar"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	s.mu.RLock()
	u, ok := s.users[req.Adhaar]
	s.mu.RUnlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// Admins

func (s *Server) adminLogin(c *gin.Context) {
	var req struct {
		ID       string `json:"id"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	s.mu.RLock()
	rec, ok := s.findAdmin(req.ID)
	s.mu.RUnlock()
	if !ok || bcrypt.CompareHashAndPassword(rec.hash, []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": gin.H{
		"id":    rec.admin.AdminID,
		"name":  rec.admin.Name,
		"role":  "admin",
		"email": rec.admin.Email,
	}})
}

func (s *Server) addAdminHandler(c *gin.Context) {
	var req struct {
		AdminID  string `json:"adminId"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	if req.AdminID == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Admin ID and password are required"})
		return
	}
	admin, err := s.addAdmin(models.Admin{AdminID: req.AdminID, Name: req.Name, Email: req.Email}, req.Password)
	if errors.Is(err, errAdminExists) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Admin added successfully", "admin": admin})
}

func (s *Server) listAdmins(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// Listed the way the backend stores them, without password hashes.
	out := make([]gin.H, 0, len(s.admins))
	for _, rec := range s.admins {
		out = append(out, gin.H{
			"admin_id": rec.admin.AdminID,
			"name":     rec.admin.Name,
			"email":    rec.admin.Email,
		})
	}
	c.JSON(http.StatusOK, out)
}

// Jobs

func (s *Server) listJobs(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Job{}
	for _, job := range s.jobs {
		if job.Status == StatusActive {
			out = append(out, job)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getJob(c *gin.Context) {
	id := c.Param("id")
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, job := range s.jobs {
		if job.ID == id {
			c.JSON(http.StatusOK, job)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
}

func (s *Server) postJob(c *gin.Context) {
	var job models.Job
	if err := c.ShouldBindJSON(&job); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	job.ID = ""
	job.Status = StatusActive
	job.PostedDate = ""
	job = s.AddJob(job)
	c.JSON(http.StatusCreated, gin.H{"message": "Job posted successfully", "job": job})
}

// Applications

func (s *Server) apply(c *gin.Context) {
	var req struct {
		JobID       string `json:"jobId"`
		Adhaar      string `json:"adhaar"`
		FullName    string `json:"fullName"`
		Email       string `json:"email"`
		Phone       string `json:"phone"`
		Experience  int    `json:"experience"`
		CoverLetter string `json:"coverLetter"`
		Resume      string `json:"resume"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	found := false
	for _, job := range s.jobs {
		if job.ID == req.JobID {
			found = true
			break
		}
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	app := models.Application{
		ID:             uuid.NewString(),
		JobID:          req.JobID,
		Adhaar:         req.Adhaar,
		FullName:       req.FullName,
		Email:          req.Email,
		Phone:          req.Phone,
		Experience:     req.Experience,
		CoverLetter:    req.CoverLetter,
		ResumeFileName: req.Resume,
		Status:         models.StatusPending,
		AppliedDate:    now(),
	}
	s.apps = append(s.apps, app)
	c.JSON(http.StatusCreated, gin.H{"message": "Application submitted", "application": app})
}

func (s *Server) listApplications(c *gin.Context) {
	status := c.Query("status")
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Application{}
	for _, app := range s.apps {
		if status == "" || string(app.Status) == status {
			out = append(out, app)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) userApplications(c *gin.Context) {
	adhaar := c.Param("adhaar")
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Application{}
	for _, app := range s.apps {
		if app.Adhaar == adhaar {
			out = append(out, app)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) updateApplication(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	status, err := models.ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.apps {
		if s.apps[i].ID == id {
			s.apps[i].Status = status
			c.JSON(http.StatusOK, gin.H{"message": "Application updated", "application": s.apps[i]})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
}
