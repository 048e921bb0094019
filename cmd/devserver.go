package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/khrees2412/jobportal/internal/app"
	"github.com/khrees2412/jobportal/internal/devserver"
	"github.com/khrees2412/jobportal/pkg/models"
	"github.com/spf13/cobra"
)

var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Run an in-memory portal backend for local use",
	Long: `Serve the portal API from memory. Data is lost on exit. Point the
client at it with api_base_url (the default matches --addr :5000).`,
	Example: `  jobportal devserver --admin-id root --admin-password secret1 --demo`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = a.Config.DevServerAddr
		}
		seed := devserver.SeedAdmin{}
		seed.ID, _ = cmd.Flags().GetString("admin-id")
		seed.Name, _ = cmd.Flags().GetString("admin-name")
		seed.Email, _ = cmd.Flags().GetString("admin-email")
		seed.Password, _ = cmd.Flags().GetString("admin-password")
		demo, _ := cmd.Flags().GetBool("demo")

		level := "info"
		if a.Config.LogLevel == "debug" {
			level = "debug"
		} else {
			gin.SetMode(gin.ReleaseMode)
		}
		logger := app.NewLogger(level).With("component", "devserver")

		srv, err := devserver.New(logger, seed)
		if err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}
		if demo {
			for _, job := range demoJobs(seed.ID) {
				srv.AddJob(job)
			}
		}

		httpServer := &http.Server{
			Addr:              addr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- httpServer.ListenAndServe()
		}()
		cmd.Printf("✓ Dev server listening on %s (admin %s)\n", addr, seed.ID)

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-cmd.Context().Done():
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		cmd.Println("Shutting down...")
		return httpServer.Shutdown(ctx)
	},
}

func demoJobs(postedBy string) []models.Job {
	return []models.Job{
		{
			Title:            "Assistant Professor, Physics",
			Department:       "Physics",
			Location:         "Pune",
			Salary:           "₹80,000/month",
			MinQualification: models.QualMSc,
			MaxQualification: models.QualPhD,
			Description:      "Teach undergraduate mechanics and run the optics lab.",
			Requirements:     []string{"NET/SET qualified", "Two years of teaching"},
			PostedBy:         postedBy,
		},
		{
			Title:            "Lab Instructor, Computer Science",
			Department:       "Computer Science",
			Location:         "Nagpur",
			Salary:           "₹35,000/month",
			MinQualification: models.QualDiploma,
			MaxQualification: models.QualMTech,
			Description:      "Supervise programming labs and maintain lab machines.",
			Requirements:     []string{"Working knowledge of Linux"},
			PostedBy:         postedBy,
		},
		{
			Title:            "Lecturer, Mathematics",
			Department:       "Mathematics",
			Location:         "Mumbai",
			Salary:           "₹60,000/month",
			MinQualification: models.QualBSc,
			MaxQualification: models.QualMSc,
			Description:      "Teach first-year calculus and linear algebra.",
			Requirements:     []string{},
			PostedBy:         postedBy,
		},
	}
}

func init() {
	rootCmd.AddCommand(devserverCmd)
	devserverCmd.Flags().String("addr", "", "Listen address (defaults to devserver_addr)")
	devserverCmd.Flags().String("admin-id", "admin", "Seed administrator ID")
	devserverCmd.Flags().String("admin-name", "Administrator", "Seed administrator name")
	devserverCmd.Flags().String("admin-email", "admin@example.com", "Seed administrator email")
	devserverCmd.Flags().String("admin-password", "admin123", "Seed administrator password")
	devserverCmd.Flags().Bool("demo", false, "Load sample jobs")
}
