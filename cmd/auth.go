package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/khrees2412/jobportal/internal/app"
	"github.com/khrees2412/jobportal/internal/dashboard"
	"github.com/khrees2412/jobportal/internal/forms"
	"github.com/khrees2412/jobportal/internal/session"
	"github.com/khrees2412/jobportal/pkg/models"
	"github.com/spf13/cobra"
)

func newAuth(a *app.App) *dashboard.Auth {
	return &dashboard.Auth{Gateway: a.Gateway, Store: a.Sessions, Recorder: a.Repo, Logger: a.Logger}
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in as a candidate or an administrator",
}

var loginUserCmd = &cobra.Command{
	Use:     "user",
	Short:   "Sign in as a candidate with your Adhaar number",
	Example: `  jobportal login user --adhaar 123412341234`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		form := forms.UserLogin{}
		form.Adhaar, _ = cmd.Flags().GetString("adhaar")
		newPrompter(cmd).fill("Adhaar Number", &form.Adhaar)

		sess, err := newAuth(a).LoginUser(cmd.Context(), form)
		if err != nil {
			return reportInvalid(cmd, err)
		}
		cmd.Printf("✓ Welcome back, %s\n", sess.DisplayName())
		return nil
	},
}

var loginAdminCmd = &cobra.Command{
	Use:     "admin",
	Short:   "Sign in as an administrator",
	Example: `  jobportal login admin --id root --password secret`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		form := forms.AdminLogin{}
		form.ID, _ = cmd.Flags().GetString("id")
		form.Password, _ = cmd.Flags().GetString("password")
		p := newPrompter(cmd)
		p.fill("Admin ID", &form.ID)
		p.fill("Password", &form.Password)

		sess, err := newAuth(a).LoginAdmin(cmd.Context(), form)
		if err != nil {
			return reportInvalid(cmd, err)
		}
		cmd.Printf("✓ Signed in as administrator %s\n", sess.DisplayName())
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a candidate account and sign in",
	Long: `Create a candidate account. Missing fields are asked for interactively.

Qualifications, lowest to highest:
  ` + qualificationList(),
	Example: `  jobportal register --adhaar 123412341234 --name "Asha Rao" --email asha@example.com \
    --qualification M.Sc --phone 9876543210 --experience 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		form := forms.Registration{}
		form.Adhaar, _ = cmd.Flags().GetString("adhaar")
		form.Name, _ = cmd.Flags().GetString("name")
		form.Email, _ = cmd.Flags().GetString("email")
		form.Qualification, _ = cmd.Flags().GetString("qualification")
		form.Phone, _ = cmd.Flags().GetString("phone")
		if cmd.Flags().Changed("experience") {
			exp, _ := cmd.Flags().GetInt("experience")
			form.Experience = strconv.Itoa(exp)
		}

		p := newPrompter(cmd)
		p.fill("Adhaar Number (12 digits)", &form.Adhaar)
		p.fill("Full Name", &form.Name)
		p.fill("Email", &form.Email)
		p.fill("Qualification", &form.Qualification)
		if !cmd.Flags().Changed("phone") {
			form.Phone = p.ask("Phone (10 digits, optional)")
		}
		p.fill("Years of Experience", &form.Experience)

		sess, err := newAuth(a).Register(cmd.Context(), form)
		if err != nil {
			return reportInvalid(cmd, err)
		}
		cmd.Printf("✓ Registered and signed in as %s\n", sess.DisplayName())
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored login",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if err := newAuth(a).Logout(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		cmd.Println("✓ Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, sess, err := requireSession(cmd, "")
		if err != nil {
			return err
		}
		printIdentity(cmd, sess)
		return nil
	},
}

func printIdentity(cmd *cobra.Command, sess session.Session) {
	w := cmd.OutOrStdout()
	cmd.Println(titleStyle.Render(titleCaser.String(string(sess.Role)) + " Profile"))
	switch sess.Role {
	case models.RoleUser:
		u := sess.User
		field(w, "", "Name", u.Name)
		field(w, "", "Adhaar", u.Adhaar)
		field(w, "", "Email", u.Email)
		field(w, "", "Qualification", string(u.Qualification))
		field(w, "", "Phone", u.Phone)
		field(w, "", "Experience", fmt.Sprintf("%d years", u.Experience))
	case models.RoleAdmin:
		field(w, "", "Name", sess.Admin.Name)
		field(w, "", "Admin ID", sess.Admin.AdminID)
		field(w, "", "Email", sess.Admin.Email)
	}
}

func qualificationList() string {
	names := make([]string, len(models.Qualifications))
	for i, q := range models.Qualifications {
		names[i] = string(q)
	}
	return strings.Join(names, ", ")
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.AddCommand(loginUserCmd)
	loginCmd.AddCommand(loginAdminCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	loginUserCmd.Flags().String("adhaar", "", "12-digit Adhaar number")
	loginAdminCmd.Flags().String("id", "", "Admin ID")
	loginAdminCmd.Flags().String("password", "", "Admin password")

	registerCmd.Flags().String("adhaar", "", "12-digit Adhaar number")
	registerCmd.Flags().String("name", "", "Full name")
	registerCmd.Flags().String("email", "", "Email address")
	registerCmd.Flags().String("qualification", "", "Highest qualification")
	registerCmd.Flags().String("phone", "", "10-digit phone number")
	registerCmd.Flags().Int("experience", 0, "Years of experience")
}
