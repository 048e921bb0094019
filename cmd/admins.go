package cmd

import (
	"github.com/khrees2412/jobportal/internal/forms"
	"github.com/khrees2412/jobportal/pkg/models"
	"github.com/spf13/cobra"
)

var adminsCmd = &cobra.Command{
	Use:   "admins",
	Short: "Manage administrator accounts",
}

var listAdminsCmd = &cobra.Command{
	Use:   "list",
	Short: "List administrators",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, c, err := loadDashboard(cmd, models.RoleAdmin)
		if err != nil {
			return err
		}
		admins := c.View().Admin.Admins
		cmd.Println(titleStyle.Render("Administrators"))
		for _, a := range admins {
			cmd.Printf("  • %s %s", a.Name, mutedStyle.Render("("+a.AdminID+")"))
			if a.Email != "" {
				cmd.Printf("  %s", a.Email)
			}
			cmd.Println()
		}
		cmd.Printf("\n%s %d\n", labelStyle.Render("Total:"), len(admins))
		return nil
	},
}

var addAdminCmd = &cobra.Command{
	Use:     "add",
	Short:   "Add an administrator",
	Example: `  jobportal admins add --id hod-physics --name "R. Iyer" --email iyer@example.edu`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, c, err := loadDashboard(cmd, models.RoleAdmin)
		if err != nil {
			return err
		}
		form := forms.NewAdmin{}
		form.AdminID, _ = cmd.Flags().GetString("id")
		form.Name, _ = cmd.Flags().GetString("name")
		form.Email, _ = cmd.Flags().GetString("email")
		form.Password, _ = cmd.Flags().GetString("password")

		p := newPrompter(cmd)
		p.fill("Admin ID", &form.AdminID)
		p.fill("Name", &form.Name)
		p.fill("Email", &form.Email)
		p.fill("Password (min 6 characters)", &form.Password)
		cmd.Printf("%s %s\n", labelStyle.Render("Password strength:"), renderStrength(forms.PasswordStrength(form.Password)))

		admin, err := c.AddAdmin(cmd.Context(), form)
		if err != nil {
			return reportInvalid(cmd, err)
		}
		cmd.Printf("✓ Administrator added: %s (%s)\n", admin.Name, admin.AdminID)
		return nil
	},
}

func renderStrength(s forms.Strength) string {
	switch s {
	case forms.StrengthStrong:
		return eligibleStyle.Render(string(s))
	case forms.StrengthMedium:
		return statusStyles[models.StatusPending].Render(string(s))
	default:
		return notEligibleStyle.Render(string(s))
	}
}

func init() {
	rootCmd.AddCommand(adminsCmd)
	adminsCmd.AddCommand(listAdminsCmd)
	adminsCmd.AddCommand(addAdminCmd)

	addAdminCmd.Flags().String("id", "", "Admin ID")
	addAdminCmd.Flags().String("name", "", "Full name")
	addAdminCmd.Flags().String("email", "", "Email address")
	addAdminCmd.Flags().String("password", "", "Password")
}
