package cmd

import (
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show actions taken from this machine",
	Long:  "List registrations, applications and reviews submitted from this client, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		all, _ := cmd.Flags().GetBool("all")
		limit, _ := cmd.Flags().GetInt("limit")

		actor := ""
		if !all {
			_, sess, err := requireSession(cmd, "")
			if err != nil {
				return err
			}
			actor = sess.Actor()
		}

		entries, err := a.Repo.ListActivity(cmd.Context(), actor, limit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			cmd.Println("No activity recorded yet.")
			return nil
		}

		cmd.Println(titleStyle.Render("Activity"))
		for _, e := range entries {
			cmd.Printf("  %s  %s %s", mutedStyle.Render(e.CreatedAt.Local().Format("Jan 2 15:04")), labelStyle.Render(e.Action), e.Entity)
			if e.EntityID != "" {
				cmd.Printf(" %s", e.EntityID)
			}
			if all {
				cmd.Printf(" %s", mutedStyle.Render("by "+e.Actor))
			}
			cmd.Println()
			if e.Details != "" {
				cmd.Printf("      %s\n", e.Details)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Bool("all", false, "Include every identity that used this machine")
	historyCmd.Flags().Int("limit", 20, "Maximum entries to show")
}
