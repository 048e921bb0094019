package cmd

import (
	"errors"
	"fmt"

	"github.com/khrees2412/jobportal/internal/app"
	"github.com/khrees2412/jobportal/internal/dashboard"
	"github.com/spf13/cobra"
)

const clearScreen = "\033[H\033[2J"

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Live dashboard for the signed-in role",
	Long: `Show the candidate or administrator dashboard and keep it current by
polling the portal. Press Ctrl-C to exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		once, _ := cmd.Flags().GetBool("once")
		ctx := cmd.Context()

		c, err := dashboard.Mount(ctx, a.Sessions, a.Gateway, controllerOptions(a))
		if errors.Is(err, app.ErrNoSession) {
			return fmt.Errorf("%w: run 'jobportal login' first", err)
		}
		if err != nil {
			return err
		}
		defer c.Stop()

		// Keep only the newest frame when rendering falls behind.
		frames := make(chan dashboard.View, 1)
		c.Subscribe(func(v dashboard.View) {
			select {
			case frames <- v:
			default:
				select {
				case <-frames:
				default:
				}
				select {
				case frames <- v:
				default:
				}
			}
		})

		w := cmd.OutOrStdout()
		draw := func(v dashboard.View) {
			if !once {
				fmt.Fprint(w, clearScreen)
			}
			renderView(w, v)
			if !once {
				fmt.Fprintln(w, mutedStyle.Render("\nCtrl-C to exit"))
			}
		}
		first := c.View()
		if once && first.Phase != dashboard.PhaseLoading {
			draw(first)
			return nil
		}
		if !once {
			draw(first)
		}

		for {
			select {
			case <-ctx.Done():
				return nil
			case v := <-frames:
				draw(v)
				if once && v.Phase != dashboard.PhaseLoading {
					return nil
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().Bool("once", false, "Render the first loaded frame and exit")
}
