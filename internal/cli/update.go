package cli

import (
	"fmt"

	"github.com/guiyumin/ytdlp-api/internal/updater"
	"github.com/spf13/cobra"
)

var updateCheck bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update ytdlp-api to the latest release",
	RunE: func(cmd *cobra.Command, args []string) error {
		if updateCheck {
			latest, newer, err := updater.CheckUpdate(cmd.Context())
			if err != nil {
				return err
			}
			if !newer {
				fmt.Println("Already up to date")
				return nil
			}
			fmt.Printf("New version available: %s\n", latest.Version())
			return nil
		}
		return updater.Update(cmd.Context())
	},
}

func init() {
	updateCmd.Flags().BoolVar(&updateCheck, "check", false, "only check whether a newer release exists")
	rootCmd.AddCommand(updateCmd)
}
