package cli

import (
	"fmt"
	"os"

	"github.com/guiyumin/ytdlp-api/internal/core/config"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create ytdlp-api config file with defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		if configPath == "" && !initForce {
			if err := config.Init(); err != nil {
				return err
			}
			fmt.Printf("Saved %s\n", config.SavePath())
			return nil
		}

		path := configPath
		if path == "" {
			path = config.SavePath()
		}

		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		if err := config.SaveTo(config.DefaultConfig(), path); err != nil {
			return err
		}

		fmt.Printf("Saved %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
