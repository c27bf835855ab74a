package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			health, err := getHealth(flagServer)
			if err != nil {
				return err
			}
			fmt.Printf("status: %s  uptime: %s  rooms: %d\n", health.Status, health.Uptime, health.Rooms)
			return nil
		},
	}
}
