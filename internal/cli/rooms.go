package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newRoomsCmd() *cobra.Command {
	var withMembers bool

	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "List active rooms on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := getRooms(flagServer)
			if err != nil {
				return err
			}

			if len(list.Rooms) == 0 {
				fmt.Println("no active rooms")
				return nil
			}

			fmt.Printf("%-20s %8s\n", "ROOM", "MEMBERS")
			for _, r := range list.Rooms {
				fmt.Printf("%-20s %8d\n", r.Name, r.Members)
				if withMembers {
					members, err := getMembers(flagServer, r.Name)
					if err != nil {
						return err
					}
					fmt.Printf("  %s\n", strings.Join(members.Members, ", "))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withMembers, "members", false, "also list display names per room")

	return cmd
}
