// Package cli wires the roomcast commands: the server itself plus small
// client tools for chatting and inspecting a running instance.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagServer string
	flagRoom   string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "roomcast",
		Short: "Real-time room-broadcast hub and client tools",
	}

	root.PersistentFlags().StringVarP(&flagServer, "server", "s", envOrDefault("ROOMCAST_SERVER", "http://localhost:8080"), "server URL")
	root.PersistentFlags().StringVarP(&flagRoom, "room", "r", envOrDefault("ROOMCAST_ROOM", "main"), "room name")

	root.AddCommand(
		newServeCmd(),
		newChatCmd(),
		newRoomsCmd(),
		newHealthCmd(),
	)

	return root
}

// Execute runs the CLI.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
