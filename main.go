// Package main is the entry point for the Brackenhold MUD server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "brackenhold",
	Short: "Brackenhold MUD server",
	Long:  `Brackenhold serves a text world over telnet and websockets, with rooms, items, doors and talking NPCs.`,

	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "brackenhold.yaml", "server configuration file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(snapshotsCmd)
}
