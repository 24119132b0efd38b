package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the events-mcp application
var rootCmd = &cobra.Command{
	Use:   "events-mcp",
	Short: "MCP server for managing events on Meetup and Luma",
	Long: `events-mcp is an MCP (Model Context Protocol) server that gives AI
assistants access to event management on Meetup.com and Luma: searching
and creating events, inspecting groups and their members, and managing
RSVPs and venues.

Meetup access uses OAuth; the server starts unauthenticated and completes
the login through a local callback endpoint when a tool first needs it.
Luma access uses an API key.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "events-mcp version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}
