package cli

import (
	"github.com/akolanti/StudyAPI/internal/mcpServer"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the study tools over MCP on stdio",
	Long: `Starts a Model Context Protocol server on stdin/stdout with the tools
list_courses, list_units, get_questions and regenerate_questions.

Example client configuration:
  {
    "mcpServers": {
      "study": {
        "command": "/path/to/studyctl",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, err := serviceFor(cmd, true)
		if err != nil {
			return err
		}
		return mcpServer.NewServer(svc).Run(cmd.Context())
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
