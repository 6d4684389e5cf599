package main

import (
	"fmt"
	"os"

	"github.com/ludo-technologies/jscan/internal/logging"
	"github.com/ludo-technologies/jscan/internal/version"
	"github.com/ludo-technologies/jscan/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/pflag"
)

const serverName = "jscan"

func main() {
	flags := pflag.NewFlagSet(serverName+"-mcp", pflag.ExitOnError)
	configPath := flags.StringP("config", "c", "", "Configuration file (default: .jscan.toml discovered per request)")
	verbose := flags.BoolP("verbose", "v", false, "Enable verbose logging")
	_ = flags.Parse(os.Args[1:])

	// MCP uses stdout for JSON-RPC, so logs go to stderr
	logger := logging.New(os.Stderr, *verbose, false)

	server := mcpserver.NewMCPServer(
		serverName,
		version.Short(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)

	handlers := mcp.NewHandlerSet(mcp.NewDependencies(*configPath, logger))
	mcp.RegisterTools(server, handlers)

	logger.Info().
		Str("version", version.Short()).
		Strs("tools", []string{"cluster_functions"}).
		Msg("MCP server ready, waiting for client connection")

	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
