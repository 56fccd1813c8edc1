// Command candidate_mcp exposes the candidate query parser and ranker as MCP
// tools over stdio.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/gcbaptista/candidate-search/internal/logging"
	"github.com/gcbaptista/candidate-search/internal/terms"
)

func main() {
	// stdout carries the protocol, so logs go to stderr
	if err := logging.Configure(logrus.StandardLogger(), envOr("LOG_LEVEL", "info"), "json", os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}

	dict := terms.Default()
	if file := os.Getenv("TERMS_FILE"); file != "" {
		loaded, err := terms.LoadFile(file)
		if err != nil {
			logrus.WithError(err).WithField("file", file).Fatal("failed to load terms")
		}
		dict = loaded
	}

	s := server.NewMCPServer("candidate-search", "1.0.0")
	tools := &toolset{dict: dict}
	tools.register(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}
