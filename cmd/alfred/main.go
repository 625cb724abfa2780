// Command alfred is the terminal frontend for the Alfred stack.
//
// It talks to two services: the backend (accounts and job history) and the
// AI agent service (prompt execution). Base URLs come from the environment:
//
//	ALFRED_API_URL  backend, default http://localhost:8080
//	ALFRED_AI_URL   agent service, default http://localhost:8000
//
// login and register store the session token under the user config dir;
// run and history read it from there.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alfred-agent/alfred/internal/client"
)

var (
	backend *client.Backend
	agent   *client.AI
)

var rootCmd = &cobra.Command{
	Use:   "alfred",
	Short: "Terminal client for the Alfred AI agent stack",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if os.Getenv("ENV") == "dev" {
			godotenv.Load()
		}
		backend = client.NewBackend(envOr("ALFRED_API_URL", "http://localhost:8080"))
		agent = client.NewAI(envOr("ALFRED_AI_URL", "http://localhost:8000"))
	},
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
