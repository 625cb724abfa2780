package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfred-agent/alfred/internal/client"
)

var (
	flagEmail    string
	flagPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := backend.Register(cmd.Context(), flagEmail, flagPassword)
		if err != nil {
			return err
		}
		if err := saveSession(session); err != nil {
			return err
		}
		fmt.Printf("Registered and logged in as %s (user %s)\n", session.Email, session.UserID)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with an existing account",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := backend.Login(cmd.Context(), flagEmail, flagPassword)
		if err != nil {
			return err
		}
		if err := saveSession(session); err != nil {
			return err
		}
		fmt.Printf("Logged in as %s (token valid for %ds)\n", session.Email, session.ExpiresIn)
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run <prompt>",
	Short: "Submit a prompt to the AI agent and print the result",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// The token is optional for the agent service, so a missing
		// session isn't fatal — the run just won't be attributed.
		token := ""
		if session, err := loadSession(); err == nil {
			token = session.Token
		}

		prompt := strings.Join(args, " ")
		res, err := agent.RunAgent(cmd.Context(), prompt, token)
		if err != nil {
			return err
		}

		fmt.Println(res.Result)
		if res.JobID != "" {
			fmt.Printf("(job %s)\n", res.JobID)
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show your past jobs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := loadSession()
		if err != nil {
			return err
		}

		hist, err := backend.History(cmd.Context(), session.Token)
		if err != nil {
			var apiErr *client.APIError
			if errors.As(err, &apiErr) && apiErr.Status == 401 {
				return errors.New("session expired — run `alfred login` again")
			}
			return err
		}

		if hist.Total == 0 {
			fmt.Println("No jobs yet.")
			return nil
		}

		fmt.Printf("%d job(s):\n\n", hist.Total)
		for _, job := range hist.Jobs {
			fmt.Printf("[%s] %s  %s\n", job.Status, job.CreatedAt.Local().Format("2006-01-02 15:04"), job.Prompt)
			if job.Result != nil {
				fmt.Printf("    %s\n", firstLine(*job.Result))
			}
		}
		return nil
	},
}

// firstLine truncates a result to its first line for the list view.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}

func init() {
	for _, cmd := range []*cobra.Command{registerCmd, loginCmd} {
		cmd.Flags().StringVarP(&flagEmail, "email", "e", "", "account email")
		cmd.Flags().StringVarP(&flagPassword, "password", "p", "", "account password")
		cmd.MarkFlagRequired("email")
		cmd.MarkFlagRequired("password")
	}

	rootCmd.AddCommand(registerCmd, loginCmd, runCmd, historyCmd)
}
