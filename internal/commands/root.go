// Package commands wires the CLI surface: authentication, the piece catalog,
// and the interactive practice-session page.
package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"practica/internal/client"
	"practica/internal/identity"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var serverURL string

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
})

var rootCmd = &cobra.Command{
	Use:   "practica",
	Short: "Track your music practice sessions",
	Long: `practica is a practice tracker: keep a catalog of pieces, log practice
sessions, and record which pieces you worked on in each session.`,
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// newSession builds the shared API client, identity store, and guard for a
// command invocation. The identity file keeps commands aware of the logged-in
// user across invocations; the session cookie itself lives server-side.
func newSession() (*client.Client, *identity.Store, *identity.Guard, error) {
	api := client.New(serverURL)
	path, err := identity.DefaultPath()
	if err != nil {
		return nil, nil, nil, err
	}
	store := identity.NewStore(path, api)
	return api, store, identity.NewGuard(store), nil
}

// requireLogin runs the guard flow for a protected command: if nobody is
// logged in, it explains why, prompts for credentials, and then resumes the
// originally requested command.
func requireLogin(guard *identity.Guard, store *identity.Store, target string, run func(identity.Identity)) {
	id, ok := guard.Authorize(target)
	if ok {
		run(id)
		return
	}

	logger.Warn("You must log in to view that page")
	id, ok = promptLogin(store)
	if !ok {
		return
	}
	guard.Resume()
	run(id)
}

// reportAPIError logs a failed call. A 401 means the server dropped the
// session while the local identity still existed, so the identity is
// forgotten rather than left claiming a login that is gone.
func reportAPIError(store *identity.Store, msg string) {
	if strings.Contains(msg, "Unauthorized") {
		store.Forget()
		logger.Warn("Your session has expired, log in again with 'practica login'")
		return
	}
	logger.Error(msg)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("practica %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:5000", "Base URL of the practica server")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(createUserCmd)
	rootCmd.AddCommand(piecesCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(versionCmd)
}
