package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"practica/internal/identity"
	"practica/internal/models"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the server",
	Run: func(cmd *cobra.Command, args []string) {
		_, store, _, err := newSession()
		if err != nil {
			logger.Fatal(err)
		}

		if id, ok := store.Current(); ok {
			logger.Warnf("Already logged in as %s, log out first", id.UserName)
			return
		}

		promptLogin(store)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the saved identity",
	Run: func(cmd *cobra.Command, args []string) {
		_, store, _, err := newSession()
		if err != nil {
			logger.Fatal(err)
		}

		store.Logout(context.Background(), func() {
			logger.Info("Logged out")
		}, func(msg string) {
			logger.Error(msg)
		})
	},
}

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Register a new account",
	Run: func(cmd *cobra.Command, args []string) {
		api, store, _, err := newSession()
		if err != nil {
			logger.Fatal(err)
		}

		if id, ok := store.Current(); ok {
			logger.Warnf("Cannot create a new user while logged in as %s", id.UserName)
			return
		}

		userName, password, ok := promptCredentials()
		if !ok {
			return
		}

		api.CreateUser(context.Background(), userName, password, func(user models.User) {
			logger.Infof("Created user %s (id %d), you can now log in", user.UserName, user.UserID)
		}, func(msg string) {
			logger.Error(msg)
		})
	},
}

// promptLogin asks for credentials and logs in through the store. It reports
// whether a login happened.
func promptLogin(store *identity.Store) (identity.Identity, bool) {
	userName, password, ok := promptCredentials()
	if !ok {
		return identity.Identity{}, false
	}

	var id identity.Identity
	loggedIn := false
	store.Login(context.Background(), userName, password, func(got identity.Identity) {
		id = got
		loggedIn = true
		logger.Infof("Logged in as %s", got.UserName)
	}, func(msg string) {
		logger.Error(msg)
	})
	return id, loggedIn
}

func promptCredentials() (string, string, bool) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Username: ")
	userName, err := reader.ReadString('\n')
	if err != nil {
		logger.Error("failed to read username", "err", err)
		return "", "", false
	}
	userName = strings.TrimSpace(userName)

	fmt.Print("Password: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		logger.Error("failed to read password", "err", err)
		return "", "", false
	}

	return userName, string(raw), true
}
