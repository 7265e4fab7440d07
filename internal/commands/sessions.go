package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"practica/internal/identity"
	"practica/internal/models"
	"practica/internal/tui"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "View and record practice sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your practice sessions",
	Run: func(cmd *cobra.Command, args []string) {
		api, store, guard, err := newSession()
		if err != nil {
			logger.Fatal(err)
		}

		requireLogin(guard, store, "/practice-sessions", func(_ identity.Identity) {
			api.GetPracticeSessions(context.Background(), func(sessions []models.PracticeSessionWithPieces) {
				if len(sessions) == 0 {
					fmt.Println("No practice sessions recorded yet")
					return
				}
				for _, session := range sessions {
					fmt.Printf("#%d  %s  %s for %d mins\n",
						session.PracticeSessionID, session.StartDatetime, session.Instrument, session.DurationMins)
					for _, piece := range session.PiecesPracticed {
						fmt.Printf("      %s: %s\n", piece.Composer, piece.Title)
					}
				}
			}, func(msg string) {
				reportAPIError(store, msg)
			})
		})
	},
}

var sessionsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a practice session interactively",
	Run: func(cmd *cobra.Command, args []string) {
		api, store, guard, err := newSession()
		if err != nil {
			logger.Fatal(err)
		}

		requireLogin(guard, store, "/practice-sessions", func(_ identity.Identity) {
			if err := tui.RunSessionTUI(api); err != nil {
				logger.Error("failed to run session editor", "err", err)
			}
		})
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a practice session and its piece links",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		api, store, guard, err := newSession()
		if err != nil {
			logger.Fatal(err)
		}

		id, err := strconv.ParseInt(args[0], 10, 32)
		if err != nil {
			logger.Errorf("invalid practice session id %q", args[0])
			return
		}

		requireLogin(guard, store, "/practice-sessions", func(_ identity.Identity) {
			api.DeletePracticeSession(context.Background(), int32(id), func() {
				logger.Infof("Deleted practice session #%d", id)
			}, func(msg string) {
				reportAPIError(store, msg)
			})
		})
	},
}

var sessionsUnlinkCmd = &cobra.Command{
	Use:   "unlink <session-id> <piece-id>",
	Short: "Remove a piece from a practice session",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		api, store, guard, err := newSession()
		if err != nil {
			logger.Fatal(err)
		}

		sessionID, err := strconv.ParseInt(args[0], 10, 32)
		if err != nil {
			logger.Errorf("invalid practice session id %q", args[0])
			return
		}
		pieceID, err := strconv.ParseInt(args[1], 10, 32)
		if err != nil {
			logger.Errorf("invalid piece id %q", args[1])
			return
		}

		requireLogin(guard, store, "/practice-sessions", func(_ identity.Identity) {
			api.DeletePiecePracticed(context.Background(), int32(sessionID), int32(pieceID), func() {
				logger.Infof("Removed piece #%d from practice session #%d", pieceID, sessionID)
			}, func(msg string) {
				reportAPIError(store, msg)
			})
		})
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsAddCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsUnlinkCmd)
}
