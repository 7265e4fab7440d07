package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"practica/internal/client"
	"practica/internal/identity"
	"practica/internal/models"
)

var piecesCmd = &cobra.Command{
	Use:   "pieces",
	Short: "Browse and manage the piece catalog",
}

var piecesSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the piece catalog",
	Run: func(cmd *cobra.Command, args []string) {
		api, _, _, err := newSession()
		if err != nil {
			logger.Fatal(err)
		}

		composer, _ := cmd.Flags().GetString("composer")
		title, _ := cmd.Flags().GetString("title")

		filter := client.PieceFilter{Composer: composer, Title: title}
		api.GetPieces(context.Background(), filter, func(pieces []models.Piece) {
			if len(pieces) == 0 {
				fmt.Println("No pieces found")
				return
			}
			for _, piece := range pieces {
				fmt.Printf("#%d  %s: %s\n", piece.PieceID, piece.Composer, piece.Title)
			}
		}, func(msg string) {
			logger.Error(msg)
		})
	},
}

var piecesAddCmd = &cobra.Command{
	Use:   "add <composer> <title>",
	Short: "Add a piece to the catalog",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		api, store, guard, err := newSession()
		if err != nil {
			logger.Fatal(err)
		}

		requireLogin(guard, store, "/pieces", func(_ identity.Identity) {
			api.CreatePiece(context.Background(), args[0], args[1], func(piece models.Piece) {
				logger.Infof("Added piece #%d %s: %s", piece.PieceID, piece.Composer, piece.Title)
			}, func(msg string) {
				reportAPIError(store, msg)
			})
		})
	},
}

var piecesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a piece from the catalog",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		api, _, _, err := newSession()
		if err != nil {
			logger.Fatal(err)
		}

		id, err := strconv.ParseInt(args[0], 10, 32)
		if err != nil {
			logger.Errorf("invalid piece id %q", args[0])
			return
		}

		api.DeletePiece(context.Background(), int32(id), func() {
			logger.Infof("Deleted piece #%d", id)
		}, func(msg string) {
			logger.Error(msg)
		})
	},
}

func init() {
	piecesSearchCmd.Flags().StringP("composer", "c", "", "Filter by composer (substring match)")
	piecesSearchCmd.Flags().StringP("title", "t", "", "Filter by title (substring match)")

	piecesCmd.AddCommand(piecesSearchCmd)
	piecesCmd.AddCommand(piecesAddCmd)
	piecesCmd.AddCommand(piecesDeleteCmd)
}
