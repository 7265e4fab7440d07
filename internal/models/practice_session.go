package models

import (
	"github.com/go-playground/validator/v10"
)

type PracticeSession struct {
	PracticeSessionID int32    `json:"practice_session_id"`
	StartDatetime     Datetime `json:"start_datetime"`
	DurationMins      int32    `json:"duration_mins"`
	Instrument        string   `json:"instrument"`
	UserID            int32    `json:"user_id"`
}

// PracticeSessionWithPieces is the list-endpoint shape: a session joined with
// the pieces practiced in it.
type PracticeSessionWithPieces struct {
	PracticeSession
	PiecesPracticed []Piece `json:"pieces_practiced"`
}

type NewPracticeSession struct {
	StartDatetime string `json:"start_datetime" validate:"required"`
	DurationMins  int    `json:"duration_mins" validate:"required,gt=0"`
	Instrument    string `json:"instrument" validate:"required"`
}

var validate = validator.New()

// Validate reports the first violation as a user-facing message, or "" if the
// request is well formed. Messages match what the form surfaces to the user.
func (n NewPracticeSession) Validate() string {
	err := validate.Struct(n)
	if err == nil {
		if _, perr := ParseDatetime(n.StartDatetime); perr != nil {
			return "Invalid start datetime"
		}
		return ""
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return "Invalid practice session"
	}

	switch errs[0].Field() {
	case "StartDatetime":
		return "Invalid start datetime"
	case "DurationMins":
		return "Invalid duration"
	case "Instrument":
		return "Invalid instrument"
	default:
		return "Invalid practice session"
	}
}
