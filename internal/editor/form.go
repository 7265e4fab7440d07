package editor

import (
	"context"

	"github.com/go-playground/validator/v10"

	"practica/internal/client"
	"practica/internal/models"
)

type FormState int

const (
	StateIdle FormState = iota
	StateSubmitting
	StateLinkingPieces
)

// SessionForm validates and submits the practice-session creation form, then
// drives the create-then-link sequence. The two phases are a best-effort
// saga: once the session exists, link failures are reported per call and the
// session is not rolled back.
type SessionForm struct {
	api    *client.Client
	editor *Editor

	StartDatetime string
	DurationMins  int
	Instrument    string

	state FormState
}

func NewSessionForm(api *client.Client, editor *Editor) *SessionForm {
	return &SessionForm{api: api, editor: editor}
}

func (f *SessionForm) State() FormState {
	return f.state
}

func (f *SessionForm) Editor() *Editor {
	return f.editor
}

var formValidate = validator.New()

type formValues struct {
	StartDatetime string `validate:"required,datetime=2006-01-02T15:04"`
	DurationMins  int    `validate:"required,gt=0"`
	Instrument    string `validate:"required"`
}

// Validate reports the first violation as a user-facing message, or "" when
// the form can be submitted.
func (f *SessionForm) Validate() string {
	err := formValidate.Struct(formValues{
		StartDatetime: f.StartDatetime,
		DurationMins:  f.DurationMins,
		Instrument:    f.Instrument,
	})
	if err == nil {
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

// Submit runs the full sequence: validate, create the session, link every
// selected piece to it, reset the form and editor, then re-fetch the session
// list for display. Validation failures abort before any network call. On a
// create failure all form state is left untouched so the user can resubmit.
// A submit while one is already in flight is ignored.
func (f *SessionForm) Submit(ctx context.Context, onSuccess func([]models.PracticeSessionWithPieces), onError func(string)) {
	if f.state != StateIdle {
		return
	}

	if msg := f.Validate(); msg != "" {
		onError(msg)
		return
	}

	f.state = StateSubmitting
	f.api.CreatePracticeSession(ctx, client.NewSessionInput{
		StartDatetime: f.StartDatetime,
		DurationMins:  f.DurationMins,
		Instrument:    f.Instrument,
	}, func(session models.PracticeSession) {
		f.state = StateLinkingPieces
		f.editor.CommitLinks(ctx, session.PracticeSessionID, nil, onError)

		f.StartDatetime = ""
		f.DurationMins = 0
		f.Instrument = ""
		f.editor.Reset()

		f.api.GetPracticeSessions(ctx, onSuccess, onError)
		f.state = StateIdle
	}, func(msg string) {
		f.state = StateIdle
		onError(msg)
	})
}
