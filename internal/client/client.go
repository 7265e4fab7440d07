// Package client wraps the practice-tracker REST API. Every call reports its
// outcome through callbacks: transport failures, decode failures, and
// server-reported failures all arrive on the error callback as a
// human-readable message, never as a panic or a leaked error.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"practica/internal/models"
)

type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for the given server. The cookie jar carries the
// session credential on every subsequent call once login has succeeded.
func New(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar},
	}
}

// NewWithHTTPClient is for callers that need to supply their own transport.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

const sessionCookieName = "practica_session"

// SessionCredential returns the session cookie value currently held in the
// jar, or "" when there is none. Callers persist this across processes.
func (c *Client) SessionCredential() string {
	if c.http.Jar == nil {
		return ""
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	for _, cookie := range c.http.Jar.Cookies(u) {
		if cookie.Name == sessionCookieName {
			return cookie.Value
		}
	}
	return ""
}

// SetSessionCredential seeds the jar with a previously issued session cookie,
// as if the server had just set it.
func (c *Client) SetSessionCredential(value string) {
	if c.http.Jar == nil || value == "" {
		return
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return
	}
	c.http.Jar.SetCookies(u, []*http.Cookie{{
		Name:  sessionCookieName,
		Value: value,
		Path:  "/",
	}})
}

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// PieceFilter narrows a piece search; empty fields are omitted from the query.
type PieceFilter struct {
	Composer string
	Title    string
}

// IsEmpty reports whether the filter matches nothing in particular.
func (f PieceFilter) IsEmpty() bool {
	return f.Composer == "" && f.Title == ""
}

func (f PieceFilter) query() string {
	q := url.Values{}
	if f.Composer != "" {
		q.Set("composer", f.Composer)
	}
	if f.Title != "" {
		q.Set("title", f.Title)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// NewSessionInput is the create-session form payload. StartDatetime carries
// minutes precision ("2006-01-02T15:04"); the client pads the seconds before
// sending.
type NewSessionInput struct {
	StartDatetime string
	DurationMins  int
	Instrument    string
}

func (c *Client) Login(ctx context.Context, userName, password string, onSuccess func(userID int32, userName string), onError func(string)) {
	var res struct {
		envelope
		UserID   int32  `json:"user_id"`
		UserName string `json:"user_name"`
	}
	body := models.Credentials{UserName: userName, Password: password}
	if err := c.post(ctx, "/api/login", body, &res); err != nil {
		onError(err.Error())
		return
	}
	onSuccess(res.UserID, res.UserName)
}

func (c *Client) Logout(ctx context.Context, onSuccess func(), onError func(string)) {
	var res envelope
	if err := c.get(ctx, "/api/logout", &res); err != nil {
		onError(err.Error())
		return
	}
	onSuccess()
}

func (c *Client) CreateUser(ctx context.Context, userName, password string, onSuccess func(models.User), onError func(string)) {
	var res struct {
		envelope
		User models.User `json:"user"`
	}
	body := models.Credentials{UserName: userName, Password: password}
	if err := c.post(ctx, "/api/create_user", body, &res); err != nil {
		onError(err.Error())
		return
	}
	onSuccess(res.User)
}

func (c *Client) GetPieces(ctx context.Context, filter PieceFilter, onSuccess func([]models.Piece), onError func(string)) {
	var res struct {
		envelope
		Pieces []models.Piece `json:"pieces"`
	}
	if err := c.get(ctx, "/api/get_pieces"+filter.query(), &res); err != nil {
		onError("Error fetching pieces: " + err.Error())
		return
	}
	onSuccess(res.Pieces)
}

func (c *Client) CreatePiece(ctx context.Context, composer, title string, onSuccess func(models.Piece), onError func(string)) {
	var res struct {
		envelope
		Piece models.Piece `json:"piece"`
	}
	body := models.NewPiece{Title: title, Composer: composer}
	if err := c.post(ctx, "/api/create_piece", body, &res); err != nil {
		onError("Failed to add piece: " + err.Error())
		return
	}
	onSuccess(res.Piece)
}

func (c *Client) GetPracticeSessions(ctx context.Context, onSuccess func([]models.PracticeSessionWithPieces), onError func(string)) {
	var res struct {
		envelope
		PracticeSessions []models.PracticeSessionWithPieces `json:"practice_sessions"`
	}
	if err := c.get(ctx, "/api/get_practice_sessions", &res); err != nil {
		onError("Error fetching practice sessions: " + err.Error())
		return
	}
	onSuccess(res.PracticeSessions)
}

func (c *Client) CreatePracticeSession(ctx context.Context, input NewSessionInput, onSuccess func(models.PracticeSession), onError func(string)) {
	var res struct {
		envelope
		PracticeSession models.PracticeSession `json:"practice_session"`
	}
	body := models.NewPracticeSession{
		// The form carries minutes precision; the wire format wants seconds.
		StartDatetime: input.StartDatetime + ":00",
		DurationMins:  input.DurationMins,
		Instrument:    input.Instrument,
	}
	if err := c.post(ctx, "/api/create_practice_session", body, &res); err != nil {
		onError("Failed to add practice session: " + err.Error())
		return
	}
	onSuccess(res.PracticeSession)
}

func (c *Client) CreatePiecePracticed(ctx context.Context, practiceSessionID, pieceID int32, onSuccess func(models.PiecePracticed), onError func(string)) {
	var res struct {
		envelope
		PiecePracticed models.PiecePracticed `json:"piece_practiced"`
	}
	body := models.PiecePracticed{PracticeSessionID: practiceSessionID, PieceID: pieceID}
	if err := c.post(ctx, "/api/create_piece_practiced", body, &res); err != nil {
		onError("Failed to add piece practiced mapping: " + err.Error())
		return
	}
	onSuccess(res.PiecePracticed)
}

func (c *Client) DeletePiece(ctx context.Context, pieceID int32, onSuccess func(), onError func(string)) {
	var res envelope
	path := fmt.Sprintf("/api/delete_piece/%d", pieceID)
	if err := c.delete(ctx, path, &res); err != nil {
		onError("Failed to delete piece: " + err.Error())
		return
	}
	onSuccess()
}

func (c *Client) DeletePiecePracticed(ctx context.Context, practiceSessionID, pieceID int32, onSuccess func(), onError func(string)) {
	var res envelope
	path := fmt.Sprintf("/api/delete_piece_practiced/%d/%d", practiceSessionID, pieceID)
	if err := c.delete(ctx, path, &res); err != nil {
		onError("Failed to delete piece practiced mapping: " + err.Error())
		return
	}
	onSuccess()
}

func (c *Client) DeletePracticeSession(ctx context.Context, practiceSessionID int32, onSuccess func(), onError func(string)) {
	var res envelope
	path := fmt.Sprintf("/api/delete_practice_session/%d", practiceSessionID)
	if err := c.delete(ctx, path, &res); err != nil {
		onError("Failed to delete practice session: " + err.Error())
		return
	}
	onSuccess()
}

func (c *Client) get(ctx context.Context, path string, out successReporter) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out successReporter) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string, out successReporter) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

// successReporter is implemented by every response struct via the embedded
// envelope.
type successReporter interface {
	reportedSuccess() (bool, string)
}

func (e envelope) reportedSuccess() (bool, string) { return e.Success, e.Error }

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out successReporter) error {
	var reqBody *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if ok, msg := out.reportedSuccess(); !ok {
		if msg == "" {
			msg = "request was not successful"
		}
		return errors.New(msg)
	}
	return nil
}
