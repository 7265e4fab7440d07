package models

type Piece struct {
	PieceID  int32  `json:"piece_id"`
	Title    string `json:"title"`
	Composer string `json:"composer"`
}

type NewPiece struct {
	Title    string `json:"title"`
	Composer string `json:"composer"`
}

// PiecePracticed links a piece to the practice session it was played in.
type PiecePracticed struct {
	PracticeSessionID int32 `json:"practice_session_id"`
	PieceID           int32 `json:"piece_id"`
}
