package dto

// ConflictEntry is one need's claim on a shared musician.
type ConflictEntry struct {
	NeedID   string `json:"need_id"`
	Position string `json:"position"`
	Quantity int    `json:"quantity"`
	Rank     int    `json:"rank"`
}

// ConflictRecord reports a musician ranked on two or more needs of the same
// project. Advisory only; nothing is blocked.
type ConflictRecord struct {
	MusicianID   string          `json:"musician_id"`
	MusicianName string          `json:"musician_name"`
	Entries      []ConflictEntry `json:"entries"`
}
