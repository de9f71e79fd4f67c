package models

// RankingList is an ordered candidate source for a position. Standard lists
// are maintained per instrument/section; project lists are ad-hoc and scoped
// to a single project.
type RankingList struct {
	BaseModel
	Name      string   `gorm:"not null" json:"name"`
	Kind      ListKind `gorm:"default:standard" json:"kind"`
	ProjectID *string  `gorm:"index" json:"project_id,omitempty"`
}

// RankingEntry places one musician on one list. Rank is unique within a list,
// dense but not required to be contiguous.
type RankingEntry struct {
	BaseModel
	ListID     string `gorm:"not null;index;uniqueIndex:idx_list_rank;uniqueIndex:idx_list_musician" json:"list_id"`
	MusicianID string `gorm:"not null;uniqueIndex:idx_list_musician" json:"musician_id"`
	Rank       int    `gorm:"not null;uniqueIndex:idx_list_rank" json:"rank"`

	Musician Musician `gorm:"foreignKey:MusicianID" json:"musician,omitempty"`
}
