package models

type Musician struct {
	BaseModel
	Name          string         `gorm:"not null" json:"name"`
	Email         string         `gorm:"uniqueIndex;not null" json:"email"`
	Instrument    string         `json:"instrument"`
	Status        MusicianStatus `gorm:"default:active;index" json:"status"`
	LocalResident bool           `gorm:"default:false" json:"local_resident"`
}

type Project struct {
	BaseModel
	Name   string        `gorm:"not null" json:"name"`
	Status ProjectStatus `gorm:"default:active" json:"status"`
}
