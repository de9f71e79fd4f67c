package models

// Need identifies a position to fill within a project.
//
// Strategy invariants, enforced at creation time:
//
//	sequential  => Quantity == 1
//	parallel    => Quantity >= 2
//	first_come  => MaxRecipients == nil || *MaxRecipients >= Quantity
type Need struct {
	BaseModel
	ProjectID         string       `gorm:"not null;index" json:"project_id"`
	Position          string       `gorm:"not null" json:"position"`
	ListID            string       `gorm:"not null" json:"list_id"`
	Quantity          int          `gorm:"not null" json:"quantity"`
	Strategy          NeedStrategy `gorm:"not null" json:"strategy"`
	MaxRecipients     *int         `json:"max_recipients,omitempty"`
	ResponseTimeHours int          `gorm:"default:24" json:"response_time_hours"`
	RequireLocal      bool         `gorm:"default:false" json:"require_local"`
	Status            NeedStatus   `gorm:"default:active;index" json:"status"`

	Project Project     `gorm:"foreignKey:ProjectID" json:"-"`
	List    RankingList `gorm:"foreignKey:ListID" json:"-"`
}
