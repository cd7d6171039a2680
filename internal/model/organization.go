package model

// swagger:model Organization
type Organization struct {
	BaseModel
	Name        string `gorm:"size:150;unique;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Disabled    bool   `gorm:"default:false" json:"disabled"`
}

func (Organization) TableName() string {
	return "organizations"
}
