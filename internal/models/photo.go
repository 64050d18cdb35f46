package models

// Photo represents an image of a cat. At most one photo per cat is the cover.
type Photo struct {
	Base
	CatID    uint    `gorm:"not null;index" json:"catId"`
	URL      string  `gorm:"size:1024;not null" json:"url"`
	PublicID *string `gorm:"size:255" json:"publicId"`
	Cover    bool    `gorm:"not null;default:false" json:"cover"`
	Position int     `gorm:"not null;default:0" json:"position"`
}
