package models

import "time"

// SpotModel is a single geotagged point of interest. Lat/Lng are kept as
// separate float columns so the proximity scan can Haversine-filter them
// without a spatial extension.
type SpotModel struct {
	Base
	Title     string     `json:"title"    gorm:"not null;size:128"`
	Lat       float64    `json:"lat"      gorm:"not null"`
	Lng       float64    `json:"lng"      gorm:"not null"`
	UserID    string     `json:"-"        gorm:"index;not null"`
	User      *UserModel `json:"-"        gorm:"foreignKey:UserID"`
	Comment   string     `json:"comment"  gorm:"type:text"`
	Category  string     `json:"category" gorm:"size:32"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	Images    []SpotImage    `json:"-" gorm:"foreignKey:SpotID;constraint:OnDelete:CASCADE"`
	Tags      []SpotTag      `json:"-" gorm:"foreignKey:SpotID;constraint:OnDelete:CASCADE"`
	Reactions []SpotReaction `json:"-" gorm:"foreignKey:SpotID;constraint:OnDelete:CASCADE"`
}

func (SpotModel) TableName() string { return "spots" }

// SpotImage stores the generated filename of one uploaded photo. Path is
// always the server-generated name, never the client's original one.
type SpotImage struct {
	ID     uint   `json:"-"    gorm:"primaryKey;autoIncrement"`
	SpotID string `json:"-"    gorm:"index;not null"`
	Path   string `json:"path" gorm:"size:512;not null"`
}

func (SpotImage) TableName() string { return "spot_images" }

// ReactionKind discriminates per-user reaction rows.
type ReactionKind string

const (
	ReactionGood   ReactionKind = "good"
	ReactionBad    ReactionKind = "bad"
	ReactionSolved ReactionKind = "solved"
)

// SpotReaction is one user's reaction to a spot, unique per (spot, user, kind).
type SpotReaction struct {
	ID     uint         `gorm:"primaryKey;autoIncrement"`
	SpotID string       `gorm:"uniqueIndex:uniq_spot_user_kind;not null"`
	UserID string       `gorm:"uniqueIndex:uniq_spot_user_kind;not null"`
	Kind   ReactionKind `gorm:"uniqueIndex:uniq_spot_user_kind;not null;size:16"`
}

func (SpotReaction) TableName() string { return "spot_reactions" }
