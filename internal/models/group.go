package models

// GroupModel is a named, geotagged collection of spots.
type GroupModel struct {
	Base
	UserID   string     `json:"-"         gorm:"index;not null"`
	User     *UserModel `json:"-"         gorm:"foreignKey:UserID"`
	Title    string     `json:"title"     gorm:"not null;size:128"`
	Lat      float64    `json:"lat"       gorm:"not null"`
	Lng      float64    `json:"lng"       gorm:"not null"`
	Comment  string     `json:"comment"   gorm:"type:text"`
	Category string     `json:"category"  gorm:"size:32"`
	IsPublic bool       `json:"is_public" gorm:"not null;default:false"`

	Images    []GroupImage    `json:"-" gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	Spots     []GroupSpot     `json:"-" gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	Tags      []GroupTag      `json:"-" gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	Reactions []GroupReaction `json:"-" gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
}

func (GroupModel) TableName() string { return "groups" }

// GroupImage stores the generated filename of one uploaded group photo.
type GroupImage struct {
	ID      uint   `json:"-"    gorm:"primaryKey;autoIncrement"`
	GroupID string `json:"-"    gorm:"index;not null"`
	Path    string `json:"path" gorm:"size:512;not null"`
}

func (GroupImage) TableName() string { return "group_images" }

// GroupSpot is the membership join between a group and a spot, unique per pair.
type GroupSpot struct {
	ID      uint   `gorm:"primaryKey;autoIncrement"`
	GroupID string `gorm:"uniqueIndex:uniq_group_spot;not null"`
	SpotID  string `gorm:"uniqueIndex:uniq_group_spot;not null"`
}

func (GroupSpot) TableName() string { return "group_spots" }

// GroupReaction is one user's reaction to a group, unique per (group, user, kind).
// Groups only take good/bad; "solved" is a spot-only kind.
type GroupReaction struct {
	ID      uint         `gorm:"primaryKey;autoIncrement"`
	GroupID string       `gorm:"uniqueIndex:uniq_group_user_kind;not null"`
	UserID  string       `gorm:"uniqueIndex:uniq_group_user_kind;not null"`
	Kind    ReactionKind `gorm:"uniqueIndex:uniq_group_user_kind;not null;size:16"`
}

func (GroupReaction) TableName() string { return "group_reactions" }
