package models

// TagModel is a free-text label shared between spots and groups.
// Rows are created on first use and reused by name afterwards.
type TagModel struct {
	ID   uint   `json:"-"    gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"uniqueIndex;not null;size:64"`
}

func (TagModel) TableName() string { return "tags" }

// SpotTag links a spot to a tag, unique per pair.
type SpotTag struct {
	ID     uint   `gorm:"primaryKey;autoIncrement"`
	SpotID string `gorm:"uniqueIndex:uniq_spot_tag;not null"`
	TagID  uint   `gorm:"uniqueIndex:uniq_spot_tag;not null"`
	Tag    *TagModel `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE"`
}

func (SpotTag) TableName() string { return "spot_tags" }

// GroupTag links a group to a tag, unique per pair.
type GroupTag struct {
	ID      uint   `gorm:"primaryKey;autoIncrement"`
	GroupID string `gorm:"uniqueIndex:uniq_group_tag;not null"`
	TagID   uint   `gorm:"uniqueIndex:uniq_group_tag;not null"`
	Tag     *TagModel `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE"`
}

func (GroupTag) TableName() string { return "group_tags" }
