package models

// ReplyModel is a threaded comment attached to exactly one spot or group.
// Both references are nullable (set-null on parent delete); the creation
// services guarantee that exactly one of them is set.
type ReplyModel struct {
	Base
	SpotID  *string    `json:"spot_id"  gorm:"index"`
	GroupID *string    `json:"group_id" gorm:"index"`
	UserID  string     `json:"-"        gorm:"index;not null"`
	User    *UserModel `json:"-"        gorm:"foreignKey:UserID"`
	Comment string     `json:"comment"  gorm:"type:text;not null"`

	Images []ReplyImage `json:"-" gorm:"foreignKey:ReplyID;constraint:OnDelete:CASCADE"`
}

func (ReplyModel) TableName() string { return "replies" }

// ReplyImage stores the generated filename of one uploaded reply photo.
type ReplyImage struct {
	ID      uint   `json:"-"    gorm:"primaryKey;autoIncrement"`
	ReplyID string `json:"-"    gorm:"index;not null"`
	Path    string `json:"path" gorm:"size:512;not null"`
}

func (ReplyImage) TableName() string { return "reply_images" }
