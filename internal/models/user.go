package models

// UserModel represents a registered account. Users are never hard-deleted;
// spots and groups keep a restrict-style reference to their owner.
type UserModel struct {
	Base
	Name     string  `json:"name"  gorm:"not null"`
	Email    string  `json:"email" gorm:"uniqueIndex;not null;size:254"`
	Password string  `json:"-"     gorm:"not null"`
	Icon     *string `json:"icon"  gorm:"size:512"`

	Spots  []SpotModel  `json:"-" gorm:"foreignKey:UserID"`
	Groups []GroupModel `json:"-" gorm:"foreignKey:UserID"`
}

func (UserModel) TableName() string { return "users" }
