package models

// TargetTable is the closed set of tables a moderation request may point at.
type TargetTable string

const (
	TargetSpots   TargetTable = "spots"
	TargetGroups  TargetTable = "groups"
	TargetReplies TargetTable = "replies"
	TargetUsers   TargetTable = "users"
)

// KnownTargetTable reports whether t names a moderatable table.
func KnownTargetTable(t TargetTable) bool {
	switch t {
	case TargetSpots, TargetGroups, TargetReplies, TargetUsers:
		return true
	}
	return false
}

// RequestModel is a generic moderation ticket. TargetTable/TargetID form a
// weak polymorphic reference, deliberately not a foreign key; validity is
// checked at the point of use against KnownTargetTable.
type RequestModel struct {
	Base
	TargetTable TargetTable `json:"table"     gorm:"column:target_table;not null;size:16;index"`
	TargetID    string      `json:"target_id" gorm:"not null;index"`
	Comment     string      `json:"comment"   gorm:"type:text"`
	Necessity   *bool       `json:"necessity"`
	Solved      bool        `json:"solved"    gorm:"not null;default:false;index"`
}

func (RequestModel) TableName() string { return "requests" }
