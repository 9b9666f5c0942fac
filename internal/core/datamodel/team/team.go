package team

import "time"

// Team is owned by exactly one HR user.
type Team struct {
	ID        int64     `gorm:"primaryKey"`
	HRUserID  int64     `gorm:"column:hr_user_id;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
	Members   []Member  `gorm:"foreignKey:TeamID"`
}

func (Team) TableName() string { return "teams" }

// Member places a user in a team under one of the team's department lists.
// The (department, user_id) pair is unique across all teams.
type Member struct {
	ID         int64     `gorm:"primaryKey"`
	TeamID     int64     `gorm:"column:team_id;index;not null"`
	UserID     int64     `gorm:"column:user_id;not null;uniqueIndex:idx_team_members_department_user,priority:2"`
	Department string    `gorm:"column:department;not null;uniqueIndex:idx_team_members_department_user,priority:1"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Member) TableName() string { return "team_members" }
