package issue

import "time"

type Issue struct {
	ID                           int64     `gorm:"primaryKey"`
	Title                        string    `gorm:"column:title;not null"`
	Description                  string    `gorm:"column:description;type:text;not null"`
	ReportedBy                   string    `gorm:"column:reported_by;index;not null"`
	ReportedByDepartment         string    `gorm:"column:reported_by_department;not null"`
	ReportedByUserID             int64     `gorm:"column:reported_by_user_id;index"`
	Category                     string    `gorm:"column:category;not null"`
	Priority                     string    `gorm:"column:priority;not null"`
	Status                       string    `gorm:"column:status;index;not null"`
	AssignedToHR                 *int64    `gorm:"column:assigned_to_hr"`
	AssignedToHRName             *string   `gorm:"column:assigned_to_hr_name"`
	RoutedToDepartment           *string   `gorm:"column:routed_to_department;index"`
	AssignedToDepartmentUser     *int64    `gorm:"column:assigned_to_department_user"`
	AssignedToDepartmentUserName *string   `gorm:"column:assigned_to_department_user_name"`
	HRNotes                      string    `gorm:"column:hr_notes;type:text"`
	ResolutionNotes              string    `gorm:"column:resolution_notes;type:text"`
	AutoRouted                   bool      `gorm:"column:auto_routed;not null"`
	CreatedAt                    time.Time `gorm:"column:created_at;index"`
	UpdatedAt                    time.Time `gorm:"column:updated_at"`
}

func (Issue) TableName() string { return "issues" }
