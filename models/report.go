package models

import "time"

type ReportStatus string

const (
	StatusPending ReportStatus = "pending"
	StatusSolving ReportStatus = "solving"
	StatusDone    ReportStatus = "done"
)

// ParseReportStatus accepts exactly the three workflow tokens. Case and
// surrounding whitespace are not normalised.
func ParseReportStatus(s string) (ReportStatus, bool) {
	switch st := ReportStatus(s); st {
	case StatusPending, StatusSolving, StatusDone:
		return st, true
	}
	return "", false
}

func (s ReportStatus) Valid() bool {
	_, ok := ParseReportStatus(string(s))
	return ok
}

// Report is the stored row. Issues holds the encoded label list; only the
// db package reads or writes it.
type Report struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	UserID    uint         `json:"user_id" gorm:"not null;index"`
	User      User         `json:"-" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Issues    string       `json:"-" gorm:"type:text;not null"`
	Details   string       `json:"details"`
	Location  string       `json:"location"`
	ImagePath string       `json:"image_path"`
	Status    ReportStatus `json:"status" gorm:"type:varchar(16);not null;default:pending"`
	Likes     int          `json:"likes" gorm:"not null;default:0"`
	CreatedAt time.Time    `json:"created_at" gorm:"index"`
}

// NewReport carries the fields needed to insert a report.
type NewReport struct {
	UserID    uint
	Issues    []string
	Details   string
	Location  string
	ImagePath string
}

// ReportView is what listings and lookups return.
type ReportView struct {
	ID        uint         `json:"id"`
	UserID    uint         `json:"user_id"`
	UserName  string       `json:"user_name"`
	Issues    []string     `json:"issues"`
	Details   string       `json:"details"`
	Location  string       `json:"location"`
	ImagePath string       `json:"image_path"`
	Status    ReportStatus `json:"status"`
	Likes     int          `json:"likes"`
	CreatedAt time.Time    `json:"created_at"`
}

type SubmitReportResponse struct {
	ReportID  uint         `json:"report_id"`
	ImagePath string       `json:"image_path"`
	Status    ReportStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" form:"status"`
}

// BackupRecord is the submission payload kept for disaster recovery.
type BackupRecord struct {
	ReportID  uint      `json:"report_id"`
	UserID    uint      `json:"user_id"`
	Issues    []string  `json:"issues"`
	Details   string    `json:"details"`
	Location  string    `json:"location"`
	ImagePath string    `json:"image_path"`
	CreatedAt time.Time `json:"created_at"`
}
