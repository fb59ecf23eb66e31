package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ReportLike is one ledger entry. The composite unique index is what keeps
// a user to a single like per report.
type ReportLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ReportID  uint      `json:"report_id" gorm:"not null;uniqueIndex:idx_report_likes_report_user,priority:1"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_report_likes_report_user,priority:2;index"`
	Report    Report    `json:"-" gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`
	User      User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
}

type LikeOutcome string

const (
	LikeApplied        LikeOutcome = "applied"
	LikeAlreadyApplied LikeOutcome = "already_liked"
)

type LikeResult struct {
	ReportID uint        `json:"id"`
	Likes    int         `json:"likes"`
	Outcome  LikeOutcome `json:"outcome,omitempty"`
}

// FlexibleID decodes an id sent either as a JSON number or as a numeric
// string. null and "" leave it zero.
type FlexibleID uint

func (id *FlexibleID) UnmarshalJSON(b []byte) error {
	raw := string(b)
	if bytes.HasPrefix(b, []byte(`"`)) {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	}
	if raw == "" || raw == "null" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %s", b)
	}
	*id = FlexibleID(n)
	return nil
}

type LikeRequest struct {
	UserID FlexibleID `json:"user_id" form:"user_id"`
}

// LegacyLikeRequest has no user, only the report to bump.
type LegacyLikeRequest struct {
	ReportID FlexibleID `json:"report_id" form:"report_id"`
}

type LegacyLikeResponse struct {
	ReportID uint `json:"report_id"`
	Likes    int  `json:"likes"`
}
