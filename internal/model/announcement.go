package model

import "time"

// Announcement is one feed entry. TeacherID never changes after creation and
// AuthorName is a copy of the instructor name at post time.
type Announcement struct {
	ID         string `json:"id"`
	TeacherID  string `json:"teacherId"`
	Content    string `json:"content"`
	Timestamp  int64  `json:"timestamp"` // epoch millis
	AuthorName string `json:"authorName"`
}

// PostedAt returns the creation time.
func (a Announcement) PostedAt() time.Time {
	return time.UnixMilli(a.Timestamp)
}
