package dto

// ── announcements ──

// PostAnnouncementRequest instructor broadcast.
type PostAnnouncementRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}
