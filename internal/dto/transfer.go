package dto

// ── transfer ──

// TransferExportResponse the roster as a token and a share link.
type TransferExportResponse struct {
	Token       string `json:"token"`
	ShareURL    string `json:"shareUrl"`
	ExportedAt  int64  `json:"exportedAt"`
	Instructors int    `json:"instructors"`
	Students    int    `json:"students"`
}

// TransferImportRequest accepts a raw token, a share link or its fragment.
type TransferImportRequest struct {
	Token string `json:"token" binding:"required"`
}

// TransferImportResponse summary of the replaced roster.
type TransferImportResponse struct {
	Instructors int   `json:"instructors"`
	Students    int   `json:"students"`
	ExportedAt  int64 `json:"exportedAt"`
	Version     int   `json:"version"`
}
