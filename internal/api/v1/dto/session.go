package dto

import "gemini-transcriber/internal/app/session"

// SessionResponse is the JSON form of a session view, polled by the browser
type SessionResponse struct {
	ID         string        `json:"id"`
	State      string        `json:"state"`
	File       *FileResponse `json:"file,omitempty"`
	Transcript string        `json:"transcript,omitempty"`
	Error      string        `json:"error,omitempty"`
	Copied     bool          `json:"copied"`
}

// FileResponse describes the selected file
type FileResponse struct {
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	HumanSize string `json:"human_size"`
	MIMEType  string `json:"mime_type"`
	IsAudio   bool   `json:"is_audio"`
}

// CopyResponse carries the text the browser writes to the clipboard
type CopyResponse struct {
	Transcript string `json:"transcript"`
	Copied     bool   `json:"copied"`
}

// NewSessionResponse converts a session snapshot
func NewSessionResponse(v session.View) SessionResponse {
	resp := SessionResponse{
		ID:         v.ID,
		State:      string(v.State),
		Transcript: v.Transcript,
		Error:      v.Error,
		Copied:     v.Copied,
	}
	if v.File != nil {
		resp.File = &FileResponse{
			Name:      v.File.Name,
			Size:      v.File.Size,
			HumanSize: v.File.HumanSize,
			MIMEType:  v.File.MIMEType,
			IsAudio:   v.File.IsAudio,
		}
	}
	return resp
}
