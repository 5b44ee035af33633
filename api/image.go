package api

// Image is the wire representation of one gallery entry.
type Image struct {
	Filename    string `json:"filename"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Timestamp   string `json:"timestamp"`
}

// ImageList is the gallery listing payload.
type ImageList struct {
	Images []Image `json:"images"`
}

// UploadResponse is returned after a successful upload.
type UploadResponse struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// ErrorResponse is the uniform failure envelope: every orchestrator failure
// surfaces as one user-facing message.
type ErrorResponse struct {
	Error string `json:"error"`
}
