package domain

// Attachment is a binary payload (recorded audio, a photo) headed for a
// multipart upload.
type Attachment struct {
	FileName    string
	ContentType string
	Data        []byte
}
