package models

// UploadAuthorization is a signed, time-bound permission to upload into one
// folder of the media store. It is issued per request and never stored.
type UploadAuthorization struct {
	Timestamp int64  `json:"timestamp"`
	Signature string `json:"signature"`
	APIKey    string `json:"apiKey"`
	CloudName string `json:"cloudName"`
	Folder    string `json:"folder"`
}
