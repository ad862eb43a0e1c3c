package models

// UploadResult, yüklenen görselin public URL'i ve depodaki yolu.
// Path silme işleminde geri gönderilir.
type UploadResult struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}
