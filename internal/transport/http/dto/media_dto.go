package dto

type MediaImage struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type MediaUploadResponse struct {
	Images []MediaImage `json:"images"`
}
