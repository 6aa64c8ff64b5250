package dto

type OptimizeResponse struct {
	DataURL   string `json:"data_url"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Size      int64  `json:"size"`
	SizeHuman string `json:"size_human"`
}

type StoredImageResponse struct {
	URL       string `json:"url"`
	Method    string `json:"method"`
	Size      int64  `json:"size"`
	SizeHuman string `json:"size_human"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
}

type InfoResponse struct {
	Kind          string `json:"kind"`
	Inline        bool   `json:"inline"`
	EstimatedSize int64  `json:"estimated_size"`
	Size          string `json:"size"`
	DisplayLength int    `json:"display_length"`
	Short         string `json:"short,omitempty"`
}

type CompressResponse struct {
	URL        string `json:"url"`
	SizeBefore int64  `json:"size_before"`
	SizeAfter  int64  `json:"size_after"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
