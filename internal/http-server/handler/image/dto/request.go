package dto

type OptimizeRequest struct {
	MaxWidth int     `validate:"gte=0,lte=4096"`
	Quality  float64 `validate:"gte=0,lte=1"`
	UseCase  string  `validate:"omitempty,oneof=display storage form"`
}

type UploadRequest struct {
	Path         string `validate:"required,max=512"`
	PreferRemote bool
}

type InfoRequest struct {
	URL string `json:"url"`
}

type CompressRequest struct {
	URL      string  `json:"url" validate:"required"`
	MaxWidth int     `json:"max_width" validate:"gte=0,lte=4096"`
	Quality  float64 `json:"quality" validate:"gte=0,lte=1"`
}
