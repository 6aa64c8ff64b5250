package domain

type ImageSlot struct {
	Avatar     bool
	StageIndex int
}

type ImageTask struct {
	ID           string `json:"id"`
	DealerID     string `json:"dealer_id"`
	Avatar       bool   `json:"avatar"`
	StageIndex   int    `json:"stage_index"`
	Path         string `json:"path"`
	PreferRemote bool   `json:"prefer_remote"`
	ContentType  string `json:"content_type"`
	SourcePath   string `json:"source_path"`
}

func (t *ImageTask) Slot() ImageSlot {
	return ImageSlot{Avatar: t.Avatar, StageIndex: t.StageIndex}
}

const (
	KafkaTopicImageTasks = "dealer-image-tasks"
	KafkaGroupID         = "dealer-image-workers"
)

const (
	PathPrefixDealers = "dealers/"
	PathPrefixStaging = "staging/"
)
