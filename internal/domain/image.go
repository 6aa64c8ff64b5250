package domain

type StorageMethod string

const (
	MethodRemote StorageMethod = "remote"
	MethodInline StorageMethod = "inline"
)

type UseCase string

const (
	UseCaseDisplay UseCase = "display"
	UseCaseStorage UseCase = "storage"
	UseCaseForm    UseCase = "form"
)

type EncodedImage struct {
	DataURL string
	Width   int
	Height  int
	Size    int64
}

type StoredImage struct {
	URL    string
	Method StorageMethod
	Size   int64
	Width  int
	Height int
}

type PlaceholderKind string

const (
	PlaceholderDealerCard PlaceholderKind = "dealer_card"
	PlaceholderAvatar     PlaceholderKind = "avatar"
	PlaceholderOutfit     PlaceholderKind = "outfit"
)

type ImageKind string

const (
	ImageKindEmpty  ImageKind = "empty"
	ImageKindInline ImageKind = "inline"
	ImageKindURL    ImageKind = "url"
)

const (
	InlineImagePrefix = "data:image/"
	InlineMimeType    = "image/jpeg"

	DefaultFormMaxWidth  = 200
	DefaultFormMaxHeight = 200
	DefaultFormQuality   = 0.4
	FormQualityCap       = 0.6
	FormWidthThreshold   = 400
	FormSizeWarnBytes    = 50 << 10

	DefaultDisplayMaxWidth = 800
	DefaultDisplayQuality  = 0.8

	FallbackMaxWidth = 600
	FallbackQuality  = 0.7

	CompactMaxWidth      = 300
	CompactAvatarQuality = 0.6
	CompactStageQuality  = 0.5

	DefaultMaxUploadSize = 32 << 20
	DefaultMaxPixels     = 40_000_000
	MinInlineQuality     = 0.1
	InlineQualityStep    = 0.75
)
