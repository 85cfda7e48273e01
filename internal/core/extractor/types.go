package extractor

// VideoFormat is a stream carrying video, ranked by vertical resolution
type VideoFormat struct {
	FormatID   string   `json:"format_id"`
	Ext        string   `json:"ext"`
	Resolution *string  `json:"resolution,omitempty"` // "1920x1080", only when width and height are known
	FileSize   *int64   `json:"filesize,omitempty"`
	URL        string   `json:"url"`
	VCodec     *string  `json:"vcodec,omitempty"`
	ACodec     *string  `json:"acodec,omitempty"`
	FPS        *float64 `json:"fps,omitempty"`
}

// Height returns the vertical resolution encoded in Resolution, or 0
func (f *VideoFormat) Height() int {
	if f.Resolution == nil {
		return 0
	}
	return parseResolutionHeight(*f.Resolution)
}

// AudioFormat is an audio-only stream, ranked by average bitrate
type AudioFormat struct {
	FormatID string   `json:"format_id"`
	Ext      string   `json:"ext"`
	FileSize *int64   `json:"filesize,omitempty"`
	URL      string   `json:"url"`
	ACodec   *string  `json:"acodec,omitempty"`
	ABR      *float64 `json:"abr,omitempty"`
}

// Bitrate returns ABR, or 0 when unknown
func (f *AudioFormat) Bitrate() float64 {
	if f.ABR == nil {
		return 0
	}
	return *f.ABR
}

// VideoInfo is one playable item with its ranked streams
type VideoInfo struct {
	Title        string        `json:"title"`
	Duration     *int64        `json:"duration,omitempty"` // seconds
	Uploader     *string       `json:"uploader,omitempty"`
	UploadDate   *string       `json:"upload_date,omitempty"` // as reported, e.g. "20240131"
	ViewCount    *int64        `json:"view_count,omitempty"`
	LikeCount    *int64        `json:"like_count,omitempty"`
	Description  *string       `json:"description,omitempty"`
	Thumbnail    *string       `json:"thumbnail,omitempty"`
	VideoFormats []VideoFormat `json:"video_formats"`
	AudioFormats []AudioFormat `json:"audio_formats"`
}

// ExtractResponse bundles the outcome of a batch of URLs.
// Success is true iff Errors is empty.
type ExtractResponse struct {
	Success bool        `json:"success"`
	Data    []VideoInfo `json:"data"`
	Errors  []string    `json:"errors"`
}

// NewExtractResponse builds a response, deriving Success from errs
func NewExtractResponse(data []VideoInfo, errs []string) *ExtractResponse {
	if data == nil {
		data = []VideoInfo{}
	}
	if errs == nil {
		errs = []string{}
	}
	return &ExtractResponse{
		Success: len(errs) == 0,
		Data:    data,
		Errors:  errs,
	}
}
