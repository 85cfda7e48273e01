package extractor

import "math"

// RawFormat mirrors one entry of the "formats" list in a yt-dlp info dump.
// Every field is optional; numbers are decoded as float64 because extractors
// are inconsistent about integer vs fractional values.
type RawFormat struct {
	FormatID *string  `json:"format_id"`
	Ext      *string  `json:"ext"`
	Width    *float64 `json:"width"`
	Height   *float64 `json:"height"`
	FileSize *float64 `json:"filesize"`
	URL      *string  `json:"url"`
	VCodec   *string  `json:"vcodec"`
	ACodec   *string  `json:"acodec"`
	FPS      *float64 `json:"fps"`
	ABR      *float64 `json:"abr"`
}

// RawInfo mirrors the subset of a yt-dlp info dump the service reads.
// A non-nil Entries marks a playlist, even when the list is empty.
type RawInfo struct {
	Title       *string     `json:"title"`
	Duration    *float64    `json:"duration"`
	Uploader    *string     `json:"uploader"`
	UploadDate  *string     `json:"upload_date"`
	ViewCount   *float64    `json:"view_count"`
	LikeCount   *float64    `json:"like_count"`
	Description *string     `json:"description"`
	Thumbnail   *string     `json:"thumbnail"`
	Formats     []RawFormat `json:"formats"`
	Entries     *[]*RawInfo `json:"entries"`
}

// IsPlaylist reports whether the dump carries an entries list
func (r *RawInfo) IsPlaylist() bool {
	return r.Entries != nil
}

// noneCodec is yt-dlp's sentinel for an absent codec track
const noneCodec = "none"

// isNone reports whether a codec tag is exactly the "none" sentinel.
// A missing tag is not the sentinel.
func isNone(codec *string) bool {
	return codec != nil && *codec == noneCodec
}

// truthy treats a missing value and zero alike, the way yt-dlp consumers do
func truthy(v *float64) bool {
	return v != nil && *v != 0
}

func stringOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

// toInt64 truncates toward zero. NaN and values outside the int64 range are
// treated as absent.
func toInt64(v *float64) *int64 {
	if v == nil || math.IsNaN(*v) || *v >= math.MaxInt64 || *v < math.MinInt64 {
		return nil
	}
	n := int64(*v)
	return &n
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
