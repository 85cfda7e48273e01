package extractor

import (
	"sort"
	"strconv"
	"strings"
)

// isVideoFormat: a video codec other than "none" and a known, non-zero height
func isVideoFormat(f *RawFormat) bool {
	return !isNone(f.VCodec) && truthy(f.Height)
}

// isAudioOnlyFormat: an audio codec other than "none" on a stream whose video codec is exactly "none"
func isAudioOnlyFormat(f *RawFormat) bool {
	return !isNone(f.ACodec) && isNone(f.VCodec)
}

// ClassifyFormats splits raw stream descriptors into video and audio-only
// formats, each ranked best first. Descriptors matching neither category are
// dropped. Ranking is stable, so equal keys keep their input order.
func ClassifyFormats(formats []RawFormat) ([]VideoFormat, []AudioFormat) {
	videos := []VideoFormat{}
	audios := []AudioFormat{}

	for i := range formats {
		f := &formats[i]
		switch {
		case isVideoFormat(f):
			videos = append(videos, toVideoFormat(f))
		case isAudioOnlyFormat(f):
			audios = append(audios, toAudioFormat(f))
		}
	}

	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].Height() > videos[j].Height()
	})
	sort.SliceStable(audios, func(i, j int) bool {
		return audios[i].Bitrate() > audios[j].Bitrate()
	})

	return videos, audios
}

func toVideoFormat(f *RawFormat) VideoFormat {
	return VideoFormat{
		FormatID:   stringOr(f.FormatID, ""),
		Ext:        stringOr(f.Ext, ""),
		Resolution: resolution(f.Width, f.Height),
		FileSize:   toInt64(f.FileSize),
		URL:        stringOr(f.URL, ""),
		VCodec:     cloneString(f.VCodec),
		ACodec:     cloneString(f.ACodec),
		FPS:        cloneFloat(f.FPS),
	}
}

func toAudioFormat(f *RawFormat) AudioFormat {
	return AudioFormat{
		FormatID: stringOr(f.FormatID, ""),
		Ext:      stringOr(f.Ext, ""),
		FileSize: toInt64(f.FileSize),
		URL:      stringOr(f.URL, ""),
		ACodec:   cloneString(f.ACodec),
		ABR:      cloneFloat(f.ABR),
	}
}

// resolution formats "{width}x{height}"; a zero dimension counts as unknown
func resolution(width, height *float64) *string {
	if !truthy(width) || !truthy(height) {
		return nil
	}
	s := formatDimension(*width) + "x" + formatDimension(*height)
	return &s
}

func formatDimension(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parseResolutionHeight returns the part after "x", or 0 when it does not parse
func parseResolutionHeight(res string) int {
	_, h, ok := strings.Cut(res, "x")
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(h, 64)
	if err != nil {
		return 0
	}
	return int(v)
}
