package extractor

const unknownTitle = "Unknown"

// Normalize converts an info dump into playable items. A playlist yields one
// item per non-null entry in order; anything else yields exactly one item.
func Normalize(raw *RawInfo) []VideoInfo {
	if raw == nil {
		return []VideoInfo{}
	}
	if !raw.IsPlaylist() {
		return []VideoInfo{toVideoInfo(raw)}
	}

	entries := *raw.Entries
	items := make([]VideoInfo, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		items = append(items, toVideoInfo(entry))
	}
	return items
}

func toVideoInfo(r *RawInfo) VideoInfo {
	videos, audios := ClassifyFormats(r.Formats)
	return VideoInfo{
		Title:        stringOr(r.Title, unknownTitle),
		Duration:     toInt64(r.Duration),
		Uploader:     cloneString(r.Uploader),
		UploadDate:   cloneString(r.UploadDate),
		ViewCount:    toInt64(r.ViewCount),
		LikeCount:    toInt64(r.LikeCount),
		Description:  cloneString(r.Description),
		Thumbnail:    cloneString(r.Thumbnail),
		VideoFormats: videos,
		AudioFormats: audios,
	}
}
