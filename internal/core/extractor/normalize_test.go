package extractor

import (
	stdjson "encoding/json"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestNormalize_SingleVideo(t *testing.T) {
	raw := &RawInfo{
		Title:      str("Big Buck Bunny"),
		Duration:   num(596.5),
		Uploader:   str("Blender"),
		UploadDate: str("20080529"),
		ViewCount:  num(1000),
		Formats: []RawFormat{
			{FormatID: str("18"), VCodec: str("avc1"), ACodec: str("mp4a"), Width: num(640), Height: num(360)},
			{FormatID: str("140"), VCodec: str("none"), ACodec: str("mp4a"), ABR: num(129)},
		},
	}

	items := Normalize(raw)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	item := items[0]
	if item.Title != "Big Buck Bunny" {
		t.Errorf("title = %q", item.Title)
	}
	if item.Duration == nil || *item.Duration != 596 {
		t.Errorf("duration = %v, want 596", item.Duration)
	}
	if item.UploadDate == nil || *item.UploadDate != "20080529" {
		t.Errorf("upload_date = %v, want raw 20080529", item.UploadDate)
	}
	if item.ViewCount == nil || *item.ViewCount != 1000 {
		t.Errorf("view_count = %v, want 1000", item.ViewCount)
	}
	if item.LikeCount != nil || item.Description != nil || item.Thumbnail != nil {
		t.Errorf("missing fields should stay absent: %+v", item)
	}
	if len(item.VideoFormats) != 1 || len(item.AudioFormats) != 1 {
		t.Errorf("got %d video, %d audio formats; want 1, 1", len(item.VideoFormats), len(item.AudioFormats))
	}
}

func TestNormalize_DefaultTitle(t *testing.T) {
	items := Normalize(&RawInfo{})
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Title != "Unknown" {
		t.Errorf("title = %q, want Unknown", items[0].Title)
	}
	if items[0].VideoFormats == nil || items[0].AudioFormats == nil {
		t.Error("format lists should be empty, not nil")
	}
}

func TestNormalize_Playlist(t *testing.T) {
	entries := []*RawInfo{
		{Title: str("first")},
		nil,
		{Title: str("second"), Formats: []RawFormat{{VCodec: str("vp9"), Width: num(1280), Height: num(720)}}},
		nil,
	}
	raw := &RawInfo{Title: str("playlist"), Entries: &entries}

	items := Normalize(raw)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2 (one per non-null entry)", len(items))
	}
	if items[0].Title != "first" || items[1].Title != "second" {
		t.Errorf("titles = %q, %q; want first, second", items[0].Title, items[1].Title)
	}
	if len(items[1].VideoFormats) != 1 {
		t.Errorf("entry formats not classified: %+v", items[1])
	}
}

func TestNormalize_EmptyPlaylist(t *testing.T) {
	entries := []*RawInfo{}
	items := Normalize(&RawInfo{Title: str("empty"), Entries: &entries})
	if len(items) != 0 {
		t.Errorf("got %d items, want 0", len(items))
	}
}

func TestNormalize_FromDump(t *testing.T) {
	tests := []struct {
		name      string
		dump      string
		wantItems int
		wantTitle string
	}{
		{
			name:      "single video",
			dump:      `{"title":"clip","formats":[{"format_id":"22","vcodec":"avc1","acodec":"mp4a","width":1280,"height":720}]}`,
			wantItems: 1,
			wantTitle: "clip",
		},
		{
			name:      "playlist with null entry",
			dump:      `{"title":"list","entries":[{"title":"a"},null,{"title":"b"}]}`,
			wantItems: 2,
			wantTitle: "a",
		},
		{
			name:      "empty entries list is still a playlist",
			dump:      `{"title":"list","entries":[]}`,
			wantItems: 0,
		},
		{
			name:      "unknown fields are ignored",
			dump:      `{"id":"x","title":"t","extractor":"generic","formats":[],"requested_formats":null}`,
			wantItems: 1,
			wantTitle: "t",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw RawInfo
			if err := json.Unmarshal([]byte(tt.dump), &raw); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			items := Normalize(&raw)
			if len(items) != tt.wantItems {
				t.Fatalf("got %d items, want %d", len(items), tt.wantItems)
			}
			if tt.wantTitle != "" && items[0].Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", items[0].Title, tt.wantTitle)
			}
		})
	}
}

func TestVideoInfo_JSONShape(t *testing.T) {
	items := Normalize(&RawInfo{
		Formats: []RawFormat{{FormatID: str("1"), VCodec: str("avc1"), Height: num(720)}},
	})
	out, err := stdjson.Marshal(items[0])
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)

	for _, want := range []string{`"title":"Unknown"`, `"audio_formats":[]`, `"format_id":"1"`, `"url":""`} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON %s missing %s", s, want)
		}
	}
	for _, absent := range []string{`"resolution"`, `"duration"`, `"filesize"`, `"thumbnail"`} {
		if strings.Contains(s, absent) {
			t.Errorf("JSON %s should not contain %s", s, absent)
		}
	}
}
