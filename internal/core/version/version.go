package version

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/guiyumin/ytdlp-api/internal/core/version.Version=x.y.z"
var Version = "1.0.0"
