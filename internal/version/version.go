package version

// Version is the release version, overridable at link time with
// -ldflags "-X github.com/alvmarrod/futile-crawler/internal/version.Version=..."
var Version = "0.1.0"
