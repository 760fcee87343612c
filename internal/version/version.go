// Package version carries the build stamp shown by the glasspane,
// glasspane-replay, and glasspane-ptyd -version flags and in the viewer's
// status bar.
package version

// GitSHA is the short git commit SHA, set at build time:
//
//	go build -ldflags "-X github.com/glasspane/glasspane/internal/version.GitSHA=$(git rev-parse --short HEAD)"
var GitSHA = "dev"

// Short returns a short version string suitable for display.
func Short() string {
	return GitSHA
}
