// Package version carries the build identification set by the linker, for
// example -ldflags "-X github.com/TeamNorCal/coriolis/version.GitHash=$(git rev-parse HEAD)"
package version

var (
	GitHash   = "unknown"
	BuildTime = "unknown"
)
