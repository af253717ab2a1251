package galleryfs

import (
	"fmt"
	"regexp"
	"runtime"

	"github.com/galleryfs/galleryfs/repo/fsrepo"
)

// CurrentCommit is the current git commit, set with -ldflags at build time.
var CurrentCommit string

// CurrentVersionNumber is the current application's version literal.
const CurrentVersionNumber = "0.3.0-dev"

const maxVersionLen = 64

var onlyASCII = regexp.MustCompile("[[:^ascii:]]")

// GetUserAgentVersion is the name reported to tracing backends.
//
// Note: This will end in `/` when no commit is available. This is expected.
func GetUserAgentVersion() string {
	return TrimVersion("galleryfs/" + CurrentVersionNumber + "/" + CurrentCommit)
}

// TrimVersion strips non-ASCII characters and caps the length of a version
// string.
func TrimVersion(version string) string {
	ascii := onlyASCII.ReplaceAllLiteralString(version, "")
	if len(ascii) > maxVersionLen {
		ascii = ascii[:maxVersionLen]
	}
	return ascii
}

type VersionInfo struct {
	Version string
	Commit  string
	Repo    string
	System  string
	Golang  string
}

func GetVersionInfo() *VersionInfo {
	return &VersionInfo{
		Version: CurrentVersionNumber,
		Commit:  CurrentCommit,
		Repo:    fmt.Sprint(fsrepo.RepoVersion),
		System:  runtime.GOARCH + "/" + runtime.GOOS,
		Golang:  runtime.Version(),
	}
}
