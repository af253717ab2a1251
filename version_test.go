package galleryfs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrimVersion(t *testing.T) {
	require.Equal(t, "galleryfs/1.0", TrimVersion("galleryfs/1.0"))
	require.Equal(t, "gallry/1.0", TrimVersion("galléry/1.0"))

	long := strings.Repeat("a", maxVersionLen+10)
	require.Len(t, TrimVersion(long), maxVersionLen)
}

func TestUserAgentWithoutCommit(t *testing.T) {
	old := CurrentCommit
	defer func() { CurrentCommit = old }()

	CurrentCommit = ""
	require.Equal(t, "galleryfs/"+CurrentVersionNumber+"/", GetUserAgentVersion())
}
