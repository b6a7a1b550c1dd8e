package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBanner(t *testing.T) {
	t.Parallel()

	banner := Banner()
	assert.Contains(t, banner, Number)
	assert.Contains(t, banner, Commit)
	assert.Contains(t, banner, runtime.Version())
	assert.Contains(t, banner, runtime.GOOS+"/"+runtime.GOARCH)
}
