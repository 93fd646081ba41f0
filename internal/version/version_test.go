package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	assert.NotEmpty(t, Version)
	assert.NotEmpty(t, BuildTime)
	assert.NotEmpty(t, GitCommit)
	assert.Equal(t, "pkgbuilder "+Version+" (commit "+GitCommit+", built "+BuildTime+")", String())
}
