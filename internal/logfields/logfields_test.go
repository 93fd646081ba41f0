package logfields

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		attr    slog.Attr
		wantKey string
		wantVal string
	}{
		{Package("@scope/core"), KeyPackage, "@scope/core"},
		{Path("/repo/packages/core"), KeyPath, "/repo/packages/core"},
		{File("lib/index.js"), KeyFile, "lib/index.js"},
		{Fingerprint("abc"), KeyFingerprint, "abc"},
		{BuildID("b1"), KeyBuildID, "b1"},
		{Stage("compile"), KeyStage, "compile"},
		{Profile("browser"), KeyProfile, "browser"},
	}
	for _, c := range cases {
		assert.Equal(t, c.wantKey, c.attr.Key)
		assert.Equal(t, c.wantVal, c.attr.Value.String())
	}
}

func TestNumericAndErrorHelpers(t *testing.T) {
	assert.Equal(t, int64(3), Count(3).Value.Int64())
	assert.Equal(t, int64(1500), Duration(1500*time.Millisecond).Value.Int64())
	assert.Equal(t, "boom", Error(errors.New("boom")).Value.String())
	assert.Equal(t, "", Error(nil).Value.String())
}
