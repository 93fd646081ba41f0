package toolchain

// Profile is a named transform preset.
type Profile string

const (
	// ProfileServer targets Node.js. It is the default.
	ProfileServer Profile = "server"
	// ProfileBrowser targets browsers.
	ProfileBrowser Profile = "browser"
)

// ProfileFor maps a manifest target-platform value to a profile. Only the
// exact value "browser" selects the browser profile.
func ProfileFor(target string) Profile {
	if target == string(ProfileBrowser) {
		return ProfileBrowser
	}
	return ProfileServer
}

func (p Profile) String() string { return string(p) }
