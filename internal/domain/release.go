package domain

// Release holds everything the release workflow decided before tagging.
type Release struct {
	Current string // output of git describe
	Tag     string // tag to create
	Remote  string
	Signed  bool
	// PreRelease is set when Tag parses as a version on a pre-release channel.
	PreRelease bool
}
