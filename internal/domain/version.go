package domain

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Channel is the pre-release stage of a version.
type Channel int

const (
	ChannelRelease Channel = iota
	ChannelAlpha
	ChannelBeta
	ChannelRC
)

// String returns the tag spelling of the channel. Release has no spelling.
func (c Channel) String() string {
	switch c {
	case ChannelAlpha:
		return "alpha"
	case ChannelBeta:
		return "beta"
	case ChannelRC:
		return "rc"
	default:
		return ""
	}
}

func parseChannel(s string) Channel {
	switch s {
	case "alpha":
		return ChannelAlpha
	case "beta":
		return ChannelBeta
	case "rc":
		return ChannelRC
	default:
		return ChannelRelease
	}
}

var (
	coreRegex     = regexp.MustCompile(`^v(\d+)\.(\d+)\.(\d+)`)
	preRegex      = regexp.MustCompile(`^-?(alpha|beta|rc)(\d+)`)
	describeRegex = regexp.MustCompile(`^-\d+-g[a-f0-9]{7,9}`)
	markerRegex   = regexp.MustCompile(`^-(wip|dirty)`)
)

// Version is a parsed release tag. The describe suffix of the input (commit
// distance, short hash, wip/dirty marker) is never retained.
type Version struct {
	Major   uint64
	Minor   uint64
	Patch   uint64
	Channel Channel
	Counter uint64
}

// ParseVersion parses the output of `git describe` for a v-prefixed tag.
func ParseVersion(text string) (Version, error) {
	rest := text
	core := coreRegex.FindStringSubmatch(rest)
	if core == nil {
		return Version{}, &VersionFormatError{Version: text}
	}
	rest = rest[len(core[0]):]
	var v Version
	var err error
	if v.Major, err = strconv.ParseUint(core[1], 10, 64); err != nil {
		return Version{}, &VersionFormatError{Version: text, Err: err}
	}
	if v.Minor, err = strconv.ParseUint(core[2], 10, 64); err != nil {
		return Version{}, &VersionFormatError{Version: text, Err: err}
	}
	if v.Patch, err = strconv.ParseUint(core[3], 10, 64); err != nil {
		return Version{}, &VersionFormatError{Version: text, Err: err}
	}
	if pre := preRegex.FindStringSubmatch(rest); pre != nil {
		v.Channel = parseChannel(pre[1])
		if v.Counter, err = strconv.ParseUint(pre[2], 10, 64); err != nil {
			return Version{}, &VersionFormatError{Version: text, Err: err}
		}
		rest = rest[len(pre[0]):]
	}
	// the wip/dirty marker is only recognised after a describe block
	if loc := describeRegex.FindStringIndex(rest); loc != nil {
		rest = rest[loc[1]:]
		if loc := markerRegex.FindStringIndex(rest); loc != nil {
			rest = rest[loc[1]:]
		}
	}
	if rest != "" {
		return Version{}, &VersionFormatError{Version: text}
	}
	return v, nil
}

// IsPreRelease reports whether the version carries a pre-release channel.
func (v Version) IsPreRelease() bool {
	return v.Channel != ChannelRelease
}

// String formats the version as a tag name.
func (v Version) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "v%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.IsPreRelease() {
		fmt.Fprintf(&b, "-%s%d", v.Channel, v.Counter)
	}
	return b.String()
}

// Semver converts the version for ordering. Pre-release identifiers are
// dot separated (alpha.10) so counters compare numerically.
func (v Version) Semver() *semver.Version {
	pre := ""
	if v.IsPreRelease() {
		pre = fmt.Sprintf("%s.%d", v.Channel, v.Counter)
	}
	return semver.New(v.Major, v.Minor, v.Patch, pre, "")
}

// Advance computes the successor of current under mode. The boolean is false
// when mode does not apply to the current channel; that is not an error. A
// component already at its maximum cannot be bumped and yields
// ErrVersionOverflow.
func Advance(current Version, mode Mode) (Version, bool, error) {
	if !mode.Valid() {
		return Version{}, false, &InvalidModeError{Mode: string(mode)}
	}
	overflow := func(component string) error {
		return fmt.Errorf("cannot bump %s of %s: %w", component, current, ErrVersionOverflow)
	}
	next := current
	switch mode {
	case ModeMajor:
		if current.Major == math.MaxUint64 {
			return Version{}, false, overflow("major")
		}
		next = Version{Major: current.Major + 1}
	case ModeMinor, ModeMinorIota, ModeMinorRC:
		if current.Minor == math.MaxUint64 {
			return Version{}, false, overflow("minor")
		}
		next = Version{Major: current.Major, Minor: current.Minor + 1}
		switch mode {
		case ModeMinorIota:
			next.Channel, next.Counter = ChannelAlpha, 1
		case ModeMinorRC:
			next.Channel, next.Counter = ChannelRC, 1
		}
	case ModePatch:
		if current.Patch == math.MaxUint64 {
			return Version{}, false, overflow("patch")
		}
		next.Patch++
		next.Channel, next.Counter = ChannelRelease, 0
	case ModePre:
		if current.Channel == ChannelRelease && current.Counter == 0 {
			if current.Patch == math.MaxUint64 {
				return Version{}, false, overflow("patch")
			}
			next.Patch++
			next.Channel = ChannelBeta
		} else {
			switch current.Channel {
			case ChannelAlpha:
				next.Channel = ChannelBeta
			case ChannelBeta:
				next.Channel = ChannelRC
			default:
				return Version{}, false, nil
			}
		}
		next.Counter = 1
	case ModeIota:
		if current.Channel == ChannelRelease && current.Counter == 0 {
			if current.Patch == math.MaxUint64 {
				return Version{}, false, overflow("patch")
			}
			next.Patch++
			next.Channel, next.Counter = ChannelAlpha, 1
		} else {
			if current.Counter == math.MaxUint64 {
				return Version{}, false, overflow("counter")
			}
			next.Counter++
		}
	case ModeRelease:
		if current.Channel != ChannelRC {
			return Version{}, false, nil
		}
		next.Channel, next.Counter = ChannelRelease, 0
	}
	return next, true, nil
}

// NextVersion validates mode, parses current and advances it. The mode is
// checked first so an unknown mode is reported even for a malformed version.
func NextVersion(current, mode string) (string, bool, error) {
	m, err := ParseMode(mode)
	if err != nil {
		return "", false, err
	}
	v, err := ParseVersion(current)
	if err != nil {
		return "", false, err
	}
	next, ok, err := Advance(v, m)
	if err != nil || !ok {
		return "", ok, err
	}
	return next.String(), true, nil
}
