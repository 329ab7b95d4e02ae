// Package deeplink maps app URLs to navigation routes.
package deeplink

import (
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/steadiness/internal/constants"
)

// Target is a navigation destination.
type Target string

const (
	Home   Target = "home"
	Goals  Target = "goals"
	Manage Target = "manage"
	Habit  Target = "habit"
)

// Route is a resolved deep link. HabitID is set only for the Habit target.
type Route struct {
	Target  Target
	HabitID string
}

// Parse resolves raw into a route. Accepted forms are kkujun://<path> and
// https://kkujune.app/<path>, where path is home, goals, manage or habit/<uuid>.
// Anything else returns false.
func Parse(raw string) (Route, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Route{}, false
	}

	var segments []string
	switch {
	case strings.EqualFold(u.Scheme, constants.DeepLinkScheme):
		// kkujun://habit/<id> puts the first segment in the host
		segments = append(split(u.Host), split(u.Path)...)
	case strings.EqualFold(u.Scheme, "https") && strings.EqualFold(u.Hostname(), constants.DeepLinkWebHost):
		segments = split(u.Path)
	default:
		return Route{}, false
	}

	switch {
	case len(segments) == 1 && segments[0] == string(Home):
		return Route{Target: Home}, true
	case len(segments) == 1 && segments[0] == string(Goals):
		return Route{Target: Goals}, true
	case len(segments) == 1 && segments[0] == string(Manage):
		return Route{Target: Manage}, true
	case len(segments) == 2 && segments[0] == string(Habit):
		// only the hyphenated 36-character form; uuid.Parse also takes braces, urn and bare hex
		if len(segments[1]) != 36 {
			return Route{}, false
		}
		id, err := uuid.Parse(segments[1])
		if err != nil {
			return Route{}, false
		}
		return Route{Target: Habit, HabitID: id.String()}, true
	}
	return Route{}, false
}

func split(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// HabitURL is the web link that opens a habit.
func HabitURL(habitID string) string {
	return (&url.URL{Scheme: "https", Host: constants.DeepLinkWebHost, Path: "/habit/" + habitID}).String()
}

// AppURL is the custom-scheme link for a target.
func AppURL(t Target) string {
	return constants.DeepLinkScheme + "://" + string(t)
}
