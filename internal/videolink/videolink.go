// Package videolink turns arbitrary user-supplied video links into embeddable
// URLs tagged with their platform.
package videolink

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ajbgithub/aivideos/models"
)

// Link is the normalized result: a directly renderable URL and the source tag
// that selects its rendering strategy.
type Link struct {
	URL    string
	Source models.VideoSource
}

// Normalize maps a link to its embeddable form. It never fails: anything that
// does not parse as an absolute URL, and any platform URL an id cannot be
// extracted from, passes through unchanged tagged external. Hostnames are
// matched by substring so regional and mobile subdomains resolve too.
func Normalize(input string) Link {
	parsed, err := url.Parse(input)
	if err != nil || !parsed.IsAbs() || parsed.Hostname() == "" {
		return Link{URL: input, Source: models.SourceExternal}
	}

	host := strings.ToLower(parsed.Hostname())

	if strings.Contains(host, "youtube.com") || host == "youtu.be" {
		if id := youtubeID(parsed); id != "" {
			return Link{
				URL:    fmt.Sprintf("https://www.youtube.com/embed/%s", id),
				Source: models.SourceYouTube,
			}
		}
	}

	if strings.Contains(host, "instagram.com") {
		origin := fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host)
		path := strings.TrimSuffix(parsed.Path, "/")
		return Link{
			URL:    fmt.Sprintf("%s%s/embed", origin, path),
			Source: models.SourceInstagram,
		}
	}

	if strings.Contains(host, "tiktok.com") {
		if id := tiktokID(parsed); id != "" {
			return Link{
				URL:    fmt.Sprintf("https://www.tiktok.com/embed/%s", id),
				Source: models.SourceTikTok,
			}
		}
	}

	return Link{URL: input, Source: models.SourceExternal}
}

// youtubeID prefers the v query parameter and falls back to the last non-empty
// path segment (the youtu.be and /shorts/ forms).
func youtubeID(u *url.URL) string {
	if id := u.Query().Get("v"); id != "" {
		return id
	}
	segments := pathSegments(u)
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

// tiktokID takes the segment following a literal "video" path segment.
func tiktokID(u *url.URL) string {
	segments := pathSegments(u)
	for i, segment := range segments {
		if segment == "video" && i+1 < len(segments) {
			return segments[i+1]
		}
	}
	return ""
}

func pathSegments(u *url.URL) []string {
	var segments []string
	for _, segment := range strings.Split(u.Path, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}
