// internal/ua/ua.go
//
// User‑Agent parsing and crawler classification.
//
// This wrapper isolates the third‑party `github.com/avct/uasurfer` API so
// the rest of the codebase never sees its enums or structs.  uasurfer's own
// bot detection covers the major search engines; crawler.go adds the
// social-preview fetchers and generic tokens it does not know.
package ua

import (
	"fmt"
	"strconv"
	"strings"

	surfer "github.com/avct/uasurfer"
)

// Info carries the UA attributes used by requestinfo and the crawler gate.
//
// Example (Chrome on macOS):
//
//	Browser   "Chrome"
//	Version   "125.0.6422"
//	OS        "Mac OS X"
//	OSVersion "14.4"
//	Device    "Desktop"
//	Platform  "Macintosh"
//	IsBot     false
//	Raw       "Mozilla/5.0 (Macintosh;…"
//
// Device will be one of: "Desktop", "Mobile", "Tablet", "Bot", or "Other".
// IsBot folds in the token list from crawler.go, so it is the single
// automated-agent verdict for a request.
type Info struct {
	Browser   string
	Version   string
	OS        string
	OSVersion string
	Device    string
	Platform  string
	IsBot     bool
	Raw       string
}

// Parse converts a raw header into an Info struct.  An empty header is
// not a bot.
func Parse(raw string) Info {
	if strings.TrimSpace(raw) == "" {
		return Info{Device: "Other"}
	}
	ua := surfer.Parse(raw)

	info := Info{
		Browser:   ua.Browser.Name.String(),
		Version:   versionToString(ua.Browser.Version),
		OS:        ua.OS.Name.String(),
		OSVersion: versionToString(ua.OS.Version),
		Platform:  ua.OS.Platform.String(),
		IsBot:     ua.IsBot() || matchesCrawlerToken(raw),
		Raw:       raw,
	}

	switch ua.DeviceType {
	case surfer.DeviceComputer:
		info.Device = "Desktop"
	case surfer.DeviceTablet:
		info.Device = "Tablet"
	case surfer.DevicePhone, surfer.DeviceWearable:
		info.Device = "Mobile"
	case surfer.DeviceBot:
		info.Device = "Bot"
	default:
		info.Device = "Other"
	}

	return info
}

// versionToString renders a semantic version in dotted form while trimming
// trailing zeros, e.g. 17.0.0 → "17", 17.3.0 → "17.3", 17.3.1 → "17.3.1".
func versionToString(v surfer.Version) string {
	if v.Major == 0 && v.Minor == 0 && v.Patch == 0 {
		return ""
	}
	if v.Patch != 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	if v.Minor != 0 {
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	}
	return strconv.Itoa(int(v.Major))
}
