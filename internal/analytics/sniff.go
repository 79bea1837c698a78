package analytics

import "strings"

// Device types recorded on a session.
const (
	DeviceDesktop = "Desktop"
	DeviceMobile  = "Mobile"
	DeviceTablet  = "Tablet"
)

// sniffRule maps a lowercase user-agent substring to a classification.
// Rules are evaluated strictly in order; the first match wins.
type sniffRule struct {
	pattern string
	label   string
}

// deviceRules preserve the upstream precedence: the mobile list includes
// "ipad", so the tablet rule below it is unreachable for iPads. Kept
// as-is so historical device_type aggregates stay comparable.
var deviceRules = []sniffRule{
	{"mobile", DeviceMobile},
	{"android", DeviceMobile},
	{"iphone", DeviceMobile},
	{"ipad", DeviceMobile},
	{"phone", DeviceMobile},
	{"tablet", DeviceTablet},
}

// browserRules are checked Edge first since Edge user agents also carry
// the Chrome token. Opera sits last, so Opera UAs (which embed "Chrome")
// classify as Chrome; kept for parity with existing data.
var browserRules = []sniffRule{
	{"edg", "Edge"},
	{"chrome", "Chrome"},
	{"safari", "Safari"},
	{"firefox", "Firefox"},
	{"opera", "Opera"},
	{"opr", "Opera"},
}

// ClassifyDevice returns the device type for a user agent.
func ClassifyDevice(userAgent string) string {
	ua := strings.ToLower(userAgent)
	for _, r := range deviceRules {
		if strings.Contains(ua, r.pattern) {
			return r.label
		}
	}
	return DeviceDesktop
}

// ClassifyBrowser returns the browser family for a user agent, or
// "Unknown" when no rule matches.
func ClassifyBrowser(userAgent string) string {
	ua := strings.ToLower(userAgent)
	for _, r := range browserRules {
		if strings.Contains(ua, r.pattern) {
			return r.label
		}
	}
	return "Unknown"
}
