package analytics

import "testing"

func TestClassifyDevice(t *testing.T) {
	tests := []struct {
		ua   string
		want string
	}{
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)", DeviceMobile},
		{"Mozilla/5.0 (Linux; Android 14; Pixel 8)", DeviceMobile},
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64)", DeviceDesktop},
		{"Mozilla/5.0 (X11; Linux x86_64) Tablet", DeviceTablet},
		{"", DeviceDesktop},
		// ipad sits in the mobile rule list ahead of the tablet rule,
		// so iPads classify as Mobile. Intentional precedence.
		{"Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X)", DeviceMobile},
	}
	for _, tt := range tests {
		if got := ClassifyDevice(tt.ua); got != tt.want {
			t.Errorf("ClassifyDevice(%q) = %q, want %q", tt.ua, got, tt.want)
		}
	}
}

func TestClassifyBrowser(t *testing.T) {
	tests := []struct {
		ua   string
		want string
	}{
		{"Mozilla/5.0 ... Chrome/120.0 Safari/537.36 Edg/120.0", "Edge"},
		{"Mozilla/5.0 ... Chrome/120.0 Safari/537.36", "Chrome"},
		{"Mozilla/5.0 (Macintosh) AppleWebKit/605.1.15 Version/17.0 Safari/605.1.15", "Safari"},
		{"Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0", "Firefox"},
		{"curl/8.0", "Unknown"},
		// Opera UAs embed the Chrome token and Chrome is checked first.
		{"Mozilla/5.0 ... Chrome/120.0 Safari/537.36 OPR/106.0", "Chrome"},
	}
	for _, tt := range tests {
		if got := ClassifyBrowser(tt.ua); got != tt.want {
			t.Errorf("ClassifyBrowser(%q) = %q, want %q", tt.ua, got, tt.want)
		}
	}
}
