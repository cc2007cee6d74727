package server

import (
	"bufio"
	"os"
	"strings"
)

// defaultVendorOrder fixes the column order of the full-scrape response
var defaultVendorOrder = []string{
	"Carrefour", "Cetrogar", "CheekSA", "Frávega", "Libertad",
	"Masonline", "Megatone", "Musimundo", "Naldo", "Vital",
}

// defaultVendors is the built-in vendor map used when no vendors file exists
// and the request carries none
var defaultVendors = map[string]string{
	"Carrefour": "https://www.carrefour.com.ar",
	"Cetrogar":  "https://www.cetrogar.com.ar",
	"CheekSA":   "https://cheeksa.com.ar",
	"Frávega":   "https://www.fravega.com",
	"Libertad":  "https://www.hiperlibertad.com.ar",
	"Masonline": "https://www.masonline.com.ar",
	"Megatone":  "https://www.megatone.net",
	"Musimundo": "https://www.musimundo.com",
	"Naldo":     "https://www.naldo.com.ar",
	"Vital":     "https://www.vital.com.ar",
}

// vendorSeparators are tried in order against each vendors-file line
var vendorSeparators = []string{"|", ",", ";", "\t", " — ", " – ", " - ", "->", "=>"}

// DefaultVendors returns a copy of the built-in vendor map
func DefaultVendors() map[string]string {
	out := make(map[string]string, len(defaultVendors))
	for name, url := range defaultVendors {
		out[name] = url
	}
	return out
}

// ParseVendorsFile reads a "name<sep>url" vendors file. Lines starting with
// "#" are comments; a name without a URL falls back to the built-in map.
// Returns nil when the file is absent or yields no vendors.
func ParseVendorsFile(path string) map[string]string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	vendors := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, url := line, ""
		for _, sep := range vendorSeparators {
			if strings.Contains(line, sep) {
				parts := strings.SplitN(line, sep, 2)
				name = strings.TrimSpace(parts[0])
				url = strings.TrimSpace(parts[1])
				break
			}
		}
		if url == "" {
			url = defaultVendors[name]
		}
		if name != "" {
			vendors[name] = url
		}
	}

	if len(vendors) == 0 {
		return nil
	}
	return vendors
}
