package models

// GeoEntry is a display name plus fixed coordinates for a country code.
type GeoEntry struct {
	Name string
	Lat  string
	Lon  string
}

// UnknownCountryCode is the sentinel for records without a usable origin.
const UnknownCountryCode = "??"

// geoTable is the fixed lookup the dashboard plots from. The "??" entry is
// the unknown-origin placeholder and must always resolve.
var geoTable = map[string]GeoEntry{
	"DE":               {Name: "Germany", Lat: "52.52", Lon: "13.40"},
	"RU":               {Name: "Russia", Lat: "55.75", Lon: "37.61"},
	"US":               {Name: "USA", Lat: "37.77", Lon: "-122.41"},
	"CN":               {Name: "China", Lat: "39.90", Lon: "116.40"},
	"IN":               {Name: "India", Lat: "28.61", Lon: "77.20"},
	"BR":               {Name: "Brazil", Lat: "-23.55", Lon: "-46.63"},
	"KP":               {Name: "North Korea", Lat: "39.03", Lon: "125.75"},
	"UA":               {Name: "Ukraine", Lat: "50.45", Lon: "30.52"},
	"GB":               {Name: "UK", Lat: "51.50", Lon: "-0.12"},
	"FR":               {Name: "France", Lat: "48.85", Lon: "2.35"},
	"NL":               {Name: "Netherlands", Lat: "52.36", Lon: "4.89"},
	"IL":               {Name: "Israel", Lat: "31.76", Lon: "35.21"},
	"JP":               {Name: "Japan", Lat: "35.67", Lon: "139.65"},
	UnknownCountryCode: {Name: "Deep Web Proxy", Lat: "0.00", Lon: "0.00"},
}

// geoCodes keeps a stable ordering for uniform draws by the synthesizer.
var geoCodes = []string{"DE", "RU", "US", "CN", "IN", "BR", "KP", "UA", "GB", "FR", "NL", "IL", "JP", UnknownCountryCode}

// ResolveGeo maps a 2-letter country code to its display entry. Total: codes
// missing from the table resolve to the unknown sentinel, never an error.
func ResolveGeo(code string) GeoEntry {
	if entry, ok := geoTable[code]; ok {
		return entry
	}
	return geoTable[UnknownCountryCode]
}

// KnownCountryCode reports whether code has a dedicated table entry.
func KnownCountryCode(code string) bool {
	_, ok := geoTable[code]
	return ok
}

// GeoCodes returns the country codes covered by the table, sentinel included.
func GeoCodes() []string {
	codes := make([]string, len(geoCodes))
	copy(codes, geoCodes)
	return codes
}
