package invoice

import (
	"regexp"
	"strings"
)

var (
	gstinPattern = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	hsnPattern   = regexp.MustCompile(`^\d{4,8}$`)
)

// stateCodes maps lower-cased state and union territory names to GST state codes.
var stateCodes = map[string]string{
	"jammu and kashmir": "01",
	"himachal pradesh":  "02",
	"punjab":            "03",
	"chandigarh":        "04",
	"uttarakhand":       "05",
	"haryana":           "06",
	"delhi":             "07",
	"rajasthan":         "08",
	"uttar pradesh":     "09",
	"bihar":             "10",
	"sikkim":            "11",
	"arunachal pradesh": "12",
	"nagaland":          "13",
	"manipur":           "14",
	"mizoram":           "15",
	"tripura":           "16",
	"meghalaya":         "17",
	"assam":             "18",
	"west bengal":       "19",
	"jharkhand":         "20",
	"odisha":            "21",
	"chhattisgarh":      "22",
	"madhya pradesh":    "23",
	"gujarat":           "24",
	"dadra and nagar haveli and daman and diu": "26",
	"maharashtra":                 "27",
	"karnataka":                   "29",
	"goa":                         "30",
	"lakshadweep":                 "31",
	"kerala":                      "32",
	"tamil nadu":                  "33",
	"puducherry":                  "34",
	"andaman and nicobar islands": "35",
	"telangana":                   "36",
	"andhra pradesh":              "37",
	"ladakh":                      "38",
}

// ValidGSTIN reports whether s has the 15-character GSTIN shape.
func ValidGSTIN(s string) bool {
	return gstinPattern.MatchString(s)
}

// ValidHSN reports whether s is a 4 to 8 digit HSN code.
func ValidHSN(s string) bool {
	return hsnPattern.MatchString(s)
}

// StateCode returns the GST state code for a state name, or "" if unknown.
func StateCode(state string) string {
	return stateCodes[strings.ToLower(strings.TrimSpace(state))]
}
