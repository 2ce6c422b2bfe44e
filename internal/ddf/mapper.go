package ddf

import (
	"strings"
	"time"

	"github.com/DP-Tech1324/realtor-jigar-suite/internal/model"
)

// typeRule matches when every keyword appears (case-insensitively) in the
// combined PropertyType + PropertySubType text. Rules are evaluated top to
// bottom and the first hit wins, so the more specific entries come first.
// Adding provider vocabulary is a table edit, not a code change.
type typeRule struct {
	keywords []string
	value    string
}

var propertyTypeRules = []typeRule{
	{[]string{"vacant", "land"}, model.PropertyVacantLand},
	{[]string{"semi"}, model.PropertySemiDetached},
	{[]string{"town"}, model.PropertyTownhouse},
	{[]string{"row"}, model.PropertyTownhouse},
	{[]string{"condo"}, model.PropertyCondo},
	{[]string{"apartment"}, model.PropertyCondo},
	{[]string{"duplex"}, model.PropertyMultiFamily},
	{[]string{"triplex"}, model.PropertyMultiFamily},
	{[]string{"fourplex"}, model.PropertyMultiFamily},
	{[]string{"multi"}, model.PropertyMultiFamily},
	{[]string{"agricult"}, model.PropertyFarm},
	{[]string{"farm"}, model.PropertyFarm},
	{[]string{"business"}, model.PropertyCommercial},
	{[]string{"commercial"}, model.PropertyCommercial},
	{[]string{"retail"}, model.PropertyCommercial},
	{[]string{"office"}, model.PropertyCommercial},
	{[]string{"industrial"}, model.PropertyCommercial},
	{[]string{"detached"}, model.PropertyDetached},
	{[]string{"house"}, model.PropertyDetached},
	{[]string{"single family"}, model.PropertyDetached},
}

var propertyTypeSet = map[string]bool{
	model.PropertyDetached:     true,
	model.PropertySemiDetached: true,
	model.PropertyTownhouse:    true,
	model.PropertyCondo:        true,
	model.PropertyMultiFamily:  true,
	model.PropertyVacantLand:   true,
	model.PropertyCommercial:   true,
	model.PropertyFarm:         true,
	model.PropertyOther:        true,
}

// Home types match the sub-type exactly (after lowercasing), not by
// substring: "Luxury Condo" is not a condo home type, it falls to other.
var homeTypeSet = map[string]string{
	"bungalow":      model.HomeBungalow,
	"apartment":     model.HomeApartment,
	"loft":          model.HomeLoft,
	"penthouse":     model.HomePenthouse,
	"duplex":        model.HomeDuplex,
	"triplex":       model.HomeTriplex,
	"fourplex":      model.HomeFourplex,
	"condo":         model.HomeCondo,
	"detached":      model.HomeDetached,
	"semi-detached": model.HomeSemiDetached,
	"semi detached": model.HomeSemiDetached,
	"townhouse":     model.HomeTownhouse,
	"estate":        model.HomeEstate,
}

var statusSet = map[string]bool{
	model.StatusActive:     true,
	model.StatusPending:    true,
	model.StatusSold:       true,
	model.StatusLeased:     true,
	model.StatusExpired:    true,
	model.StatusTerminated: true,
	model.StatusWithdrawn:  true,
	model.StatusComingSoon: true,
}

var provinceAbbr = map[string]string{
	"alberta":                   "AB",
	"british columbia":          "BC",
	"manitoba":                  "MB",
	"new brunswick":             "NB",
	"newfoundland and labrador": "NL",
	"northwest territories":     "NT",
	"nova scotia":               "NS",
	"nunavut":                   "NU",
	"ontario":                   "ON",
	"prince edward island":      "PE",
	"quebec":                    "QC",
	"québec":                    "QC",
	"saskatchewan":              "SK",
	"yukon":                     "YT",
}

// MapPropertyType resolves the provider's free-text type fields to a member
// of the property-type enum. Unrecognized input maps to other, never to the
// raw string, so the store's CHECK constraint can never trip.
func MapPropertyType(propertyType, subType string) string {
	haystack := strings.ToLower(propertyType + " " + subType)
	for _, r := range propertyTypeRules {
		matched := true
		for _, kw := range r.keywords {
			if !strings.Contains(haystack, kw) {
				matched = false
				break
			}
		}
		if matched {
			return r.value
		}
	}
	if v := normalizeToken(propertyType); propertyTypeSet[v] {
		return v
	}
	return model.PropertyOther
}

// MapHomeType resolves the provider sub-type to a home-type enum member.
func MapHomeType(subType string) string {
	if v, ok := homeTypeSet[strings.ToLower(strings.TrimSpace(subType))]; ok {
		return v
	}
	return model.HomeOther
}

// MapStatus lowercases, underscores whitespace, and falls back to active for
// anything outside the allowed set.
func MapStatus(status string) string {
	v := normalizeToken(status)
	if statusSet[v] {
		return v
	}
	return model.StatusActive
}

// NormalizeProvince canonicalizes to the two-letter abbreviation. Input that
// is neither a known name nor a known abbreviation passes through trimmed.
func NormalizeProvince(province string) string {
	trimmed := strings.TrimSpace(province)
	if abbr, ok := provinceAbbr[strings.ToLower(trimmed)]; ok {
		return abbr
	}
	upper := strings.ToUpper(trimmed)
	for _, abbr := range provinceAbbr {
		if abbr == upper {
			return abbr
		}
	}
	return trimmed
}

func normalizeToken(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "_")
}

// Normalize converts one raw provider record into the canonical listing
// shape. ok=false means the record fails the required-field gate and must be
// skipped; that is routine for malformed feed data, not an error. Pure
// function: records can be normalized in any order.
func Normalize(raw Property) (model.Listing, bool) {
	l := model.Listing{
		ListingKey: strings.TrimSpace(raw.ListingKey),
		ListingID:  strings.TrimSpace(raw.ListingID),

		Address:    strings.TrimSpace(raw.UnparsedAddress),
		City:       strings.TrimSpace(raw.City),
		Province:   NormalizeProvince(raw.StateOrProvince),
		PostalCode: strings.TrimSpace(raw.PostalCode),
		Country:    strings.TrimSpace(raw.Country),

		PropertyType: MapPropertyType(raw.PropertyType, raw.PropertySubType),
		HomeType:     MapHomeType(raw.PropertySubType),
		Status:       MapStatus(raw.StandardStatus),

		Description: CleanRemarks(raw.PublicRemarks),

		Price:      raw.ListPrice,
		Bedrooms:   raw.BedroomsTotal,
		Bathrooms:  raw.BathroomsTotalInteger,
		LivingArea: raw.LivingArea,
		LotSize:    raw.LotSizeArea,
		YearBuilt:  raw.YearBuilt,
		Latitude:   raw.Latitude,
		Longitude:  raw.Longitude,

		// The feed has no separate MLS number field; ListingId is the
		// board-assigned MLS number, kept under both names downstream.
		MLSNumber:             strings.TrimSpace(raw.ListingID),
		OriginatingSystemName: strings.TrimSpace(raw.OriginatingSystemName),
		StandardStatus:        strings.TrimSpace(raw.StandardStatus),

		Source: model.SourceDDF,
	}

	// The feed has no title field; synthesize one.
	sub := strings.TrimSpace(raw.PropertySubType)
	switch {
	case sub != "" && l.City != "":
		l.Title = sub + " in " + l.City
	case sub != "":
		l.Title = sub
	default:
		l.Title = l.Address
	}

	// Images is always a non-nil slice; cover image is the first entry.
	l.Images = make([]string, 0, len(raw.Media))
	for _, m := range raw.Media {
		if u := strings.TrimSpace(m.MediaURL); u != "" {
			l.Images = append(l.Images, u)
		}
	}
	if len(l.Images) > 0 {
		cover := l.Images[0]
		l.CoverImage = &cover
	}

	if ts, err := time.Parse(time.RFC3339, raw.ModificationTimestamp); err == nil {
		l.ModificationTimestamp = &ts
	}

	if l.ListingKey == "" ||
		l.Title == "" ||
		l.Address == "" ||
		l.City == "" ||
		l.Province == "" ||
		l.PropertyType == "" {
		return model.Listing{}, false
	}

	return l, true
}
