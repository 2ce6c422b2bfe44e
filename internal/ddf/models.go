package ddf

// PropertyResponse defines the structure of one page of the Property endpoint.
type PropertyResponse struct {
	Count int        `json:"@odata.count"`
	Value []Property `json:"value"`
}

// TokenResponse is the body returned by the identity token endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Media is one entry of a property's media array.
type Media struct {
	MediaURL      string `json:"MediaURL"`
	MediaCategory string `json:"MediaCategory"`
	Order         int    `json:"Order"`
}

// Property is the provider's wire shape for a single listing. Optional
// numerics are pointers so absent and zero stay distinguishable.
type Property struct {
	ListingKey            string   `json:"ListingKey"`
	ListingID             string   `json:"ListingId"`
	UnparsedAddress       string   `json:"UnparsedAddress"`
	City                  string   `json:"City"`
	StateOrProvince       string   `json:"StateOrProvince"`
	PostalCode            string   `json:"PostalCode"`
	Country               string   `json:"Country"`
	PropertyType          string   `json:"PropertyType"`
	PropertySubType       string   `json:"PropertySubType"`
	StandardStatus        string   `json:"StandardStatus"`
	MlsStatus             string   `json:"MlsStatus"`
	PublicRemarks         string   `json:"PublicRemarks"`
	ListPrice             *float64 `json:"ListPrice"`
	BedroomsTotal         *int     `json:"BedroomsTotal"`
	BathroomsTotalInteger *float64 `json:"BathroomsTotalInteger"`
	LivingArea            *float64 `json:"LivingArea"`
	LotSizeArea           *float64 `json:"LotSizeArea"`
	YearBuilt             *int     `json:"YearBuilt"`
	Latitude              *float64 `json:"Latitude"`
	Longitude             *float64 `json:"Longitude"`
	Media                 []Media  `json:"Media"`
	OriginatingSystemName string   `json:"OriginatingSystemName"`
	ModificationTimestamp string   `json:"ModificationTimestamp"`
}
