package schema

type CountriesRequestParams struct {
	Configuration RequestConfiguration `json:"configuration"`
	Timeouts      Timeouts             `json:"timeouts"`
}

type RegionsRequestParams struct {
	CountryID     int                  `json:"countryId" binding:"required"`
	Configuration RequestConfiguration `json:"configuration"`
	Timeouts      Timeouts             `json:"timeouts"`
}

// CitiesRequestParams addresses cities either through a region or directly
// through a country. A missing region translates to regionKey -1 upstream
// ("any region").
type CitiesRequestParams struct {
	CountryID     int                  `json:"countryId,omitempty"`
	RegionID      *int                 `json:"regionId,omitempty"`
	Configuration RequestConfiguration `json:"configuration"`
	Timeouts      Timeouts             `json:"timeouts"`
}

type HotelsRequestParams struct {
	CityID        int                  `json:"cityId" binding:"required"`
	Configuration RequestConfiguration `json:"configuration"`
	Timeouts      Timeouts             `json:"timeouts"`
}

type HotelContentRequestParams struct {
	HotelID       int                  `json:"hotelId" binding:"required"`
	Configuration RequestConfiguration `json:"configuration"`
	Timeouts      Timeouts             `json:"timeouts"`
}

// SearchRequestParams maps to SearchHotelServices. Dates are already in the
// upstream's accepted shapes (2006-01-02 or 2006-01-02T15:04:05).
type SearchRequestParams struct {
	DateFrom     string `json:"dateFrom" binding:"required"`
	DateTo       string `json:"dateTo" binding:"required"`
	Adults       int    `json:"adults"`
	ChildrenAges []int  `json:"childrenAges,omitempty"`
	CityKeys     []int  `json:"cityKeys,omitempty"`
	HotelKeys    []int  `json:"hotelKeys,omitempty"`
	Tariffs      []int  `json:"tariffs,omitempty"`
	PageSize     *int   `json:"pageSize,omitempty"`
	RowIndexFrom *int   `json:"rowIndexFrom,omitempty"`

	Configuration RequestConfiguration `json:"configuration"`
	Timeouts      Timeouts             `json:"timeouts"`
}

type CatalogSyncRequestParams struct {
	Configuration RequestConfiguration `json:"configuration"`
	Timeouts      Timeouts             `json:"timeouts"`
}

type CountriesResponse struct {
	Countries        []Country               `json:"countries"`
	Errors           *SupplierResponseErrors `json:"errors,omitempty"`
	SupplierRequests *SupplierRequests       `json:"supplierRequests,omitempty"`
}

type RegionsResponse struct {
	Regions          []Region                `json:"regions"`
	Errors           *SupplierResponseErrors `json:"errors,omitempty"`
	SupplierRequests *SupplierRequests       `json:"supplierRequests,omitempty"`
}

type CitiesResponse struct {
	Cities           []City                  `json:"cities"`
	Errors           *SupplierResponseErrors `json:"errors,omitempty"`
	SupplierRequests *SupplierRequests       `json:"supplierRequests,omitempty"`
}

type HotelsResponse struct {
	Hotels           []HotelSummary          `json:"hotels"`
	Errors           *SupplierResponseErrors `json:"errors,omitempty"`
	SupplierRequests *SupplierRequests       `json:"supplierRequests,omitempty"`
}

type HotelContentResponse struct {
	Description      string                  `json:"description"`
	Images           []HotelImage            `json:"images"`
	Errors           *SupplierResponseErrors `json:"errors,omitempty"`
	SupplierRequests *SupplierRequests       `json:"supplierRequests,omitempty"`
}

type SearchResponse struct {
	Offers           []HotelServiceOffer     `json:"offers"`
	Errors           *SupplierResponseErrors `json:"errors,omitempty"`
	SupplierRequests *SupplierRequests       `json:"supplierRequests,omitempty"`
}

type CatalogSyncResponse struct {
	Manifest         *WalkManifest           `json:"manifest,omitempty"`
	Errors           *SupplierResponseErrors `json:"errors,omitempty"`
	SupplierRequests *SupplierRequests       `json:"supplierRequests,omitempty"`
}
