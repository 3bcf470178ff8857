package schema

// Country, Region and City are reference data fetched fresh per walk. Some
// countries expose cities with no region layer in between, so RegionID can be
// zero on a City.
type Country struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	NameLat string `json:"nameLat,omitempty"`
	Code    string `json:"code,omitempty"`
}

type Region struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	NameLat string `json:"nameLat,omitempty"`
}

type City struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	NameLat   string `json:"nameLat,omitempty"`
	CountryID int    `json:"countryId,omitempty"`
	RegionID  int    `json:"regionId,omitempty"`
}

type HotelSummary struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	StarRating int      `json:"starRating"`
	CityID     int      `json:"cityId"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

type HotelImage struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
	IsMain  bool   `json:"isMain"`
}

// HotelRecord is the canonical, supplier-agnostic hotel representation. ID is
// always prefixed with the supplier name (solvex_<key>) so records from
// different suppliers can share one catalog table.
type HotelRecord struct {
	ID          string       `json:"id"`
	SupplierKey int          `json:"supplierKey"`
	Name        string       `json:"name"`
	StarRating  int          `json:"starRating"`
	CityID      int          `json:"cityId,omitempty"`
	CityName    string       `json:"cityName,omitempty"`
	CountryName string       `json:"countryName,omitempty"`
	Latitude    *float64     `json:"latitude,omitempty"`
	Longitude   *float64     `json:"longitude,omitempty"`
	Description string       `json:"description,omitempty"`
	Images      []HotelImage `json:"images"`
}

// HotelServiceOffer is one priced row of a SearchHotelServices response.
type HotelServiceOffer struct {
	HotelKey     int       `json:"hotelKey"`
	HotelName    string    `json:"hotelName"`
	StarRating   int       `json:"starRating"`
	CityKey      int       `json:"cityKey,omitempty"`
	CityName     string    `json:"cityName,omitempty"`
	RoomType     string    `json:"roomType,omitempty"`
	RoomCategory string    `json:"roomCategory,omitempty"`
	Pansion      string    `json:"pansion,omitempty"`
	TotalCost    float64   `json:"totalCost"`
	Currency     string    `json:"currency,omitempty"`
	QuotaType    QuotaType `json:"quotaType"`
	TariffName   string    `json:"tariffName,omitempty"`
}
