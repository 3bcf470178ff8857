package schema

import (
	"encoding/json"
	"time"
)

type SupplierResponseErrorCode string

const (
	SupplierError   SupplierResponseErrorCode = "SUPPLIER_ERROR"
	TimeoutError    SupplierResponseErrorCode = "TIMEOUT"
	ConnectionError SupplierResponseErrorCode = "CONNECTION_ERROR"
)

type SupplierResponseError struct {
	Code    SupplierResponseErrorCode `json:"code"`
	Message string                    `json:"message"`
}

type SupplierResponseErrors = []SupplierResponseError

type SupplierRequestName string

const (
	Auth         SupplierRequestName = "auth"
	Dictionary   SupplierRequestName = "dictionary"
	HotelContent SupplierRequestName = "hotelContent"
	Search       SupplierRequestName = "search"
	CatalogSync  SupplierRequestName = "catalogSync"
)

type RequestContent struct {
	Url     *string                 `json:"url,omitempty"`
	Method  *string                 `json:"method,omitempty"`
	Body    *string                 `json:"body,omitempty"`
	Headers *map[string]interface{} `json:"headers,omitempty"`
}

type ResponseContent struct {
	StatusCode *int                    `json:"statusCode,omitempty"`
	Headers    *map[string]interface{} `json:"headers,omitempty"`
	Body       *string                 `json:"body,omitempty"`
}

type SupplierRequest struct {
	Name            *SupplierRequestName `json:"name,omitempty"`
	RequestContent  *RequestContent      `json:"requestContent,omitempty"`
	ResponseContent *ResponseContent     `json:"responseContent,omitempty"`
	Duration        *int                 `json:"duration,omitempty"`
	StartDateTime   *time.Time           `json:"startDateTime,omitempty"`
}

type SupplierRequests = []SupplierRequest

type Timeouts struct {
	Default     int  `json:"default"`
	Search      *int `json:"search,omitempty"`
	CatalogSync *int `json:"catalogSync,omitempty"`
}

// RequestConfiguration is the supplier-specific configuration blob carried in
// every request body. It is kept raw until a platform implementation asks for
// its own typed view.
type RequestConfiguration struct {
	union json.RawMessage
}

func (c *RequestConfiguration) UnmarshalJSON(b []byte) error {
	c.union = append(c.union[:0], b...)
	return nil
}

func (c RequestConfiguration) MarshalJSON() ([]byte, error) {
	if c.union == nil {
		return []byte("null"), nil
	}
	return c.union, nil
}

func (c RequestConfiguration) AsSolvexConfiguration() (SolvexConfiguration, error) {
	var configuration SolvexConfiguration
	err := json.Unmarshal(c.union, &configuration)
	return configuration, err
}

// SolvexConfiguration carries the credential pair and the walk policy knobs.
// Zero-valued knobs fall back to the defaults in the solvex package.
type SolvexConfiguration struct {
	Login            string `json:"login"`
	Password         string `json:"password"`
	SupplierApiUrl   string `json:"supplierApiUrl"`
	TargetCountryIds []int  `json:"targetCountryIds,omitempty"`

	MaxConcurrentHotelEnrichment *int `json:"maxConcurrentHotelEnrichment,omitempty"`
	InterBatchDelayMs            *int `json:"interBatchDelayMs,omitempty"`
	CallTimeoutMs                *int `json:"callTimeoutMs,omitempty"`
}
