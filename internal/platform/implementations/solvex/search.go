package solvex

import (
	"context"
	"net/http"

	"bitbucket.org/olympichub/supplier-hub/internal/platform/implementations/solvex/mapping"
	"bitbucket.org/olympichub/supplier-hub/internal/platform/implementations/solvex/megatec"
	"bitbucket.org/olympichub/supplier-hub/internal/schema"
	"bitbucket.org/olympichub/supplier-hub/internal/tools/slowlog"
	"github.com/rs/zerolog"
)

const (
	defaultPageSize = 500

	// Tariff 0 is the default price list, 1993 the standard one. Requests
	// without a Tariffs element come back empty.
	defaultTariffA = 0
	defaultTariffB = 1993
)

type searchRequest struct {
	session       *session
	params        schema.SearchRequestParams
	configuration schema.SolvexConfiguration
	logger        *zerolog.Logger
	slowLogger    slowlog.Logger
}

// requestBody assembles the SearchHotelServiceRequest sequence. The WSDL
// declares s:sequence, so the element order below is load-bearing; empty key
// lists must not produce a tag at all.
func (r *searchRequest) requestBody(token string) megatec.Params {
	pageSize := defaultPageSize
	if r.params.PageSize != nil {
		pageSize = *r.params.PageSize
	}

	rowIndexFrom := 0
	if r.params.RowIndexFrom != nil {
		rowIndexFrom = *r.params.RowIndexFrom
	}

	request := megatec.Params{
		{Name: "PageSize", Value: pageSize},
		{Name: "RowIndexFrom", Value: rowIndexFrom},
		{Name: "DateFrom", Value: solvexDate(r.params.DateFrom)},
		{Name: "DateTo", Value: solvexDate(r.params.DateTo)},
	}

	if len(r.params.CityKeys) > 0 {
		request = append(request, megatec.Param{Name: "CityKeys", Value: megatec.IntList(r.params.CityKeys)})
	}
	if len(r.params.HotelKeys) > 0 {
		request = append(request, megatec.Param{Name: "HotelKeys", Value: megatec.IntList(r.params.HotelKeys)})
	}
	if len(r.params.ChildrenAges) > 0 {
		request = append(request, megatec.Param{Name: "Ages", Value: megatec.IntList(r.params.ChildrenAges)})
	}

	tariffs := r.params.Tariffs
	if len(tariffs) == 0 {
		tariffs = []int{defaultTariffA, defaultTariffB}
	}

	pax := r.params.Adults + len(r.params.ChildrenAges)

	request = append(request,
		megatec.Param{Name: "Tariffs", Value: megatec.IntList(tariffs)},
		megatec.Param{Name: "Pax", Value: pax},
		megatec.Param{Name: "Mode", Value: 0},
		// 1 = daily price sorting grouped by hotel
		megatec.Param{Name: "ResultView", Value: 1},
		megatec.Param{Name: "QuotaTypes", Value: megatec.IntList{int(schema.QuotaTypeOnRequest), int(schema.QuotaTypeOnQuota)}},
	)

	return megatec.Params{
		{Name: "guid", Value: token},
		{Name: "request", Value: request},
	}
}

func (r *searchRequest) Execute(ctx context.Context, httpTransport http.RoundTripper) (schema.SearchResponse, error) {
	response := schema.SearchResponse{
		Offers: []schema.HotelServiceOffer{},
	}

	requestsBucket := schema.NewSupplierRequestsBucket()
	errorsBucket := schema.NewErrorsBucket()

	response.SupplierRequests = requestsBucket.SupplierRequests()
	response.Errors = errorsBucket.Errors()

	timeout := r.params.Timeouts.Default
	if r.params.Timeouts.Search != nil {
		timeout = *r.params.Timeouts.Search
	}

	client := newClient(httpTransport, timeout, r.logger, &requestsBucket)

	r.slowLogger.Start("solvex:search:execute")
	result, err := r.session.invoke(ctx, client, schema.Search, "SearchHotelServices", r.requestBody)
	r.slowLogger.Stop("solvex:search:execute")

	if err != nil {
		errorsBucket.AddError(asSupplierError(err))
		return response, nil
	}

	r.slowLogger.Start("solvex:search:mapOffers")
	for _, row := range megatec.Records(result, "HotelServices") {
		offer, ok := r.parseOffer(row)
		if !ok {
			continue
		}

		response.Offers = append(response.Offers, offer)
	}
	r.slowLogger.Stop("solvex:search:mapOffers")

	return response, nil
}

func (r *searchRequest) parseOffer(row map[string]any) (schema.HotelServiceOffer, bool) {
	hotelKey, ok := megatec.FirstInt(row, "HotelKey", "ID")
	if !ok {
		return schema.HotelServiceOffer{}, false
	}

	hotelName := megatec.FirstString(row, "HotelName", "Name")
	// stars live in the Description field here, not in a Stars element
	description := megatec.FirstString(row, "Description", "HotelDescription")

	cityKey, _ := megatec.FirstInt(row, "CityKey")
	totalCost, _ := megatec.FirstFloat(row, "TotalCost", "Cost", "Price")
	quotaType, _ := megatec.FirstInt(row, "QuotaType")

	return schema.HotelServiceOffer{
		HotelKey:     hotelKey,
		HotelName:    hotelName,
		StarRating:   mapping.StarRating(0, description, hotelName),
		CityKey:      cityKey,
		CityName:     megatec.FirstString(row, "CityName"),
		RoomType:     megatec.FirstString(row, "RoomType", "RtName"),
		RoomCategory: megatec.FirstString(row, "RoomCategory", "RcName"),
		Pansion:      megatec.FirstString(row, "Pansion", "PnName"),
		TotalCost:    totalCost,
		Currency:     megatec.FirstString(row, "Currency", "CurrencyName"),
		QuotaType:    schema.QuotaType(quotaType),
		TariffName:   megatec.FirstString(row, "TariffName", "TsName"),
	}, true
}

// solvexDate widens a bare date into the datetime shape the service accepts.
func solvexDate(date string) string {
	if len(date) == len(schema.DateFormat) {
		return date + "T00:00:00"
	}
	return date
}
