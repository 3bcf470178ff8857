package solvex

import (
	"context"
	"net/http"
	"sync"

	"bitbucket.org/olympichub/supplier-hub/internal/platform/implementations/solvex/mapping"
	"bitbucket.org/olympichub/supplier-hub/internal/platform/implementations/solvex/megatec"
	"bitbucket.org/olympichub/supplier-hub/internal/schema"
	"bitbucket.org/olympichub/supplier-hub/internal/tools/slowlog"
	"github.com/rs/zerolog"
)

// fetchDescription runs GetHotelDescription for one hotel. The text arrives
// under one of three tag names depending on the hotel's content source.
func fetchDescription(ctx context.Context, client *http.Client, s *session, hotelKey int) (string, error) {
	result, err := s.invoke(ctx, client, schema.HotelContent, "GetHotelDescription", func(token string) megatec.Params {
		return megatec.Params{
			{Name: "guid", Value: token},
			{Name: "hotelCode", Value: hotelKey},
		}
	})
	if err != nil {
		return "", err
	}

	if node, ok := megatec.ChildMap(result); ok {
		return firstStringDeep(node, "Description", "DescriptionText", "HotelDescription"), nil
	}

	return megatec.Text(result), nil
}

// fetchImages runs GetHotelImages for one hotel. Dedupe and the main flag are
// applied by the caller through mapping.Images so merged image sets (walker)
// get the same treatment.
func fetchImages(ctx context.Context, client *http.Client, s *session, hotelKey int) ([]schema.HotelImage, error) {
	result, err := s.invoke(ctx, client, schema.HotelContent, "GetHotelImages", func(token string) megatec.Params {
		return megatec.Params{
			{Name: "guid", Value: token},
			{Name: "hotelCode", Value: hotelKey},
		}
	})
	if err != nil {
		return nil, err
	}

	images := []schema.HotelImage{}
	for _, row := range megatec.Records(result, "Image") {
		url := megatec.FirstString(row, "ImageUrl", "Url")
		if url == "" {
			continue
		}

		images = append(images, schema.HotelImage{
			URL:     url,
			AltText: megatec.FirstString(row, "ImageName", "Title"),
		})
	}

	return images, nil
}

// firstStringDeep looks the candidate names up at the top level first, then
// one wrapper level down. Content responses sometimes nest the payload under
// an extra element.
func firstStringDeep(node map[string]any, names ...string) string {
	if text := megatec.FirstString(node, names...); text != "" {
		return text
	}

	for _, child := range node {
		if childMap, ok := megatec.ChildMap(child); ok {
			if text := megatec.FirstString(childMap, names...); text != "" {
				return text
			}
		}
	}

	return ""
}

type hotelContentRequest struct {
	session       *session
	params        schema.HotelContentRequestParams
	configuration schema.SolvexConfiguration
	logger        *zerolog.Logger
	slowLogger    slowlog.Logger
}

// Execute fetches description and images as two independent calls. One call
// failing does not blank the other's result; both failures are reported
// through the errors bucket, never as a Go error.
func (r *hotelContentRequest) Execute(ctx context.Context, httpTransport http.RoundTripper) (schema.HotelContentResponse, error) {
	response := schema.HotelContentResponse{
		Images: []schema.HotelImage{},
	}

	requestsBucket := schema.NewSupplierRequestsBucket()
	errorsBucket := schema.NewErrorsBucket()

	response.SupplierRequests = requestsBucket.SupplierRequests()
	response.Errors = errorsBucket.Errors()

	client := newClient(httpTransport, r.params.Timeouts.Default, r.logger, &requestsBucket)

	r.slowLogger.Start("solvex:hotelContent:execute")

	var wg sync.WaitGroup
	var description string
	var descriptionErr error
	var images []schema.HotelImage
	var imagesErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		description, descriptionErr = fetchDescription(ctx, client, r.session, r.params.HotelID)
	}()
	go func() {
		defer wg.Done()
		images, imagesErr = fetchImages(ctx, client, r.session, r.params.HotelID)
	}()
	wg.Wait()

	r.slowLogger.Stop("solvex:hotelContent:execute")

	if descriptionErr != nil {
		errorsBucket.AddError(asSupplierError(descriptionErr))
	}
	if imagesErr != nil {
		errorsBucket.AddError(asSupplierError(imagesErr))
	}

	response.Description = description
	response.Images = mapping.Images(images)

	return response, nil
}
