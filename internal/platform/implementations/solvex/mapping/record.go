// Package mapping turns normalized Megatec rows into canonical catalog records.
//
// The upstream is not consistent about field names across endpoints: hotels
// arrive as ID/Name from GetHotels but as HotelKey/HotelName from the search
// result table, stars are sometimes a structured field and sometimes a "3*"
// token buried in free text. Everything funnels through here so the rest of
// the pipeline only ever sees one shape.
package mapping

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"bitbucket.org/olympichub/supplier-hub/internal/platform/implementations/solvex/megatec"
	"bitbucket.org/olympichub/supplier-hub/internal/schema"
)

// IDPrefix namespaces Solvex keys inside the shared catalog table.
const IDPrefix = "solvex_"

var starPattern = regexp.MustCompile(`(\d)\s*\*`)

// MappingFault reports a row that cannot be turned into a canonical record.
type MappingFault struct {
	Field string
	Msg   string
}

func (f *MappingFault) Error() string {
	return fmt.Sprintf("mapping: %s: %s", f.Field, f.Msg)
}

func mappingFaultf(field string, format string, args ...any) *MappingFault {
	return &MappingFault{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// CanonicalID validates a raw supplier key and applies the solvex_ prefix.
func CanonicalID(rawID string) (string, int, error) {
	rawID = strings.TrimSpace(rawID)
	if rawID == "" {
		return "", 0, mappingFaultf("id", "missing")
	}

	key, err := strconv.Atoi(rawID)
	if err != nil {
		return "", 0, mappingFaultf("id", "non-numeric %q", rawID)
	}

	return IDPrefix + rawID, key, nil
}

// StarRating resolves stars in priority order: a structured value inside
// [1,5], then the first digit-star token in any of the given texts, then 0.
// 0 means unknown, it is never substituted with a default.
func StarRating(structured int, texts ...string) int {
	if structured >= 1 && structured <= 5 {
		return structured
	}

	for _, text := range texts {
		match := starPattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		stars, _ := strconv.Atoi(match[1])
		if stars >= 1 && stars <= 5 {
			return stars
		}
	}

	return 0
}

// Images drops entries with empty URLs, dedupes by exact URL keeping the
// first occurrence, and flags the first surviving entry as main. Order is
// preserved as delivered by the upstream.
func Images(raw []schema.HotelImage) []schema.HotelImage {
	images := make([]schema.HotelImage, 0, len(raw))
	seen := make(map[string]bool, len(raw))

	for _, image := range raw {
		if image.URL == "" || seen[image.URL] {
			continue
		}

		seen[image.URL] = true
		image.IsMain = len(images) == 0
		images = append(images, image)
	}

	return images
}

// Summary maps one hotel row from a dictionary or search result set.
func Summary(row map[string]any) (schema.HotelSummary, error) {
	rawKey := megatec.FirstString(row, "ID", "HotelKey", "Key")
	_, key, err := CanonicalID(rawKey)
	if err != nil {
		return schema.HotelSummary{}, err
	}

	name := megatec.FirstString(row, "Name", "HotelName")
	structuredStars, _ := megatec.FirstInt(row, "Stars", "StarCount")
	cityID, _ := megatec.FirstInt(row, "CityKey", "CityID", "City")

	summary := schema.HotelSummary{
		ID:         key,
		Name:       name,
		StarRating: StarRating(structuredStars, name),
		CityID:     cityID,
	}

	if latitude, ok := megatec.FirstFloat(row, "Latitude", "Lat"); ok {
		summary.Latitude = &latitude
	}
	if longitude, ok := megatec.FirstFloat(row, "Longitude", "Lon", "Lng"); ok {
		summary.Longitude = &longitude
	}

	return summary, nil
}

// RecordContext carries the walk position a bare hotel row does not repeat.
type RecordContext struct {
	CityName    string
	CountryName string
}

// Record merges a summary with independently fetched content. Stars are
// re-resolved from the description because it sometimes carries the star
// token the name lacks.
func Record(summary schema.HotelSummary, ctx RecordContext, description string, rawImages []schema.HotelImage) schema.HotelRecord {
	record := schema.HotelRecord{
		ID:          fmt.Sprintf("%s%d", IDPrefix, summary.ID),
		SupplierKey: summary.ID,
		Name:        summary.Name,
		StarRating:  summary.StarRating,
		CityID:      summary.CityID,
		CityName:    ctx.CityName,
		CountryName: ctx.CountryName,
		Latitude:    summary.Latitude,
		Longitude:   summary.Longitude,
		Description: description,
		Images:      Images(rawImages),
	}

	if record.StarRating == 0 {
		record.StarRating = StarRating(0, description, summary.Name)
	}

	return record
}
