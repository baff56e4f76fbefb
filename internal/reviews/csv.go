package reviews

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	pkgerrors "github.com/smallwonder/storefront-api/pkg/errors"
)

// Column order is a wire contract with existing review files; new columns
// may only be appended after the last one.
const (
	colDate        = "Date of Published"
	colSkuInfo     = "Sku Info"
	colLogistics   = "Logistics"
	colVoteCount   = "Vote Count"
	colTranslation = "Translation Review"
	colIsAnonymous = "Is Anonymous"
	colImages      = "Images"
	colRating      = "Rating"
	colName        = "Name"
	colAvatar      = "Avatar"
	colCountry     = "Country"
	colReview      = "Review"
)

var headerOrder = []string{
	colDate, colSkuInfo, colLogistics, colVoteCount, colTranslation,
	colIsAnonymous, colImages, colRating, colName, colAvatar,
	colCountry, colReview,
}

// parseCSV maps rows to reviews via header-name lookup, so files with
// reordered or extra columns still parse. Numeric fields that fail to parse
// default to zero instead of failing the whole file.
func parseCSV(data []byte) ([]Review, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse reviews csv")
	}
	if len(records) == 0 {
		return []Review{}, nil
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[strings.TrimSpace(name)] = i
	}

	field := func(row []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	parsed := make([]Review, 0, len(records)-1)
	for _, row := range records[1:] {
		review := Review{
			Date:        field(row, colDate),
			SkuInfo:     field(row, colSkuInfo),
			Logistics:   field(row, colLogistics),
			VoteCount:   defensiveInt(field(row, colVoteCount)),
			Translation: field(row, colTranslation),
			IsAnonymous: strings.EqualFold(field(row, colIsAnonymous), "TRUE"),
			Images:      splitImages(field(row, colImages)),
			Rating:      defensiveInt(field(row, colRating)),
			Name:        field(row, colName),
			Avatar:      field(row, colAvatar),
			Country:     field(row, colCountry),
			Content:     field(row, colReview),
		}
		parsed = append(parsed, review)
	}
	return parsed, nil
}

// encodeCSV re-serializes the whole file in the fixed header order.
func encodeCSV(reviews []Review) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headerOrder); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write reviews header")
	}

	for _, review := range reviews {
		anonymous := "FALSE"
		if review.IsAnonymous {
			anonymous = "TRUE"
		}
		row := []string{
			review.Date,
			review.SkuInfo,
			review.Logistics,
			strconv.Itoa(review.VoteCount),
			review.Translation,
			anonymous,
			strings.Join(review.Images, ","),
			strconv.Itoa(review.Rating),
			review.Name,
			review.Avatar,
			review.Country,
			review.Content,
		}
		if err := writer.Write(row); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write review row")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "flush reviews csv")
	}
	return buf.Bytes(), nil
}

func defensiveInt(value string) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return parsed
}

func splitImages(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	parts := strings.Split(cell, ",")
	images := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			images = append(images, trimmed)
		}
	}
	return images
}
