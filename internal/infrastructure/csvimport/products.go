package csvimport

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

// Product columns. List columns separate ids with '|'.
const (
	ColName        = "name"
	ColSKU         = "sku"
	ColPrice       = "price"
	ColStock       = "stock"
	ColDescription = "description"
	ColCategoryID  = "category_id"
	ColDiscountID  = "discount_id"
	ColColorIDs    = "color_ids"
	ColMaterialIDs = "material_ids"
	ColFeatured    = "is_featured"
)

// RequiredProductColumns must be present in the header
var RequiredProductColumns = []string{ColName, ColSKU, ColPrice}

// ErrMissingColumns is returned when required headers are absent
var ErrMissingColumns = errors.New("CSV file missing required columns")

// RowError is a value that could not be converted
type RowError struct {
	Line    int
	Column  string
	Message string
}

func (e RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("line %d, %s: %s", e.Line, e.Column, e.Message)
}

// ReadProducts converts a product sheet into import rows. Rows with bad
// values are reported in the returned RowErrors and left out; a malformed
// file fails as a whole.
func ReadProducts(r io.Reader, opts ...Option) ([]catalogapp.CreateProductRequest, []RowError, error) {
	rd, err := NewReader(r, opts...)
	if err != nil {
		return nil, nil, err
	}
	if missing := rd.Missing(RequiredProductColumns...); len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var (
		items     []catalogapp.CreateProductRequest
		rowErrors []RowError
	)
	for {
		row, err := rd.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		item, errs := productFromRow(row)
		if len(errs) > 0 {
			rowErrors = append(rowErrors, errs...)
			continue
		}
		items = append(items, item)
	}
	return items, rowErrors, nil
}

func productFromRow(row Row) (catalogapp.CreateProductRequest, []RowError) {
	var errs []RowError
	fail := func(col, msg string) {
		errs = append(errs, RowError{Line: row.Line, Column: col, Message: msg})
	}

	item := catalogapp.CreateProductRequest{
		Name:        row.Get(ColName),
		SKU:         row.Get(ColSKU),
		Description: row.Get(ColDescription),
	}
	if item.Name == "" {
		fail(ColName, "is required")
	}
	if item.SKU == "" {
		fail(ColSKU, "is required")
	}

	price, err := decimal.NewFromString(row.Get(ColPrice))
	switch {
	case err != nil:
		fail(ColPrice, fmt.Sprintf("%q is not a number", row.Get(ColPrice)))
	case price.IsNegative():
		fail(ColPrice, "must not be negative")
	default:
		item.Price = price
	}

	if s := row.Get(ColStock); s != "" {
		stock, err := strconv.Atoi(s)
		if err != nil || stock < 0 {
			fail(ColStock, fmt.Sprintf("%q is not a non-negative whole number", s))
		}
		item.Stock = stock
	}

	if s := row.Get(ColFeatured); s != "" {
		featured, err := strconv.ParseBool(strings.ToLower(s))
		if err != nil {
			fail(ColFeatured, fmt.Sprintf("%q is not true or false", s))
		}
		item.IsFeatured = featured
	}

	var ok bool
	if item.CategoryID, ok = optionalID(row.Get(ColCategoryID)); !ok {
		fail(ColCategoryID, "is not a valid id")
	}
	if item.DiscountID, ok = optionalID(row.Get(ColDiscountID)); !ok {
		fail(ColDiscountID, "is not a valid id")
	}
	if item.ColorIDs, ok = idList(row.Get(ColColorIDs)); !ok {
		fail(ColColorIDs, "contains an invalid id")
	}
	if item.MaterialIDs, ok = idList(row.Get(ColMaterialIDs)); !ok {
		fail(ColMaterialIDs, "contains an invalid id")
	}
	return item, errs
}

func optionalID(s string) (*uuid.UUID, bool) {
	if s == "" {
		return nil, true
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, false
	}
	return &id, true
}

func idList(s string) ([]uuid.UUID, bool) {
	if s == "" {
		return nil, true
	}
	var ids []uuid.UUID
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
