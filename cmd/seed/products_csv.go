package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stockpilot-api/internal/application/dto"
)

// Columnas reconocidas del CSV de productos (cabecera obligatoria, orden libre).
const (
	colSKU           = "sku"
	colName          = "name"
	colCategory      = "category"
	colBrand         = "brand"
	colUnit          = "unit"
	colPurchasePrice = "purchase_price"
	colSellingPrice  = "selling_price"
	colTaxRate       = "tax_rate"
	colQuantity      = "quantity"
	colReorderPoint  = "reorder_point"
)

// decodeCSV devuelve el contenido en UTF-8. Con encoding "auto" se asume ISO-8859-1
// cuando los bytes no son UTF-8 válido (exportaciones de Excel en Windows).
func decodeCSV(raw []byte, encoding string) ([]byte, error) {
	switch strings.ToLower(encoding) {
	case "utf-8", "utf8":
		return bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf")), nil
	case "latin1", "iso-8859-1":
	case "auto", "":
		if utf8.Valid(raw) {
			return bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf")), nil
		}
	default:
		return nil, fmt.Errorf("encoding desconocido %q", encoding)
	}
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("decodificar ISO-8859-1: %w", err)
	}
	return out, nil
}

// parseProductsCSV convierte el CSV a solicitudes de creación. Acepta ',' o ';' como separador.
func parseProductsCSV(data []byte) ([]dto.CreateProductRequest, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = detectComma(data)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("leer cabecera: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, req := range []string{colSKU, colName, colSellingPrice} {
		if _, ok := idx[req]; !ok {
			return nil, fmt.Errorf("falta la columna %q", req)
		}
	}

	var out []dto.CreateProductRequest
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		var nums [5]decimal.Decimal
		for i, col := range []string{colPurchasePrice, colSellingPrice, colTaxRate, colQuantity, colReorderPoint} {
			if nums[i], err = parseAmount(get(col)); err != nil {
				return nil, fmt.Errorf("línea %d, columna %s: %w", line, col, err)
			}
		}
		unit := get(colUnit)
		if unit == "" {
			unit = "piece"
		}
		out = append(out, dto.CreateProductRequest{
			SKU:      get(colSKU),
			Name:     get(colName),
			Category: get(colCategory),
			Brand:    get(colBrand),
			Unit:     unit,
			Pricing: dto.PricingDTO{
				PurchasePrice: nums[0],
				SellingPrice:  nums[1],
				TaxRate:       nums[2],
			},
			Stock: dto.StockDTO{Quantity: nums[3], ReorderPoint: nums[4]},
		})
	}
	return out, nil
}

func detectComma(data []byte) rune {
	first, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		return ';'
	}
	return ','
}

// parseAmount acepta "1234.5" o "1234,5"; vacío = 0.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}
