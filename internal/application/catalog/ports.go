package catalog

import "io"

// ProductSheetParser lee una planilla de importación masiva de productos.
type ProductSheetParser interface {
	ParseProducts(r io.Reader) ([]ImportRow, error)
}
