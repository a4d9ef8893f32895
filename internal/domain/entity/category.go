package entity

// Category es la clasificación ABC de un producto según su participación en el valor total del inventario.
// Nunca se captura a mano: la asigna el motor de clasificación.
type Category string

const (
	CategoryA Category = "A" // concentra hasta el 80% acumulado del valor
	CategoryB Category = "B" // del 80% al 95%
	CategoryC Category = "C" // resto
)

// Valid indica si c es una de las tres categorías.
func (c Category) Valid() bool {
	return c == CategoryA || c == CategoryB || c == CategoryC
}

// Rank devuelve el orden de presentación (A < B < C); categorías desconocidas van al final.
func (c Category) Rank() int {
	switch c {
	case CategoryA:
		return 1
	case CategoryB:
		return 2
	case CategoryC:
		return 3
	default:
		return 4
	}
}
