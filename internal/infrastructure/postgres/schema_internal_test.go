package postgres

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

// El costo unitario entra en la valoración ABC; la columna no debe redondearlo a centavos.
func TestSchema_CostoUnitarioConservaDecimales(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`costo_unitario\s+NUMERIC\(18, 6\) NOT NULL`), schemaSQL)
	assert.Contains(t, schemaSQL, "ALTER COLUMN costo_unitario TYPE NUMERIC(18, 6)")
	assert.NotRegexp(t, regexp.MustCompile(`costo_unitario\s+NUMERIC\(14, 2\) NOT NULL`), schemaSQL)
}
