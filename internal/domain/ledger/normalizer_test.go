package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/ledger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Reglas de signo por tipo de transacción:
//   RECEIVE / RETURN / INITIAL: cantidad > 0, delta positivo
//   SALE: cantidad > 0, delta negativo
//   ADJUSTMENT: cualquier signo menos cero, delta tal cual
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNormalize_ReglasDeSigno(t *testing.T) {
	cases := []struct {
		name     string
		txType   string
		quantity string
		want     string
		wantErr  error
	}{
		{"receive positivo", entity.TxTypeReceive, "20", "20", nil},
		{"receive negativo rechazado", entity.TxTypeReceive, "-3", "", domain.ErrInvalidQuantity},
		{"return positivo", entity.TxTypeReturn, "2.5", "2.5", nil},
		{"return negativo rechazado", entity.TxTypeReturn, "-2.5", "", domain.ErrInvalidQuantity},
		{"initial positivo", entity.TxTypeInitial, "100", "100", nil},
		{"initial negativo rechazado", entity.TxTypeInitial, "-1", "", domain.ErrInvalidQuantity},
		{"sale invierte el signo", entity.TxTypeSale, "7", "-7", nil},
		{"sale negativo rechazado", entity.TxTypeSale, "-7", "", domain.ErrInvalidQuantity},
		{"adjustment positivo pasa tal cual", entity.TxTypeAdjustment, "4", "4", nil},
		{"adjustment negativo pasa tal cual", entity.TxTypeAdjustment, "-4", "-4", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ledger.Normalize(tc.txType, dec(tc.quantity))
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tc.want)), "delta = %s, esperado %s", got, tc.want)
		})
	}
}

// La cantidad cero se rechaza para todos los tipos, incluido ADJUSTMENT.
func TestNormalize_CeroSiempreRechazado(t *testing.T) {
	for _, txType := range []string{
		entity.TxTypeReceive, entity.TxTypeSale, entity.TxTypeReturn,
		entity.TxTypeAdjustment, entity.TxTypeInitial,
	} {
		_, err := ledger.Normalize(txType, decimal.Zero)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "tipo %s", txType)
	}
}

func TestNormalize_TipoDesconocido(t *testing.T) {
	_, err := ledger.Normalize("TRANSFER", dec("1"))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// El delta en unidades base es delta * multiplicador; solo para reportes, el
// saldo almacenado siempre queda en la unidad declarada.
func TestBaseUnitsDelta(t *testing.T) {
	delta, err := ledger.Normalize(entity.TxTypeSale, dec("3"))
	require.NoError(t, err)
	base := ledger.BaseUnitsDelta(delta, dec("12")) // 1 caja = 12 piezas
	assert.True(t, base.Equal(dec("-36")), "base = %s", base)
}
