package infra

import (
	"fmt"
	"math/big"

	"github.com/jackc/pgx/v5/pgtype"
)

// NumericToFloat64 converts a pgtype.Numeric (from PostgreSQL numeric(15,2)
// money columns) to float64. Returns an error if the value is NULL, NaN or
// infinite.
func NumericToFloat64(n pgtype.Numeric) (float64, error) {
	if !n.Valid {
		return 0, fmt.Errorf("numeric value is NULL")
	}
	if n.NaN {
		return 0, fmt.Errorf("numeric value is NaN")
	}
	if n.InfinityModifier != pgtype.Finite {
		return 0, fmt.Errorf("numeric value is infinite")
	}

	f, err := n.Float64Value()
	if err != nil {
		return 0, fmt.Errorf("numeric to float64: %w", err)
	}
	return f.Float64, nil
}

// Float64ToNumeric converts a float64 amount to pgtype.Numeric for writing to
// PostgreSQL numeric(15,2). Amounts are stored with two fractional digits;
// anything finer is engine-internal pro-rating noise and is rounded away.
func Float64ToNumeric(v float64) pgtype.Numeric {
	cents := new(big.Float).Mul(big.NewFloat(v), big.NewFloat(100))
	i, _ := cents.Int(nil)
	// Round half away from zero on the truncated remainder.
	frac := new(big.Float).Sub(cents, new(big.Float).SetInt(i))
	half, _ := frac.Float64()
	if half >= 0.5 {
		i.Add(i, big.NewInt(1))
	} else if half <= -0.5 {
		i.Sub(i, big.NewInt(1))
	}
	return pgtype.Numeric{
		Int:              i,
		Exp:              -2,
		InfinityModifier: pgtype.Finite,
		Valid:            true,
	}
}
