// Package export serializes already-aggregated data for download. Everything
// here receives final values and only formats them; no aggregation happens in
// this package.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"nami/internal/core"
)

var csvHeader = []string{"Data", "Tipo", "Categoria", "Valor", "Descrição"}

// WriteTransactionsCSV renders transactions as delimited text in the order
// they are given (the store already returns them newest date first).
func WriteTransactionsCSV(w io.Writer, txs []core.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, t := range txs {
		record := []string{
			t.Date.Format("02/01/2006"),
			kindLabel(t.Kind),
			t.Category,
			"R$ " + FormatBRL(t.Amount),
			t.Description,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func kindLabel(k core.Kind) string {
	if k == core.Income {
		return "Receita"
	}
	return "Despesa"
}

// FormatBRL renders cents with pt-BR separators, e.g. 123456789 -> "1.234.567,89".
func FormatBRL(m core.Money) string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}

	intPart := strconv.FormatInt(cents/100, 10)
	var grouped []byte
	for i, digit := range []byte(intPart) {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped = append(grouped, '.')
		}
		grouped = append(grouped, digit)
	}

	out := fmt.Sprintf("%s,%02d", grouped, cents%100)
	if neg {
		return "-" + out
	}
	return out
}
