package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/sanjerfit/webadmin-gateway/internal/collaborators/domain"
)

var exportHeader = []string{
	"ID", "Nombre", "Email", "Teléfono", "Área", "Nivel", "Estado",
	"IMC", "CoinFits", "Última actividad",
}

// WriteCollaboratorsCSV renders the filtered roster as CSV, one row per
// collaborator, in the column order the HR team imports from.
func WriteCollaboratorsCSV(w io.Writer, rows []domain.Collaborator) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, c := range rows {
		lastActive := ""
		if !c.LastActive.IsZero() {
			lastActive = c.LastActive.Format("2006-01-02")
		}

		record := []string{
			c.ID, c.Name, c.Email, c.Phone, c.Area,
			string(c.Level), string(c.Status),
			c.BMI, strconv.Itoa(c.CoinFits), lastActive,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
