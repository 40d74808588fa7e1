package httpserver

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleExportOrders(w http.ResponseWriter, r *http.Request) {
	lines, err := s.orders.Orders.ListAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("export commandes")
		http.Error(w, "export", http.StatusInternalServerError)
		return
	}
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Commandes"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		http.Error(w, "export", http.StatusInternalServerError)
		return
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Client", "ISBN", "Titre", "Prix", "Date"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for i, l := range lines {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), l.ID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), l.ClientID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), l.LivreISBN)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), l.TitreLivre)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), l.Prix)
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), l.CreatedAt.Format("2006-01-02 15:04"))
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="commandes.xlsx"`)
	if err := f.Write(w); err != nil {
		log.Error().Err(err).Msg("écriture xlsx commandes")
	}
}

func (s *Server) handleExportClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.customers.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("export clients")
		http.Error(w, "export", http.StatusInternalServerError)
		return
	}
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Clients"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		http.Error(w, "export", http.StatusInternalServerError)
		return
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Nom", "Prénom", "Âge", "Email", "Téléphone"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for i, c := range clients {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), c.ID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), c.Nom)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), c.Prenom)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), c.Age)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), c.Email)
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), c.Telephone)
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="clients.xlsx"`)
	if err := f.Write(w); err != nil {
		log.Error().Err(err).Msg("écriture xlsx clients")
	}
}
