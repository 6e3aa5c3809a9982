package server

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Pavanreddy56/BKI-company/internal/response"
)

// handleExport streams quotes, shipments or invoices as CSV or Excel.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, entity string) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		response.Err(w, "format must be csv or xlsx", http.StatusBadRequest)
		return
	}

	var headers []string
	var data [][]string

	switch entity {
	case "quotes":
		quotes, err := s.store.GetAllQuotes(r.Context())
		if err != nil {
			s.serverError(w, "export quotes", err)
			return
		}
		headers = []string{"ID", "Company", "Contact", "Email", "Product", "Quantity", "Status", "Quoted Price", "Created At"}
		for _, q := range quotes {
			price := ""
			if q.QuotedPrice != nil {
				price = strconv.FormatFloat(*q.QuotedPrice, 'f', 2, 64)
			}
			data = append(data, []string{
				strconv.Itoa(q.ID), q.CompanyName, q.ContactPerson, q.Email,
				q.ProductDescription, q.Quantity, q.Status, price,
				q.CreatedAt.Format(time.RFC3339),
			})
		}
	case "shipments":
		shipments, err := s.store.GetAllShipments(r.Context())
		if err != nil {
			s.serverError(w, "export shipments", err)
			return
		}
		headers = []string{"ID", "Tracking Number", "Origin", "Destination", "Status", "Carrier", "Method", "Created At"}
		for _, sh := range shipments {
			data = append(data, []string{
				strconv.Itoa(sh.ID), sh.TrackingNumber, sh.Origin, sh.Destination,
				sh.Status, strDeref(sh.Carrier), strDeref(sh.ShippingMethod),
				sh.CreatedAt.Format(time.RFC3339),
			})
		}
	case "invoices":
		invoices, err := s.store.GetAllInvoices(r.Context())
		if err != nil {
			s.serverError(w, "export invoices", err)
			return
		}
		headers = []string{"ID", "Invoice Number", "Amount", "Currency", "Status", "Due Date", "Created At"}
		for _, inv := range invoices {
			due := ""
			if inv.DueDate != nil {
				due = inv.DueDate.Format("2006-01-02")
			}
			data = append(data, []string{
				strconv.Itoa(inv.ID), inv.InvoiceNumber,
				strconv.FormatFloat(inv.Amount, 'f', 2, 64), inv.Currency,
				inv.Status, due, inv.CreatedAt.Format(time.RFC3339),
			})
		}
	default:
		response.Err(w, "unknown export entity", http.StatusNotFound)
		return
	}

	if format == "xlsx" {
		s.writeExcel(w, entity, headers, data)
	} else {
		writeCSV(w, entity+".csv", headers, data)
	}
}

func strDeref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func writeCSV(w http.ResponseWriter, filename string, headers []string, data [][]string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		return
	}
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			return
		}
	}
}

func (s *Server) writeExcel(w http.ResponseWriter, sheetName string, headers []string, data [][]string) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		response.Err(w, "failed to build workbook", http.StatusInternalServerError)
		return
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		response.Err(w, "failed to build workbook", http.StatusInternalServerError)
		return
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+i)))
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}
	for rowIdx, row := range data {
		for colIdx, value := range row {
			cell := fmt.Sprintf("%s%d", string(rune('A'+colIdx)), rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}
	for i := range headers {
		col := string(rune('A' + i))
		f.SetColWidth(sheetName, col, col, 15)
	}
	if sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", sheetName))
	if err := f.Write(w); err != nil {
		s.log.Error("write workbook", zap.Error(err))
	}
}
