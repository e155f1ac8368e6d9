package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/brunocorregedoria/reforma2/internal/models"
)

// WorkOrderPDF renders a one-page summary sheet for a work order: project,
// status, costs, checkpoint progress and consumed materials.
func WorkOrderPDF(workOrder *models.WorkOrder) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("Work Order #%d", workOrder.ID), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, workOrder.Title, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	writeRow := func(label, value string) {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(45, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
	}

	if workOrder.Project != nil {
		writeRow("Project", workOrder.Project.Name)
		writeRow("Client", workOrder.Project.Client)
	}
	writeRow("Status", strings.ReplaceAll(string(workOrder.Status), "_", " "))
	writeRow("Service type", workOrder.ServiceType)
	if workOrder.Responsible != nil {
		writeRow("Responsible", workOrder.Responsible.Name)
	}
	writeRow("Opened at", workOrder.OpenedAt.Format("2006-01-02"))
	writeRow("Estimated cost", fmt.Sprintf("%.2f", workOrder.EstimatedCost))
	writeRow("Actual cost", fmt.Sprintf("%.2f", workOrder.ActualCost))
	pdf.Ln(4)

	completed := 0
	for _, cp := range workOrder.Checkpoints {
		if cp.Completed {
			completed++
		}
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Checkpoints (%d/%d completed)", completed, len(workOrder.Checkpoints)), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, cp := range workOrder.Checkpoints {
		mark := "[ ]"
		if cp.Completed {
			mark = "[x]"
		}
		pdf.CellFormat(0, 6, fmt.Sprintf("%s %d. %s", mark, cp.Position, cp.Name), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Materials", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	var materialCost float64
	for _, mu := range workOrder.MaterialUsages {
		name := fmt.Sprintf("material #%d", mu.MaterialID)
		unit := ""
		if mu.Material != nil {
			name = mu.Material.Name
			unit = mu.Material.Unit
		}
		pdf.CellFormat(0, 6, fmt.Sprintf("%s: %d %s (%.2f)", name, mu.Quantity, unit, mu.TotalCost), "", 1, "L", false, 0, "")
		materialCost += mu.TotalCost
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 7, fmt.Sprintf("Total material cost: %.2f", materialCost), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WorkOrderQRPNG encodes a printable link to the work order's page for field
// technicians.
func WorkOrderQRPNG(frontendURL string, workOrderID uint) ([]byte, error) {
	base := strings.TrimRight(frontendURL, "/")
	if base == "" || base == "*" {
		base = "http://localhost:3001"
	}
	content := fmt.Sprintf("%s/work_orders/%d", base, workOrderID)
	return qrcode.Encode(content, qrcode.Medium, 256)
}
