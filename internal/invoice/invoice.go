package invoice

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/jewelen/marketplace-backend/internal/models"
)

// Renderer produces PDF invoices for orders.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render draws the invoice for a paid (or any) order. products maps
// product IDs to their catalog records for name lookup.
func (r *Renderer) Render(order *models.Order, buyer *models.User, address *models.Address, products map[string]models.Product) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Invoice %s", order.Receipt), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 12, "Jewelen")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Invoice: %s", order.Receipt))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Order: %s", order.ID))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", order.CreatedAt.Format("02 Jan 2006")))
	pdf.Ln(6)
	if order.GatewayPaymentID != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Payment reference: %s", order.GatewayPaymentID))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 6, "Billed to")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 5, buyer.Name)
	pdf.Ln(5)
	pdf.Cell(0, 5, buyer.Email)
	pdf.Ln(5)
	if address != nil {
		pdf.Cell(0, 5, address.Line1)
		pdf.Ln(5)
		pdf.Cell(0, 5, fmt.Sprintf("%s, %s %s", address.City, address.State, address.PostalCode))
		pdf.Ln(5)
		pdf.Cell(0, 5, address.Country)
		pdf.Ln(5)
	}
	pdf.Ln(6)

	// Line items table
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(90, 8, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Unit price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Amount", "1", 0, "R", true, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range order.Items {
		name := item.ProductID.String()
		if p, ok := products[item.ProductID.String()]; ok {
			name = p.Name
		}
		amount := item.PriceAtOrder * float64(item.Quantity)
		pdf.CellFormat(90, 8, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", item.PriceAtOrder), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", amount), "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(150, 7, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", order.TotalAmount), "", 0, "R", false, 0, "")
	pdf.Ln(7)
	if order.DiscountAmount > 0 {
		label := "Discount"
		if order.CouponCode != nil {
			label = fmt.Sprintf("Discount (%s)", *order.CouponCode)
		}
		pdf.CellFormat(150, 7, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("-%.2f", order.DiscountAmount), "", 0, "R", false, 0, "")
		pdf.Ln(7)
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(150, 8, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", order.FinalAmount()), "", 0, "R", false, 0, "")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 5, "Thank you for shopping with Jewelen.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice: %w", err)
	}
	return buf.Bytes(), nil
}
