package export

import (
	"fmt"

	"github.com/Domenick1991/gymbooking/internal/domain"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

// BookingsWorkbook renders the booking list into an xlsx workbook for the
// admin export endpoint.
func BookingsWorkbook(bookings []domain.Booking) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	headers := []string{"Reference", "User", "Class", "Date", "Status", "Amount", "Refund", "Rating", "Review", "Created"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}

	for row, b := range bookings {
		rating := ""
		if b.Rating != nil {
			rating = fmt.Sprintf("%d", *b.Rating)
		}
		values := []interface{}{
			b.Reference,
			b.UserID,
			b.ClassID,
			b.BookingDate,
			string(b.Status),
			float64(b.AmountCents) / 100,
			float64(b.RefundCents) / 100,
			rating,
			b.Review,
			b.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}
