package services

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/example/kcx/internal/models"
)

const exportTimeLayout = "2006-01-02 15:04"

// BuildOrdersCSV renders the admin order export: one header row plus one
// row per order, timestamps formatted YYYY-MM-DD HH:MM.
func BuildOrdersCSV(orders []models.Order) string {
	var b strings.Builder

	w := csv.NewWriter(&b)
	_ = w.Write([]string{"Order ID", "Created", "Name", "Phone", "City", "Total", "Status", "Payment Status"})

	for _, o := range orders {
		_ = w.Write([]string{
			o.ID.String(),
			o.CreatedAt.Format(exportTimeLayout),
			o.CustomerName,
			o.Phone,
			o.City,
			strconv.FormatInt(o.TotalAmount, 10),
			o.Status,
			o.PaymentStatus,
		})
	}

	w.Flush()
	return b.String()
}
