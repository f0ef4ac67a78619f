package reports

import (
	"fmt"
	"time"

	"barpos/internal/repository"
	"barpos/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"
)

// DailySummary is the end of day snapshot for one business date.
type DailySummary struct {
	Date          string             `json:"date"`
	OrderCount    int                `json:"order_count"`
	GrossRevenue  decimal.Decimal    `json:"gross_revenue"`
	TotalVAT      decimal.Decimal    `json:"total_vat"`
	TotalDiscount decimal.Decimal    `json:"total_discount"`
	ByPayment     []PaymentBreakdown `json:"by_payment_method"`
	TopItems      []TopItem          `json:"top_items"`
}

type PaymentBreakdown struct {
	Method string          `json:"payment_method" db:"payment_method"`
	Count  int             `json:"count" db:"count"`
	Amount decimal.Decimal `json:"amount" db:"amount"`
}

type TopItem struct {
	ItemName string          `json:"item_name" db:"item_name"`
	Quantity int             `json:"quantity" db:"quantity"`
	Revenue  decimal.Decimal `json:"revenue" db:"revenue"`
}

type ReportRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *ReportRepository {
	return &ReportRepository{repository: r}
}

const topItemsLimit = 10

// GetDailySummary aggregates completed orders created within the given
// calendar day.
func (r *ReportRepository) GetDailySummary(day time.Time) (*DailySummary, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.Add(24 * time.Hour)

	summary := &DailySummary{
		Date:          from.Format("2006-01-02"),
		GrossRevenue:  decimal.Zero,
		TotalVAT:      decimal.Zero,
		TotalDiscount: decimal.Zero,
	}

	totalsRow := struct {
		OrderCount    int              `db:"order_count"`
		GrossRevenue  *decimal.Decimal `db:"gross_revenue"`
		TotalVAT      *decimal.Decimal `db:"total_vat"`
		TotalDiscount *decimal.Decimal `db:"total_discount"`
	}{}

	totalsQuery := r.repository.GoquDBWrapper.
		From("orders").
		Select(
			goqu.COUNT("*").As("order_count"),
			goqu.SUM("total_amount").As("gross_revenue"),
			goqu.SUM("vat_amount").As("total_vat"),
			goqu.SUM("discount_amount").As("total_discount"),
		).
		Where(
			goqu.C("status").Eq(models.OrderStatusCompleted),
			goqu.C("created_at").Gte(from),
			goqu.C("created_at").Lt(to),
		)

	if _, err := totalsQuery.Executor().ScanStruct(&totalsRow); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	summary.OrderCount = totalsRow.OrderCount
	if totalsRow.GrossRevenue != nil {
		summary.GrossRevenue = *totalsRow.GrossRevenue
	}
	if totalsRow.TotalVAT != nil {
		summary.TotalVAT = *totalsRow.TotalVAT
	}
	if totalsRow.TotalDiscount != nil {
		summary.TotalDiscount = *totalsRow.TotalDiscount
	}

	byPayment, err := r.getPaymentBreakdown(from, to)
	if err != nil {
		return nil, err
	}
	summary.ByPayment = byPayment

	topItems, err := r.getTopItems(from, to)
	if err != nil {
		return nil, err
	}
	summary.TopItems = topItems

	return summary, nil
}

func (r *ReportRepository) getPaymentBreakdown(from, to time.Time) ([]PaymentBreakdown, error) {
	var breakdown = []PaymentBreakdown{}

	query := r.repository.GoquDBWrapper.
		From(goqu.T("payments").As("p")).
		Select(
			goqu.I("p.payment_method").As("payment_method"),
			goqu.COUNT("*").As("count"),
			goqu.SUM(goqu.I("p.amount")).As("amount"),
		).
		Join(goqu.T("orders").As("o"), goqu.On(goqu.Ex{"p.order_id": goqu.I("o.id")})).
		Where(
			goqu.I("o.status").Eq(models.OrderStatusCompleted),
			goqu.I("o.created_at").Gte(from),
			goqu.I("o.created_at").Lt(to),
		).
		GroupBy(goqu.I("p.payment_method")).
		Order(goqu.I("amount").Desc())

	if err := query.Executor().ScanStructs(&breakdown); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return breakdown, nil
}

func (r *ReportRepository) getTopItems(from, to time.Time) ([]TopItem, error) {
	var items = []TopItem{}

	query := r.repository.GoquDBWrapper.
		From(goqu.T("order_items").As("oi")).
		Select(
			goqu.I("oi.item_name").As("item_name"),
			goqu.SUM(goqu.I("oi.quantity")).As("quantity"),
			goqu.SUM(goqu.I("oi.total_price")).As("revenue"),
		).
		Join(goqu.T("orders").As("o"), goqu.On(goqu.Ex{"oi.order_id": goqu.I("o.id")})).
		Where(
			goqu.I("o.status").Eq(models.OrderStatusCompleted),
			goqu.I("o.created_at").Gte(from),
			goqu.I("o.created_at").Lt(to),
		).
		GroupBy(goqu.I("oi.item_name")).
		Order(goqu.I("quantity").Desc()).
		Limit(topItemsLimit)

	if err := query.Executor().ScanStructs(&items); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return items, nil
}
