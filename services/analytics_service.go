package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"restaurant-pos/apperror"
	"restaurant-pos/models"
	"restaurant-pos/store"
)

const dateLayout = "2006-01-02"

// DefaultAnalyticsDays is the window used when no range is given
const DefaultAnalyticsDays = 7

type DailySales struct {
	Date        string  `json:"date"`
	TotalOrders int     `json:"totalOrders"`
	Revenue     float64 `json:"revenue"`
}

type ItemSales struct {
	MenuID  string  `json:"menuId"`
	Name    string  `json:"name"`
	QtySold int     `json:"qtySold"`
	Revenue float64 `json:"revenue"`
}

type SalesSummary struct {
	From              string       `json:"from"`
	To                string       `json:"to"`
	TotalRevenue      float64      `json:"totalRevenue"`
	TotalOrders       int          `json:"totalOrders"`
	AverageOrderValue float64      `json:"averageOrderValue"`
	Daily             []DailySales `json:"daily"`
	Items             []ItemSales  `json:"items"`
}

type AnalyticsService struct {
	repo store.Repository
	// Clock and Location decide what "today" is
	Clock    func() time.Time
	Location *time.Location
}

func NewAnalyticsService(repo store.Repository) *AnalyticsService {
	return &AnalyticsService{repo: repo, Clock: time.Now, Location: time.Local}
}

// ParseRange turns optional YYYY-MM-DD bounds into an inclusive day range.
// Missing bounds default to the last DefaultAnalyticsDays days ending today.
func (s *AnalyticsService) ParseRange(from, to string) (time.Time, time.Time, error) {
	today := startOfDay(s.Clock().In(s.Location))
	end := today
	if to != "" {
		parsed, err := time.ParseInLocation(dateLayout, to, s.Location)
		if err != nil {
			return time.Time{}, time.Time{}, apperror.Validation("to must be a YYYY-MM-DD date")
		}
		end = parsed
	}
	start := end.AddDate(0, 0, -(DefaultAnalyticsDays - 1))
	if from != "" {
		parsed, err := time.ParseInLocation(dateLayout, from, s.Location)
		if err != nil {
			return time.Time{}, time.Time{}, apperror.Validation("from must be a YYYY-MM-DD date")
		}
		start = parsed
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, apperror.Validation("from must not be after to")
	}
	return start, end, nil
}

// Summary reports revenue for billed and closed orders placed between the
// two days, both inclusive
func (s *AnalyticsService) Summary(ctx context.Context, from, to time.Time) (*SalesSummary, error) {
	orders, err := s.repo.ListOrders(ctx, store.OrderFilter{
		Statuses: []models.OrderStatus{models.StatusBilled, models.StatusClosed},
	})
	if err != nil {
		return nil, err
	}

	start := startOfDay(from.In(s.Location))
	endExclusive := startOfDay(to.In(s.Location)).AddDate(0, 0, 1)

	summary := &SalesSummary{
		From:  start.Format(dateLayout),
		To:    endExclusive.AddDate(0, 0, -1).Format(dateLayout),
		Daily: []DailySales{},
		Items: []ItemSales{},
	}
	type dayTally struct {
		orders  int
		revenue decimal.Decimal
	}
	type itemTally struct {
		name    string
		qty     int
		revenue decimal.Decimal
	}
	revenue := decimal.Zero
	daily := map[string]*dayTally{}
	items := map[string]*itemTally{}

	for _, order := range orders {
		created := order.CreatedAt.In(s.Location)
		if created.Before(start) || !created.Before(endExclusive) {
			continue
		}
		total := decimal.NewFromFloat(order.Total)
		summary.TotalOrders++
		revenue = revenue.Add(total)

		day := created.Format(dateLayout)
		if daily[day] == nil {
			daily[day] = &dayTally{}
		}
		daily[day].orders++
		daily[day].revenue = daily[day].revenue.Add(total)

		for _, line := range order.Items {
			if items[line.MenuID] == nil {
				items[line.MenuID] = &itemTally{name: line.Name}
			}
			items[line.MenuID].qty += line.Qty
			items[line.MenuID].revenue = items[line.MenuID].revenue.Add(line.LineAmount())
		}
	}

	summary.TotalRevenue = revenue.Round(2).InexactFloat64()
	if summary.TotalOrders > 0 {
		summary.AverageOrderValue = revenue.Div(decimal.NewFromInt(int64(summary.TotalOrders))).Round(2).InexactFloat64()
	}
	for day, d := range daily {
		summary.Daily = append(summary.Daily, DailySales{
			Date:        day,
			TotalOrders: d.orders,
			Revenue:     d.revenue.Round(2).InexactFloat64(),
		})
	}
	sort.Slice(summary.Daily, func(i, j int) bool { return summary.Daily[i].Date < summary.Daily[j].Date })

	for menuID, it := range items {
		if it.qty <= 0 {
			continue
		}
		summary.Items = append(summary.Items, ItemSales{
			MenuID:  menuID,
			Name:    it.name,
			QtySold: it.qty,
			Revenue: it.revenue.Round(2).InexactFloat64(),
		})
	}
	sort.Slice(summary.Items, func(i, j int) bool {
		if summary.Items[i].Revenue != summary.Items[j].Revenue {
			return summary.Items[i].Revenue > summary.Items[j].Revenue
		}
		return summary.Items[i].Name < summary.Items[j].Name
	})
	return summary, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
