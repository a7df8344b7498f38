package domain

import "time"

// StatisticsSnapshot is entirely server-computed; the console only renders
// and exports it.
type StatisticsSnapshot struct {
	PeriodStart    time.Time        `json:"period_start"`
	PeriodEnd      time.Time        `json:"period_end"`
	RevenueByMonth []MonthlyRevenue `json:"revenue_by_month"`
	Bookings       BookingStats     `json:"bookings"`
	Customers      CustomerStats    `json:"customers"`
	GeneratedAt    time.Time        `json:"generated_at"`
}

type MonthlyRevenue struct {
	Month   string  `json:"month"` // "2026-08"
	Revenue float64 `json:"revenue"`
	Tax     float64 `json:"tax"`
}

type BookingStats struct {
	Total     int `json:"total"`
	Confirmed int `json:"confirmed"`
	Cancelled int `json:"cancelled"`
}

type CustomerStats struct {
	Total     int     `json:"total"`
	New       int     `json:"new"`
	Returning int     `json:"returning"`
	AvgSpend  float64 `json:"avg_spend"`
}

type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// DateRange bounds a statistics query. Zero values mean "server default".
type DateRange struct {
	StartDate time.Time
	EndDate   time.Time
}
