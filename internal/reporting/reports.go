// Package reporting is the read-only analytical layer: every report is a
// pure function of the current entity set, with no mutation paths.
package reporting

import "time"

// CityCustomerCount is one row of the customers-per-city report.
type CityCustomerCount struct {
	City          string `json:"city"`
	Country       string `json:"country"`
	CustomerCount int64  `json:"customer_count"`
}

// CityElementCount counts active network elements per city and type.
type CityElementCount struct {
	City         string `json:"city"`
	ElementType  string `json:"element_type"`
	ElementCount int64  `json:"element_count"`
}

// EmployeeTicketCount counts tickets per employee and ticket status.
type EmployeeTicketCount struct {
	EmployeeID   int64  `json:"employee_id,string"`
	EmployeeName string `json:"employee_name"`
	Status       string `json:"status"`
	TicketCount  int64  `json:"ticket_count"`
}

// ResolutionStats is the mean resolution time over closed tickets.
type ResolutionStats struct {
	ClosedTickets        int64   `json:"closed_tickets"`
	AverageResolutionHrs float64 `json:"average_resolution_hours"`
}

// CustomerBillingAverage is one above-average billing customer.
type CustomerBillingAverage struct {
	CustomerID   int64   `json:"customer_id,string"`
	CustomerName string  `json:"customer_name"`
	AvgBilled    float64 `json:"avg_billed"`
}

// PaymentDelay is the days-to-pay figure for one completed payment.
type PaymentDelay struct {
	BillingID    int64     `json:"billing_id,string"`
	CustomerName string    `json:"customer_name"`
	IssueDate    time.Time `json:"issue_date"`
	PaymentDate  time.Time `json:"payment_date"`
	DaysToPay    int       `json:"days_to_pay"`
}

// PlanRevenue is total billed revenue for one plan.
type PlanRevenue struct {
	PlanID       int64  `json:"plan_id,string"`
	PlanName     string `json:"plan_name"`
	TotalRevenue int64  `json:"total_revenue"`
}

// LatestBill is the newest billing row for one subscription; rows tied on
// the maximal period end are all returned.
type LatestBill struct {
	CustomerID     int64     `json:"customer_id,string"`
	CustomerName   string    `json:"customer_name"`
	SubscriptionID int64     `json:"subscription_id,string"`
	BillingID      int64     `json:"billing_id,string"`
	PeriodStart    time.Time `json:"period_start"`
	PeriodEnd      time.Time `json:"period_end"`
	FinalAmount    int64     `json:"final_amount"`
	Status         string    `json:"status"`
}

// MonthlyUsageRow sums one customer+plan's usage inside a calendar month.
// DataGB is megabytes divided by 1024, rounded to two decimals.
type MonthlyUsageRow struct {
	CustomerID   int64   `json:"customer_id,string"`
	CustomerName string  `json:"customer_name"`
	PlanName     string  `json:"plan_name"`
	CallMinutes  int64   `json:"call_minutes"`
	DataGB       float64 `json:"data_gb"`
	SMSCount     int64   `json:"sms_count"`
}

// UsageScore is one customer's composite monthly usage score.
type UsageScore struct {
	CustomerID   int64   `json:"customer_id,string"`
	CustomerName string  `json:"customer_name"`
	CallMinutes  int64   `json:"call_minutes"`
	SMSCount     int64   `json:"sms_count"`
	DataGB       float64 `json:"data_gb"`
	Score        float64 `json:"score"`
}

// PromotionEffect ranks one promotion by the billing it drove after
// application. Ties share a rank and the next rank skips the tie group.
type PromotionEffect struct {
	PromotionID       int64  `json:"promotion_id,string"`
	PromotionName     string `json:"promotion_name"`
	SubscriptionCount int64  `json:"subscription_count"`
	CallMinutes       int64  `json:"call_minutes"`
	DataMB            int64  `json:"data_mb"`
	SMSCount          int64  `json:"sms_count"`
	TotalBilled       int64  `json:"total_billed"`
	BilledRank        int64  `json:"billed_rank"`
}

// TransactionTypeTotal aggregates ledger entries for one type.
type TransactionTypeTotal struct {
	Type        string `json:"type"`
	TxnCount    int64  `json:"txn_count"`
	TotalAmount int64  `json:"total_amount"`
}

// CustomerTransactionVolume is one top customer by transaction volume.
type CustomerTransactionVolume struct {
	CustomerID   int64  `json:"customer_id,string"`
	CustomerName string `json:"customer_name"`
	TxnCount     int64  `json:"txn_count"`
	TotalAmount  int64  `json:"total_amount"`
}

// FlaggedCustomer has at least one failed transaction and at least one
// support ticket; the two counts are independent.
type FlaggedCustomer struct {
	CustomerID         int64  `json:"customer_id,string"`
	CustomerName       string `json:"customer_name"`
	FailedTransactions int64  `json:"failed_transactions"`
	TicketCount        int64  `json:"ticket_count"`
}
