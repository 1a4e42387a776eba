// Package seed loads a small, idempotent sample dataset so a fresh
// install has something to report on. Rows are keyed on natural keys
// (city+country, plan code, phone, employee email) and re-running the
// seed never duplicates them.
package seed

import (
	"context"
	"crypto/rand"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	billingdomain "github.com/telvoralabs/telvora/internal/billing/domain"
	custdomain "github.com/telvoralabs/telvora/internal/customer/domain"
	ledgerdomain "github.com/telvoralabs/telvora/internal/ledger/domain"
	netdomain "github.com/telvoralabs/telvora/internal/network/domain"
	plandomain "github.com/telvoralabs/telvora/internal/plan/domain"
	promodomain "github.com/telvoralabs/telvora/internal/promotion/domain"
	refdomain "github.com/telvoralabs/telvora/internal/reference/domain"
	subdomain "github.com/telvoralabs/telvora/internal/subscription/domain"
	supportdomain "github.com/telvoralabs/telvora/internal/support/domain"
	usagedomain "github.com/telvoralabs/telvora/internal/usage/domain"
	"gorm.io/gorm"
)

// EnsureSampleData seeds the demo dataset inside one transaction.
func EnsureSampleData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(9)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s := seeder{ctx: ctx, tx: tx, node: node, now: time.Now().UTC()}
		return s.run()
	})
}

type seeder struct {
	ctx  context.Context
	tx   *gorm.DB
	node *snowflake.Node
	now  time.Time
}

func (s *seeder) run() error {
	oslo, err := s.ensureLocation("Oslo", "Norway")
	if err != nil {
		return err
	}
	bergen, err := s.ensureLocation("Bergen", "Norway")
	if err != nil {
		return err
	}
	gothenburg, err := s.ensureLocation("Gothenburg", "Sweden")
	if err != nil {
		return err
	}

	basic, err := s.ensurePlan("Basic Talk", "basic-talk", 19900, 2048, 300, 100)
	if err != nil {
		return err
	}
	unlimited, err := s.ensurePlan("Unlimited Data", "unlimited-data", 49900, 102400, 1000, 1000)
	if err != nil {
		return err
	}

	admin, err := s.ensureEmployee("Sigrid Holm", "sigrid.holm@telvora.example", netdomain.EmployeeRoleNetworkAdmin)
	if err != nil {
		return err
	}
	agent, err := s.ensureEmployee("Jonas Berg", "jonas.berg@telvora.example", netdomain.EmployeeRoleSupport)
	if err != nil {
		return err
	}

	tower, err := s.ensureElement(netdomain.ElementTypeTower, oslo.ID, admin.ID)
	if err != nil {
		return err
	}
	if _, err := s.ensureElement(netdomain.ElementTypeRouter, bergen.ID, admin.ID); err != nil {
		return err
	}
	if _, err := s.ensureElement(netdomain.ElementTypeSwitch, gothenburg.ID, admin.ID); err != nil {
		return err
	}

	anna, err := s.ensureCustomer("Anna Lindqvist", "+4740000001", "anna.lindqvist@example.com", oslo.ID)
	if err != nil {
		return err
	}
	erik, err := s.ensureCustomer("Erik Dahl", "+4740000002", "erik.dahl@example.com", bergen.ID)
	if err != nil {
		return err
	}
	maja, err := s.ensureCustomer("Maja Nilsen", "+4640000003", "maja.nilsen@example.com", gothenburg.ID)
	if err != nil {
		return err
	}

	annaSub, err := s.ensureSubscription(anna.ID, unlimited.ID, s.now.AddDate(0, -6, 0), s.now.AddDate(0, 6, 0))
	if err != nil {
		return err
	}
	erikSub, err := s.ensureSubscription(erik.ID, basic.ID, s.now.AddDate(0, -3, 0), s.now.AddDate(0, 9, 0))
	if err != nil {
		return err
	}
	if _, err := s.ensureSubscription(maja.ID, basic.ID, s.now.AddDate(0, -1, 0), s.now.AddDate(0, 11, 0)); err != nil {
		return err
	}

	promo, err := s.ensurePromotion("Winter Saver", 5000, unlimited.ID)
	if err != nil {
		return err
	}
	if err := s.ensureAppliedPromotion(annaSub.ID, promo.ID, s.now.AddDate(0, -2, 0)); err != nil {
		return err
	}

	if err := s.ensureUsage(annaSub.ID, tower.ID, usagedomain.UsageTypeData, 1024, s.now.AddDate(0, 0, -10)); err != nil {
		return err
	}
	if err := s.ensureUsage(annaSub.ID, tower.ID, usagedomain.UsageTypeData, 512, s.now.AddDate(0, 0, -9)); err != nil {
		return err
	}
	if err := s.ensureUsage(annaSub.ID, tower.ID, usagedomain.UsageTypeCall, 42, s.now.AddDate(0, 0, -8)); err != nil {
		return err
	}
	if err := s.ensureUsage(erikSub.ID, tower.ID, usagedomain.UsageTypeSMS, 7, s.now.AddDate(0, 0, -7)); err != nil {
		return err
	}

	annaBill, err := s.ensureBilling(annaSub.ID, s.now.AddDate(0, -1, 0), s.now, 49900, 5000)
	if err != nil {
		return err
	}
	if err := s.ensurePayment(annaBill.ID, annaBill.TotalAmount-annaBill.DiscountAmount, billingdomain.PaymentStatusCompleted); err != nil {
		return err
	}
	if _, err := s.ensureBilling(erikSub.ID, s.now.AddDate(0, -1, 0), s.now, 19900, 0); err != nil {
		return err
	}

	if err := s.ensureTransaction(anna.ID, ledgerdomain.TransactionTypeDeposit, 100000, ledgerdomain.TransactionStatusCompleted); err != nil {
		return err
	}
	if err := s.ensureTransaction(erik.ID, ledgerdomain.TransactionTypeWithdraw, 25000, ledgerdomain.TransactionStatusFailed); err != nil {
		return err
	}

	return s.ensureTicket(erik.ID, agent.ID, supportdomain.TicketTypeBilling)
}

func (s *seeder) ensureLocation(city, country string) (*refdomain.Location, error) {
	var row refdomain.Location
	err := s.tx.Where("city = ? AND country = ?", city, country).First(&row).Error
	if err == nil {
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row = refdomain.Location{ID: s.node.Generate(), City: city, Country: country, CreatedAt: s.now}
	if err := s.tx.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *seeder) ensurePlan(name, code string, price, dataMB, callMin, sms int64) (*plandomain.ServicePlan, error) {
	var row plandomain.ServicePlan
	err := s.tx.Where("code = ?", code).First(&row).Error
	if err == nil {
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row = plandomain.ServicePlan{
		ID:               s.node.Generate(),
		Name:             name,
		Code:             code,
		Price:            price,
		DataLimitMB:      dataMB,
		CallLimitMinutes: callMin,
		SMSLimit:         sms,
		ValidityDays:     30,
		Status:           plandomain.PlanStatusActive,
		CreatedAt:        s.now,
		UpdatedAt:        s.now,
	}
	if err := s.tx.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *seeder) ensureEmployee(name, email string, role netdomain.EmployeeRole) (*netdomain.Employee, error) {
	var row netdomain.Employee
	err := s.tx.Where("email = ?", email).First(&row).Error
	if err == nil {
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row = netdomain.Employee{
		ID:        s.node.Generate(),
		Name:      name,
		Email:     email,
		Role:      role,
		Status:    netdomain.EmployeeStatusActive,
		CreatedAt: s.now,
	}
	if err := s.tx.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *seeder) ensureElement(elementType netdomain.ElementType, locationID, employeeID snowflake.ID) (*netdomain.NetworkElement, error) {
	var row netdomain.NetworkElement
	err := s.tx.Where("type = ? AND location_id = ?", elementType, locationID).First(&row).Error
	if err == nil {
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row = netdomain.NetworkElement{
		ID:         s.node.Generate(),
		Type:       elementType,
		Status:     netdomain.ElementStatusActive,
		LocationID: locationID,
		EmployeeID: employeeID,
		CreatedAt:  s.now,
	}
	if err := s.tx.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *seeder) ensureCustomer(name, phone, email string, locationID snowflake.ID) (*custdomain.Customer, error) {
	var row custdomain.Customer
	err := s.tx.Where("phone = ?", phone).First(&row).Error
	if err == nil {
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row = custdomain.Customer{
		ID:               s.node.Generate(),
		Name:             name,
		Phone:            phone,
		Email:            email,
		LocationID:       locationID,
		RegistrationDate: s.now.AddDate(-1, 0, 0),
		Status:           custdomain.CustomerStatusActive,
		CreatedAt:        s.now,
		UpdatedAt:        s.now,
	}
	if err := s.tx.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *seeder) ensureSubscription(customerID, planID snowflake.ID, start, end time.Time) (*subdomain.Subscription, error) {
	var row subdomain.Subscription
	err := s.tx.Where("customer_id = ? AND plan_id = ?", customerID, planID).First(&row).Error
	if err == nil {
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row = subdomain.Subscription{
		ID:         s.node.Generate(),
		CustomerID: customerID,
		PlanID:     planID,
		StartDate:  start,
		EndDate:    end,
		Status:     subdomain.SubscriptionStatusActive,
		CreatedAt:  s.now,
	}
	if err := s.tx.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *seeder) ensurePromotion(name string, discount int64, planID snowflake.ID) (*promodomain.Promotion, error) {
	var row promodomain.Promotion
	err := s.tx.Where("name = ? AND plan_id = ?", name, planID).First(&row).Error
	if err == nil {
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row = promodomain.Promotion{
		ID:            s.node.Generate(),
		Name:          name,
		DiscountValue: discount,
		StartDate:     s.now.AddDate(0, -3, 0),
		EndDate:       s.now.AddDate(0, 3, 0),
		Status:        promodomain.PromotionStatusActive,
		PlanID:        planID,
		CreatedAt:     s.now,
	}
	if err := s.tx.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *seeder) ensureAppliedPromotion(subscriptionID, promotionID snowflake.ID, applied time.Time) error {
	var row subdomain.SubscriptionPromotion
	err := s.tx.Where("subscription_id = ? AND promotion_id = ?", subscriptionID, promotionID).First(&row).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	row = subdomain.SubscriptionPromotion{
		SubscriptionID: subscriptionID,
		PromotionID:    promotionID,
		AppliedDate:    applied,
	}
	return s.tx.Create(&row).Error
}

func (s *seeder) ensureUsage(subscriptionID, elementID snowflake.ID, usageType usagedomain.UsageType, amount int64, ts time.Time) error {
	timeRow, err := s.ensureTimeRow(ts)
	if err != nil {
		return err
	}

	var row usagedomain.UsageRecord
	err = s.tx.Where("subscription_id = ? AND type = ? AND time_id = ?", subscriptionID, usageType, timeRow.ID).First(&row).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	row = usagedomain.UsageRecord{
		ID:               s.node.Generate(),
		Type:             usageType,
		Amount:           amount,
		SubscriptionID:   subscriptionID,
		NetworkElementID: elementID,
		TimeID:           timeRow.ID,
		CreatedAt:        s.now,
	}
	return s.tx.Create(&row).Error
}

func (s *seeder) ensureTimeRow(ts time.Time) (*refdomain.TimeDimension, error) {
	ts = ts.UTC().Truncate(time.Second)

	var row refdomain.TimeDimension
	err := s.tx.Where("timestamp = ?", ts).First(&row).Error
	if err == nil {
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row = refdomain.NewTimeDimension(s.node.Generate(), ts)
	if err := s.tx.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *seeder) ensureBilling(subscriptionID snowflake.ID, periodStart, periodEnd time.Time, total, discount int64) (*billingdomain.Billing, error) {
	var row billingdomain.Billing
	err := s.tx.Where("subscription_id = ? AND period_start = ?", subscriptionID, periodStart).First(&row).Error
	if err == nil {
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row = billingdomain.Billing{
		ID:             s.node.Generate(),
		SubscriptionID: subscriptionID,
		PeriodStart:    periodStart,
		PeriodEnd:      periodEnd,
		IssueDate:      periodEnd,
		DueDate:        periodEnd.AddDate(0, 0, 14),
		TotalAmount:    total,
		DiscountAmount: discount,
		Status:         billingdomain.BillingStatusPending,
		CreatedAt:      s.now,
	}
	if err := s.tx.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *seeder) ensurePayment(billingID snowflake.ID, amount int64, status billingdomain.PaymentStatus) error {
	var row billingdomain.Payment
	err := s.tx.Where("billing_id = ?", billingID).First(&row).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	row = billingdomain.Payment{
		ID:          s.node.Generate(),
		BillingID:   billingID,
		PaymentDate: s.now,
		AmountPaid:  amount,
		Status:      status,
		Reference:   ulid.MustNew(ulid.Timestamp(s.now), rand.Reader).String(),
	}
	if err := s.tx.Create(&row).Error; err != nil {
		return err
	}
	if status == billingdomain.PaymentStatusCompleted {
		return s.tx.Model(&billingdomain.Billing{}).
			Where("id = ?", billingID).
			Update("status", billingdomain.BillingStatusPaid).Error
	}
	return nil
}

func (s *seeder) ensureTransaction(customerID snowflake.ID, txnType ledgerdomain.TransactionType, amount int64, status ledgerdomain.TransactionStatus) error {
	var row ledgerdomain.Transaction
	err := s.tx.Where("customer_id = ? AND type = ? AND amount = ?", customerID, txnType, amount).First(&row).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	row = ledgerdomain.Transaction{
		ID:         s.node.Generate(),
		CustomerID: customerID,
		Type:       txnType,
		Amount:     amount,
		Status:     status,
		Reference:  ulid.MustNew(ulid.Timestamp(s.now), rand.Reader).String(),
		Timestamp:  s.now,
	}
	return s.tx.Create(&row).Error
}

func (s *seeder) ensureTicket(customerID, employeeID snowflake.ID, ticketType supportdomain.TicketType) error {
	var row supportdomain.Ticket
	err := s.tx.Where("customer_id = ? AND type = ?", customerID, ticketType).First(&row).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	priority := "medium"
	row = supportdomain.Ticket{
		ID:         s.node.Generate(),
		Type:       ticketType,
		Status:     supportdomain.TicketStatusOpen,
		Priority:   &priority,
		CustomerID: customerID,
		EmployeeID: employeeID,
		CreatedAt:  s.now,
	}
	return s.tx.Create(&row).Error
}
