// Package integrity owns the relationship delete-policy matrix. The
// policy is deliberately asymmetric: identity joins cascade, financially
// referenced parents are restricted. Services consult this matrix before
// any delete instead of trusting engine defaults, and the schema DDL
// carries the same rules so both layers agree.
package integrity

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Action is the on-delete behavior for one parent/child relationship.
type Action string

const (
	ActionCascade  Action = "cascade"
	ActionRestrict Action = "restrict"
)

// Rule describes one foreign-key relationship and its delete policy.
type Rule struct {
	ChildTable  string
	FKColumn    string
	ParentTable string
	OnDelete    Action
}

// rules is the full relationship matrix. Relationships absent from the
// original design default to restrict: no silent financial data loss.
var rules = []Rule{
	{ChildTable: "customers", FKColumn: "location_id", ParentTable: "locations", OnDelete: ActionRestrict},
	{ChildTable: "network_elements", FKColumn: "location_id", ParentTable: "locations", OnDelete: ActionRestrict},
	{ChildTable: "network_elements", FKColumn: "employee_id", ParentTable: "employees", OnDelete: ActionRestrict},
	{ChildTable: "support_tickets", FKColumn: "employee_id", ParentTable: "employees", OnDelete: ActionRestrict},
	{ChildTable: "support_tickets", FKColumn: "customer_id", ParentTable: "customers", OnDelete: ActionRestrict},
	{ChildTable: "subscriptions", FKColumn: "customer_id", ParentTable: "customers", OnDelete: ActionRestrict},
	{ChildTable: "transactions", FKColumn: "customer_id", ParentTable: "customers", OnDelete: ActionRestrict},
	{ChildTable: "subscriptions", FKColumn: "plan_id", ParentTable: "service_plans", OnDelete: ActionRestrict},
	{ChildTable: "promotions", FKColumn: "plan_id", ParentTable: "service_plans", OnDelete: ActionRestrict},
	{ChildTable: "usage_plan_snapshots", FKColumn: "plan_id", ParentTable: "service_plans", OnDelete: ActionRestrict},
	{ChildTable: "subscription_promotions", FKColumn: "subscription_id", ParentTable: "subscriptions", OnDelete: ActionCascade},
	{ChildTable: "subscription_promotions", FKColumn: "promotion_id", ParentTable: "promotions", OnDelete: ActionCascade},
	{ChildTable: "usage_records", FKColumn: "subscription_id", ParentTable: "subscriptions", OnDelete: ActionRestrict},
	{ChildTable: "usage_records", FKColumn: "network_element_id", ParentTable: "network_elements", OnDelete: ActionRestrict},
	{ChildTable: "usage_records", FKColumn: "time_id", ParentTable: "time_dimension", OnDelete: ActionRestrict},
	{ChildTable: "billing_records", FKColumn: "subscription_id", ParentTable: "subscriptions", OnDelete: ActionRestrict},
	{ChildTable: "payments", FKColumn: "billing_id", ParentTable: "billing_records", OnDelete: ActionRestrict},
}

// RulesFor lists the relationships in which the given table is the parent.
func RulesFor(parentTable string) []Rule {
	var out []Rule
	for _, rule := range rules {
		if rule.ParentTable == parentTable {
			out = append(out, rule)
		}
	}
	return out
}

// RestrictedError reports a delete blocked by dependent rows.
type RestrictedError struct {
	ParentTable string
	ChildTable  string
}

func (e *RestrictedError) Error() string {
	return fmt.Sprintf("delete from %s restricted: dependent rows in %s", e.ParentTable, e.ChildTable)
}

// DeleteParent applies the matrix for one parent row inside the caller's
// transaction: restrict relationships with dependents block the delete,
// cascade relationships have their rows removed first, then the parent
// row itself is deleted.
func DeleteParent(ctx context.Context, tx *gorm.DB, parentTable string, id snowflake.ID) error {
	for _, rule := range RulesFor(parentTable) {
		switch rule.OnDelete {
		case ActionRestrict:
			var count int64
			err := tx.WithContext(ctx).
				Table(rule.ChildTable).
				Where(rule.FKColumn+" = ?", id).
				Count(&count).Error
			if err != nil {
				return err
			}
			if count > 0 {
				return &RestrictedError{ParentTable: parentTable, ChildTable: rule.ChildTable}
			}
		case ActionCascade:
			err := tx.WithContext(ctx).
				Table(rule.ChildTable).
				Where(rule.FKColumn+" = ?", id).
				Delete(nil).Error
			if err != nil {
				return err
			}
		}
	}

	return tx.WithContext(ctx).
		Table(parentTable).
		Where("id = ?", id).
		Delete(nil).Error
}
