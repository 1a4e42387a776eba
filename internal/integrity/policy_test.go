package integrity

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRulesFor(t *testing.T) {
	customers := RulesFor("customers")
	require.Len(t, customers, 3)
	for _, rule := range customers {
		assert.Equal(t, ActionRestrict, rule.OnDelete)
	}

	subscriptions := RulesFor("subscriptions")
	actions := make(map[string]Action, len(subscriptions))
	for _, rule := range subscriptions {
		actions[rule.ChildTable] = rule.OnDelete
	}
	assert.Equal(t, ActionCascade, actions["subscription_promotions"])
	assert.Equal(t, ActionRestrict, actions["usage_records"])
	assert.Equal(t, ActionRestrict, actions["billing_records"])

	assert.Empty(t, RulesFor("payments"))
}

func TestDeleteParent(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	// A minimal subscriptions parent with one restrict child and one
	// cascade child, matching the matrix shape.
	require.NoError(t, db.Exec(`CREATE TABLE subscriptions (id INTEGER PRIMARY KEY)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE subscription_promotions (subscription_id INTEGER, promotion_id INTEGER)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE usage_records (id INTEGER PRIMARY KEY, subscription_id INTEGER)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE billing_records (id INTEGER PRIMARY KEY, subscription_id INTEGER)`).Error)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	subID := node.Generate()
	ctx := context.Background()

	require.NoError(t, db.Exec(`INSERT INTO subscriptions (id) VALUES (?)`, subID).Error)
	require.NoError(t, db.Exec(`INSERT INTO subscription_promotions (subscription_id, promotion_id) VALUES (?, ?)`, subID, node.Generate()).Error)
	require.NoError(t, db.Exec(`INSERT INTO usage_records (id, subscription_id) VALUES (?, ?)`, node.Generate(), subID).Error)

	err = db.Transaction(func(tx *gorm.DB) error {
		return DeleteParent(ctx, tx, "subscriptions", subID)
	})
	var restricted *RestrictedError
	require.ErrorAs(t, err, &restricted)
	assert.Equal(t, "subscriptions", restricted.ParentTable)
	assert.Equal(t, "usage_records", restricted.ChildTable)

	// The restricted attempt rolled back: the cascade child is untouched.
	var links int64
	require.NoError(t, db.Table("subscription_promotions").Count(&links).Error)
	assert.EqualValues(t, 1, links)

	require.NoError(t, db.Exec(`DELETE FROM usage_records WHERE subscription_id = ?`, subID).Error)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return DeleteParent(ctx, tx, "subscriptions", subID)
	}))

	var parents int64
	require.NoError(t, db.Table("subscriptions").Count(&parents).Error)
	assert.EqualValues(t, 0, parents)
	require.NoError(t, db.Table("subscription_promotions").Count(&links).Error)
	assert.EqualValues(t, 0, links)
}

func TestRestrictedErrorMessage(t *testing.T) {
	err := &RestrictedError{ParentTable: "customers", ChildTable: "transactions"}
	assert.Equal(t, "delete from customers restricted: dependent rows in transactions", err.Error())
}
