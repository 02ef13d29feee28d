package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	all := []OrderStatus{OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled}

	allowed := map[[2]OrderStatus]bool{
		{OrderStatusProcessing, OrderStatusShipped}:   true,
		{OrderStatusProcessing, OrderStatusCancelled}: true,
		{OrderStatusShipped, OrderStatusDelivered}:    true,
	}

	for _, from := range all {
		for _, to := range all {
			t.Run(from.String()+"->"+to.String(), func(t *testing.T) {
				assert.Equal(t, allowed[[2]OrderStatus{from, to}], from.CanTransitionTo(to))
			})
		}
	}
}

func TestOrderStatus_Valid(t *testing.T) {
	assert.True(t, OrderStatusProcessing.Valid())
	assert.True(t, OrderStatusCancelled.Valid())
	assert.False(t, OrderStatus(0).Valid())
	assert.False(t, OrderStatus(5).Valid())
	assert.Equal(t, "Unknown", OrderStatus(9).String())
}

func TestNewOrderResponse(t *testing.T) {
	resp := NewOrderResponse(Order{OrderStatusID: OrderStatusShipped})

	assert.Equal(t, "Shipped", resp.Status)
	assert.NotNil(t, resp.Items)
	assert.Empty(t, resp.Items)
}

func TestChangeType(t *testing.T) {
	assert.Equal(t, "Restock", ChangeTypeRestock.String())
	assert.True(t, ChangeTypeDamage.Valid())
	assert.False(t, ChangeType(0).Valid())
	assert.False(t, ChangeType(6).Valid())
}
