package domain_test

import (
	"testing"

	"github.com/vladislavdragonenkov/elmorders/internal/domain"
)

func TestOrderState_Valid(t *testing.T) {
	cases := []struct {
		state domain.OrderState
		want  bool
	}{
		{domain.OrderStateCreated, true},
		{domain.OrderStatePaid, true},
		{domain.OrderStateDelivering, true},
		{domain.OrderStateCompleted, true},
		{domain.OrderStateCanceled, true},
		{domain.OrderState(-1), false},
		{domain.OrderState(5), false},
	}

	for _, tc := range cases {
		if got := tc.state.Valid(); got != tc.want {
			t.Errorf("state %d: Valid() = %v, want %v", tc.state, got, tc.want)
		}
	}
}

func TestOrder_IsNew(t *testing.T) {
	order := domain.Order{CustomerID: 7, BusinessID: 3}
	if !order.IsNew() {
		t.Fatal("order without id must be new")
	}
	order.ID = 101
	if order.IsNew() {
		t.Fatal("order with id must not be new")
	}
}

func TestOrder_CloneDetachesPointers(t *testing.T) {
	address, creator := int64(42), int64(7)
	order := domain.Order{ID: 1, DeliveryAddressID: &address, CreatorID: &creator}

	clone := order.Clone()
	*clone.DeliveryAddressID = 99
	*clone.CreatorID = 8

	if *order.DeliveryAddressID != 42 || *order.CreatorID != 7 {
		t.Fatalf("clone shares pointers with original: %+v", order)
	}
	if clone.UpdaterID != nil {
		t.Fatal("nil pointer must stay nil")
	}
}
