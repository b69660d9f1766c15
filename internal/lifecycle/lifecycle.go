// Package lifecycle is the single authority on order and booking status
// transitions. Both lifecycles are monotonic: statuses advance strictly
// forward, cancellation branches off any non-terminal state, and terminal
// states offer nothing.
package lifecycle

import (
	"fmt"
	"strings"

	"idish/internal/models"
)

// Actor identifies who is attempting a transition. Chefs drive the forward
// lifecycle and may cancel any non-terminal record; customers may only cancel
// their own record while it is still pending.
type Actor string

const (
	ActorChef     Actor = "chef"
	ActorCustomer Actor = "customer"
)

// ActorForRole maps an account role to its lifecycle actor.
func ActorForRole(role models.Role) Actor {
	switch role {
	case models.RoleChef:
		return ActorChef
	case models.RoleCustomer:
		return ActorCustomer
	}
	return ""
}

// orderRank orders the forward chain. Cancelled is deliberately absent, it is
// a side branch rather than a chain position.
var orderRank = map[models.OrderStatus]int{
	models.OrderPending:   0,
	models.OrderAccepted:  1,
	models.OrderPreparing: 2,
	models.OrderReady:     3,
	models.OrderDelivered: 4,
}

var orderChain = []models.OrderStatus{
	models.OrderPending,
	models.OrderAccepted,
	models.OrderPreparing,
	models.OrderReady,
	models.OrderDelivered,
}

// OrderIsTerminal reports whether no further transition exists.
func OrderIsTerminal(s models.OrderStatus) bool {
	return s == models.OrderDelivered || s == models.OrderCancelled
}

// NextOrderStatuses returns every status the actor may move the order to from
// its current status. Terminal states return nil.
func NextOrderStatuses(from models.OrderStatus, actor Actor) []models.OrderStatus {
	if OrderIsTerminal(from) {
		return nil
	}
	switch actor {
	case ActorChef:
		rank, ok := orderRank[from]
		if !ok {
			return nil
		}
		next := make([]models.OrderStatus, 0, len(orderChain))
		for _, s := range orderChain[rank+1:] {
			next = append(next, s)
		}
		return append(next, models.OrderCancelled)
	case ActorCustomer:
		if from == models.OrderPending {
			return []models.OrderStatus{models.OrderCancelled}
		}
	}
	return nil
}

// CanTransitionOrder validates a single transition attempt.
func CanTransitionOrder(from, to models.OrderStatus, actor Actor) error {
	for _, allowed := range NextOrderStatuses(from, actor) {
		if allowed == to {
			return nil
		}
	}
	return transitionError("order", string(from), string(to), string(actor), statusNames(NextOrderStatuses(from, actor)))
}

var bookingRank = map[models.BookingStatus]int{
	models.BookingPending:   0,
	models.BookingConfirmed: 1,
	models.BookingCompleted: 2,
}

var bookingChain = []models.BookingStatus{
	models.BookingPending,
	models.BookingConfirmed,
	models.BookingCompleted,
}

func BookingIsTerminal(s models.BookingStatus) bool {
	return s == models.BookingCompleted || s == models.BookingCancelled
}

// NextBookingStatuses mirrors NextOrderStatuses for the booking lifecycle.
func NextBookingStatuses(from models.BookingStatus, actor Actor) []models.BookingStatus {
	if BookingIsTerminal(from) {
		return nil
	}
	switch actor {
	case ActorChef:
		rank, ok := bookingRank[from]
		if !ok {
			return nil
		}
		next := make([]models.BookingStatus, 0, len(bookingChain))
		for _, s := range bookingChain[rank+1:] {
			next = append(next, s)
		}
		return append(next, models.BookingCancelled)
	case ActorCustomer:
		if from == models.BookingPending {
			return []models.BookingStatus{models.BookingCancelled}
		}
	}
	return nil
}

func CanTransitionBooking(from, to models.BookingStatus, actor Actor) error {
	for _, allowed := range NextBookingStatuses(from, actor) {
		if allowed == to {
			return nil
		}
	}
	return transitionError("booking", string(from), string(to), string(actor), bookingStatusNames(NextBookingStatuses(from, actor)))
}

func transitionError(kind, from, to, actor string, allowed []string) error {
	if len(allowed) == 0 {
		return fmt.Errorf("invalid %s transition: %s is terminal for actor %q", kind, from, actor)
	}
	return fmt.Errorf("invalid %s transition: %s -> %s is not allowed for actor %q; valid next statuses: %s",
		kind, from, to, actor, strings.Join(allowed, ", "))
}

func statusNames(statuses []models.OrderStatus) []string {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return names
}

func bookingStatusNames(statuses []models.BookingStatus) []string {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return names
}
