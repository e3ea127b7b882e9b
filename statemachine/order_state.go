package statemachine

import (
	"strings"

	"restaurant-pos/apperror"
	"restaurant-pos/models"
)

// Transition defines a valid state change and the floor action that causes it
type Transition struct {
	From   models.OrderStatus `json:"from"`
	To     models.OrderStatus `json:"to"`
	Action string             `json:"action"`
}

// validTransitions is the authoritative state machine definition
var validTransitions = []Transition{
	// Captain accepts the guest's order
	{From: models.StatusPending, To: models.StatusConfirmed, Action: "confirm"},
	// Kitchen starts cooking once the KOT is printed
	{From: models.StatusConfirmed, To: models.StatusPreparing, Action: "print_kot"},
	{From: models.StatusPreparing, To: models.StatusReady, Action: "mark_ready"},
	{From: models.StatusReady, To: models.StatusServed, Action: "serve"},
	// Bill is printed for the table
	{From: models.StatusServed, To: models.StatusBilled, Action: "print_bill"},
	{From: models.StatusBilled, To: models.StatusClosed, Action: "settle"},

	{From: models.StatusPending, To: models.StatusCancelled, Action: "cancel"},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Action: "cancel"},
	{From: models.StatusPreparing, To: models.StatusCancelled, Action: "cancel"},
	{From: models.StatusReady, To: models.StatusCancelled, Action: "cancel"},
	{From: models.StatusServed, To: models.StatusCancelled, Action: "cancel"},
	{From: models.StatusBilled, To: models.StatusCancelled, Action: "cancel"},
}

type transitionKey struct {
	From models.OrderStatus
	To   models.OrderStatus
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To}] = true
	}
	return m
}()

// IsLegalTransition reports whether an order may move from one status to another
func IsLegalTransition(from, to models.OrderStatus) bool {
	return transitionMap[transitionKey{From: from, To: to}]
}

// IsTerminal reports whether no transition leaves the status
func IsTerminal(status models.OrderStatus) bool {
	return len(ValidTransitionsFrom(status)) == 0
}

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	nexts := []models.OrderStatus{}
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition returns an InvalidTransition error naming the legal moves
// when from → to is not part of the lifecycle
func CanTransition(from, to models.OrderStatus) error {
	if IsLegalTransition(from, to) {
		return nil
	}
	return &apperror.Error{
		Kind: apperror.KindInvalidTransition,
		Message: "invalid transition: " + string(from) + " → " + string(to) +
			". Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
		Details: map[string]any{
			"current_status":    from,
			"requested":         to,
			"valid_next_states": ValidTransitionsFrom(from),
		},
	}
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	names := make([]string, len(nexts))
	for i, s := range nexts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}

// TerminalStates lists statuses with no way out
func TerminalStates() []models.OrderStatus {
	return []models.OrderStatus{models.StatusClosed, models.StatusCancelled}
}
