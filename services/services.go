package services

import (
	"errors"

	"restaurant-pos/apperror"
	"restaurant-pos/events"
	"restaurant-pos/store"
)

// Publisher receives change notifications after a mutation commits
type Publisher interface {
	Publish(ev events.Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(events.Event) {}

func publisherOrNop(p Publisher) Publisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

// notFoundOr maps store.ErrNotFound onto a NotFound error with msg and
// passes every other error through untouched
func notFoundOr(err error, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperror.NotFound("%s", msg)
	}
	return err
}
