package app

import (
	"context"
	"errors"
)

// This file contains helpers to test code that depends on use cases.

var ErrUseCaseFailed = errors.New("usecase failed")

// TestSuccessRequestHandler returns a Request that always returns the zero Res.
func TestSuccessRequestHandler[Req any, Res any]() Request[Req, Res] {
	return RequestFunc[Req, Res](func(context.Context, Req) (Res, error) {
		return *new(Res), nil
	})
}

// TestFailureRequestHandler returns a Request that always fails with ErrUseCaseFailed.
func TestFailureRequestHandler[Req any, Res any]() Request[Req, Res] {
	return RequestFunc[Req, Res](func(context.Context, Req) (Res, error) {
		return *new(Res), ErrUseCaseFailed
	})
}

func TestSuccessCommandHandler[C any]() Command[C] {
	return CommandFunc[C](func(context.Context, C) error { return nil })
}

func TestFailureCommandHandler[C any]() Command[C] {
	return CommandFunc[C](func(context.Context, C) error { return ErrUseCaseFailed })
}

func TestSuccessQueryHandler[Q any, Res any]() Query[Q, Res] {
	return QueryFunc[Q, Res](func(context.Context, Q) (Res, error) {
		return *new(Res), nil
	})
}

func TestFailureQueryHandler[Q any, Res any]() Query[Q, Res] {
	return QueryFunc[Q, Res](func(context.Context, Q) (Res, error) {
		return *new(Res), ErrUseCaseFailed
	})
}
