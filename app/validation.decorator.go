package app

import (
	"context"

	"github.com/go-playground/validator/v10"

	ctx2 "github.com/racetrack-labs/paddock/ctx"
)

const CtxValidated ctx2.CTXKey = "paddock.validated"

// PassedValidation reports whether the request went through a validating decorator.
func PassedValidation(ctx context.Context) bool {
	v, ok := ctx.Value(CtxValidated).(bool)

	return ok && v
}

func NewValidatedRequest[Req any, Res any](validate *validator.Validate, req Request[Req, Res]) Request[Req, Res] {
	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
	}

	return &requestValidatingDecorator[Req, Res]{validate: validate, base: req}
}

type requestValidatingDecorator[Req any, Res any] struct {
	validate *validator.Validate
	base     Request[Req, Res]
}

func (d *requestValidatingDecorator[Req, Res]) H(ctx context.Context, req Req) (Res, error) { //nolint:ireturn,lll // valid use of generics
	if err := d.validate.Struct(req); err != nil {
		return *new(Res), err //nolint:wrapcheck // validation error is returned on purpose
	}

	return d.base.H(context.WithValue(ctx, CtxValidated, true), req) //nolint:wrapcheck // decorate but not change anything
}

func NewValidatedCommand[C any](validate *validator.Validate, cmd Command[C]) Command[C] {
	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
	}

	return &commandValidatingDecorator[C]{validate: validate, base: cmd}
}

type commandValidatingDecorator[C any] struct {
	validate *validator.Validate
	base     Command[C]
}

func (d *commandValidatingDecorator[C]) H(ctx context.Context, cmd C) error {
	if err := d.validate.Struct(cmd); err != nil {
		return err //nolint:wrapcheck // validation error is returned on purpose
	}

	return d.base.H(context.WithValue(ctx, CtxValidated, true), cmd) //nolint:wrapcheck // decorate but not change anything
}
