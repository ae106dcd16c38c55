package services

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"tournament-platform/assets"
	"tournament-platform/repository"
	"tournament-platform/utils"
)

// InputError is a malformed or incomplete request.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

// DuplicateError is raised before any upload when a unique field is taken.
type DuplicateError struct {
	Message string
}

func (e *DuplicateError) Error() string { return e.Message }

// NotFoundError names the entity that was looked up.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

func (e *NotFoundError) Is(target error) bool { return target == repository.ErrNotFound }

func badInput(msg string) error { return &InputError{Message: msg} }

func duplicate(msg string) error { return &DuplicateError{Message: msg} }

// lookup turns repository.ErrNotFound into a NotFoundError for entity.
func lookup(err error, entity string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: entity}
	}
	return err
}

// respondError maps service errors to HTTP status codes.
func respondError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	var (
		ve *assets.ValidationError
		ie *InputError
		de *DuplicateError
		nf *NotFoundError
		se *assets.StoreError
	)

	switch {
	case errors.As(err, &ve):
		return utils.Fail(c, fiber.StatusBadRequest, ve.Message)
	case errors.As(err, &ie):
		return utils.Fail(c, fiber.StatusBadRequest, ie.Message)
	case errors.As(err, &de):
		return utils.Fail(c, fiber.StatusConflict, de.Message)
	case errors.As(err, &nf):
		return utils.Fail(c, fiber.StatusNotFound, nf.Error())
	case errors.Is(err, repository.ErrNotFound):
		return utils.Fail(c, fiber.StatusNotFound, "Record not found")
	case repository.IsUniqueViolation(err):
		return utils.Fail(c, fiber.StatusConflict, "Record already exists")
	case errors.As(err, &se):
		logger.Error().Err(err).Str("op", se.Op).Str("path", c.Path()).Msg("object store failure")
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to store image")
	default:
		logger.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
		return utils.Fail(c, fiber.StatusInternalServerError, "Internal server error")
	}
}
