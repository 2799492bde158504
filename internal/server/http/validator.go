package http

import (
	"fmt"
	"reflect"
	"strings"

	"chessmoves/internal/core"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

// requestTypeFor picks the body type for a route, or nil when the route
// takes no body
func requestTypeFor(method, path string) any {
	switch {
	case method == fiber.MethodPost && strings.HasSuffix(path, "/boards"):
		return &core.CreateBoardRequest{}
	case method == fiber.MethodPut && strings.Contains(path, "/tiles/"):
		return &core.PlacePieceRequest{}
	case method == fiber.MethodPost && strings.Contains(path, "/boards/") && strings.HasSuffix(path, "/moves"):
		return &core.TryMoveRequest{}
	case method == fiber.MethodPost && strings.HasSuffix(path, "/moves"):
		return &core.EvaluateRequest{}
	default:
		return nil
	}
}

// validationMiddleware parses and validates request bodies before they
// reach the handlers
func validationMiddleware(c *fiber.Ctx) error {
	method := c.Method()
	if method == fiber.MethodGet || method == fiber.MethodDelete || method == fiber.MethodOptions {
		return c.Next()
	}

	requestType := requestTypeFor(method, strings.TrimSuffix(c.Path(), "/"))
	if requestType == nil {
		return c.Next()
	}

	// An absent body validates as the zero request
	if len(c.Body()) > 0 {
		if err := c.BodyParser(requestType); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
				Error:   "invalid request body",
				Code:    core.ErrInvalidRequest,
				Details: err.Error(),
			})
		}
	}

	if errs := validate.Struct(requestType); errs != nil {
		var details strings.Builder
		for _, err := range errs.(validator.ValidationErrors) {
			if details.Len() > 0 {
				details.WriteString("; ")
			}
			switch err.Tag() {
			case "required":
				details.WriteString(fmt.Sprintf("%s is required", err.Field()))
			case "oneof":
				details.WriteString(fmt.Sprintf("%s must be one of [%s]", err.Field(), err.Param()))
			case "len":
				details.WriteString(fmt.Sprintf("%s must be exactly %s characters", err.Field(), err.Param()))
			case "max":
				if err.Type().Kind() == reflect.String {
					details.WriteString(fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param()))
				} else {
					details.WriteString(fmt.Sprintf("%s must be at most %s", err.Field(), err.Param()))
				}
			default:
				details.WriteString(fmt.Sprintf("%s failed %s validation", err.Field(), err.Tag()))
			}
		}

		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.ErrInvalidRequest,
			Details: details.String(),
		})
	}

	c.Locals("validatedBody", requestType)
	c.Locals("validated", true)

	return c.Next()
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
