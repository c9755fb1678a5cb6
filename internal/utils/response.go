// response.go
//
// Generic admin list views, column selection and inline editing for GORM models
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of gutils-admin.
// gutils-admin is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// gutils-admin is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with gutils-admin.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package utils

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/gutils-admin/internal/types"
	"go.uber.org/zap"
)

// SuccessResponse sends a standard success response
func SuccessResponse(c *fiber.Ctx, data interface{}, status int) error {
	return c.Status(status).JSON(data)
}

// ErrorResponse sends a standard error response
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":    status,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}

// NotFoundResponse sends a 404 not found response
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, message, fiber.StatusNotFound, "notFound")
}

// ErrorHandler maps the admin error taxonomy onto JSON error envelopes.
// Unclassified errors are logged and answered with a generic message.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := fiber.ErrInternalServerError.Message
		errorType := "unknown"

		var fe *fiber.Error
		var ce *types.CustomError
		switch {
		case errors.As(err, &ce):
			code, message, errorType = ce.Code, ce.Message, ce.Type
		case errors.As(err, &fe):
			code, message = fe.Code, fe.Message
		case errors.Is(err, types.ErrNotFound), errors.Is(err, types.ErrNotEditable):
			code, message, errorType = fiber.StatusNotFound, err.Error(), "notFound"
		case errors.Is(err, types.ErrForbidden):
			code, message, errorType = fiber.StatusForbidden, err.Error(), "forbidden"
		case errors.Is(err, types.ErrReferentialIntegrity):
			code, message, errorType = fiber.StatusConflict, err.Error(), "conflict"
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("request failed", zap.String("url", c.OriginalURL()), zap.Error(err))
		}

		return ErrorResponse(c, message, code, errorType)
	}
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Ok        bool   `json:"ok"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url"`
	Type      string `json:"type,omitempty"`
}

// EditResponseStruct defines the schema of inline edit responses
type EditResponseStruct struct {
	Success bool   `json:"success"`
	Content string `json:"content"`
}
