// docs.go
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

// Package api holds the swagger description of the service routes.
package api

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/localnerve/gutils-admin",
            "email": "info@localnerve.com"
        },
        "license": {
            "name": "AGPL-3.0",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "description": "Ping the admin database and the authorizer",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.HealthCheckResult"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/services.HealthCheckResult"}}
                }
            }
        },
        "/admin/customers/": {
            "get": {
                "security": [{"CookieAuth": []}],
                "description": "List customers, filtered, sorted and paginated",
                "produces": ["text/html", "application/json"],
                "tags": ["Admin"],
                "summary": "Customer list",
                "parameters": [
                    {"type": "string", "description": "Page number or last", "name": "page", "in": "query"},
                    {"type": "string", "description": "Sort key, leading minus for descending", "name": "sort", "in": "query"},
                    {"type": "string", "description": "json for a JSON page", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "302": {"description": "Login redirect"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}
                }
            },
            "post": {
                "security": [{"CookieAuth": []}],
                "description": "Run the posted _action on the selected customers",
                "consumes": ["application/x-www-form-urlencoded"],
                "tags": ["Admin"],
                "summary": "Customer actions",
                "parameters": [
                    {"type": "string", "description": "delete, select_columns or edit", "name": "_action", "in": "formData", "required": true}
                ],
                "responses": {
                    "302": {"description": "Back to the list"},
                    "404": {"description": "Unknown action", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}
                }
            }
        },
        "/admin/customers/edit": {
            "post": {
                "security": [{"CookieAuth": []}],
                "description": "Fetch the inline edit form of a cell, or save it with _save",
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Customer inline edit",
                "parameters": [
                    {"type": "string", "name": "id", "in": "formData", "required": true},
                    {"type": "string", "name": "_column", "in": "formData", "required": true},
                    {"type": "string", "name": "_save", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.EditResponseStruct"}},
                    "404": {"description": "Record or editable column not found", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}
                }
            }
        },
        "/admin/customers/{pk}/orders/": {
            "get": {
                "security": [{"CookieAuth": []}],
                "description": "List the orders of a customer",
                "produces": ["text/html", "application/json"],
                "tags": ["Admin"],
                "summary": "Customer orders",
                "parameters": [
                    {"type": "integer", "description": "Customer ID", "name": "pk", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Customer not found", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}
                }
            }
        }
    },
    "definitions": {
        "services.HealthCheckResult": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "database": {"type": "string"},
                "authorizer": {"type": "string"},
                "details": {"type": "object", "additionalProperties": {"type": "string"}},
                "error": {"type": "string"}
            }
        },
        "utils.EditResponseStruct": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "content": {"type": "string"}
            }
        },
        "utils.ErrorResponseStruct": {
            "type": "object",
            "properties": {
                "status": {"type": "integer"},
                "message": {"type": "string"},
                "ok": {"type": "boolean"},
                "timestamp": {"type": "string"},
                "url": {"type": "string"},
                "type": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "CookieAuth": {"type": "apiKey", "name": "cookie_session", "in": "cookie"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "gutils admin",
	Description:      "Record list administration: filtered lists, column selection and inline editing",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
