// Package docs registers the OpenAPI description served under /swagger/.
// Keep it in sync with the handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/token": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Authentication"],
                "summary": "Generate a JWT bearer token",
                "parameters": [
                    {"description": "username", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.TokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token successfully generated", "schema": {"$ref": "#/definitions/dto.TokenResponse"}},
                    "400": {"description": "Invalid request parameters", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/customers": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Customers"],
                "summary": "Create a customer",
                "parameters": [
                    {"type": "string", "description": "Customer name", "name": "name", "in": "formData", "required": true},
                    {"type": "string", "description": "Customer email", "name": "email", "in": "formData", "required": true},
                    {"type": "file", "description": "Customer image", "name": "image", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Customer created", "schema": {"$ref": "#/definitions/dto.FormState"}},
                    "413": {"description": "Upload too large", "schema": {"$ref": "#/definitions/dto.FormState"}},
                    "422": {"description": "Field errors", "schema": {"$ref": "#/definitions/dto.FormState"}},
                    "500": {"description": "Image or database failure", "schema": {"$ref": "#/definitions/dto.FormState"}}
                }
            }
        },
        "/customers/{customerID}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Customers"],
                "summary": "Update a customer",
                "parameters": [
                    {"type": "string", "description": "Customer ID", "name": "customerID", "in": "path", "required": true},
                    {"type": "string", "description": "Customer name", "name": "name", "in": "formData", "required": true},
                    {"type": "string", "description": "Customer email", "name": "email", "in": "formData", "required": true},
                    {"type": "file", "description": "Replacement image", "name": "image", "in": "formData"},
                    {"type": "boolean", "description": "Remove the stored image", "name": "clearImage", "in": "formData"}
                ],
                "responses": {
                    "303": {"description": "Redirect to the customer listing", "schema": {"$ref": "#/definitions/dto.FormState"}},
                    "404": {"description": "Customer not found", "schema": {"$ref": "#/definitions/dto.FormState"}},
                    "422": {"description": "Field errors", "schema": {"$ref": "#/definitions/dto.FormState"}},
                    "500": {"description": "Image or database failure", "schema": {"$ref": "#/definitions/dto.FormState"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Customers"],
                "summary": "Delete a customer",
                "parameters": [
                    {"type": "string", "description": "Customer ID", "name": "customerID", "in": "path", "required": true}
                ],
                "responses": {
                    "303": {"description": "Redirect to the customer listing", "schema": {"$ref": "#/definitions/dto.FormState"}},
                    "500": {"description": "Database failure", "schema": {"$ref": "#/definitions/dto.FormState"}}
                }
            }
        },
        "/invoices": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["Invoices"],
                "summary": "Create an invoice",
                "parameters": [
                    {"type": "string", "description": "Customer ID", "name": "customerId", "in": "formData", "required": true},
                    {"type": "string", "description": "Amount in dollars", "name": "amount", "in": "formData", "required": true},
                    {"type": "string", "description": "pending or paid", "name": "status", "in": "formData", "required": true}
                ],
                "responses": {
                    "303": {"description": "Redirect to the invoice listing", "schema": {"$ref": "#/definitions/dto.FormState"}},
                    "422": {"description": "Field errors", "schema": {"$ref": "#/definitions/dto.FormState"}},
                    "500": {"description": "Database failure", "schema": {"$ref": "#/definitions/dto.FormState"}}
                }
            }
        },
        "/invoices/{invoiceID}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["Invoices"],
                "summary": "Update an invoice",
                "parameters": [
                    {"type": "string", "description": "Invoice ID", "name": "invoiceID", "in": "path", "required": true},
                    {"type": "string", "description": "Customer ID", "name": "customerId", "in": "formData", "required": true},
                    {"type": "string", "description": "Amount in dollars", "name": "amount", "in": "formData", "required": true},
                    {"type": "string", "description": "pending or paid", "name": "status", "in": "formData", "required": true}
                ],
                "responses": {
                    "303": {"description": "Redirect to the invoice listing", "schema": {"$ref": "#/definitions/dto.FormState"}},
                    "404": {"description": "Invoice not found", "schema": {"$ref": "#/definitions/dto.FormState"}},
                    "422": {"description": "Field errors", "schema": {"$ref": "#/definitions/dto.FormState"}},
                    "500": {"description": "Database failure", "schema": {"$ref": "#/definitions/dto.FormState"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Invoices"],
                "summary": "Delete an invoice",
                "parameters": [
                    {"type": "string", "description": "Invoice ID", "name": "invoiceID", "in": "path", "required": true}
                ],
                "responses": {
                    "303": {"description": "Redirect to the invoice listing", "schema": {"$ref": "#/definitions/dto.FormState"}},
                    "500": {"description": "Database failure", "schema": {"$ref": "#/definitions/dto.FormState"}}
                }
            }
        },
        "/query": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Reports"],
                "summary": "Run a canned report",
                "parameters": [
                    {"type": "string", "description": "invoices or customers", "name": "type", "in": "query", "required": true},
                    {"type": "string", "description": "Amount filter for type=invoices", "name": "amount", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Report rows", "schema": {"type": "array", "items": {"type": "object"}}},
                    "400": {"description": "Invalid or missing type", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Database failure", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "dto.FormState": {
            "type": "object",
            "properties": {
                "errors": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}},
                "message": {"type": "string"},
                "redirect": {"type": "string"}
            }
        },
        "dto.TokenRequest": {
            "type": "object",
            "properties": {"username": {"type": "string"}}
        },
        "dto.TokenResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expiresAt": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Invoice Dashboard API",
	Description:      "Customer and invoice mutations with canned reports.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
