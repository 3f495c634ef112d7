// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with `swag init` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "status ok"},
                    "503": {"description": "database unavailable"}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [
                    {"description": "Email and optional password", "name": "credentials", "in": "body", "required": true, "schema": {"$ref": "#/definitions/main.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/main.AuthResponse"}},
                    "400": {"description": "Bad request"},
                    "401": {"description": "Invalid credentials"},
                    "403": {"description": "Account is deactivated"}
                }
            }
        },
        "/api/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register",
                "parameters": [
                    {"description": "Email, name and password", "name": "account", "in": "body", "required": true, "schema": {"$ref": "#/definitions/main.registerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/main.AuthResponse"}},
                    "400": {"description": "Bad request"},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/api/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/main.User"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/api/transactions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Get transactions",
                "parameters": [
                    {"type": "string", "description": "INCOME or EXPENSE", "name": "type", "in": "query"},
                    {"type": "string", "description": "Category ID", "name": "category_id", "in": "query"},
                    {"type": "string", "description": "From date (YYYY-MM-DD)", "name": "from", "in": "query"},
                    {"type": "string", "description": "To date (YYYY-MM-DD)", "name": "to", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Rows to skip", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "List of transactions", "schema": {"type": "array", "items": {"$ref": "#/definitions/main.Transaction"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Create transaction",
                "parameters": [
                    {"description": "Transaction data", "name": "transaction", "in": "body", "required": true, "schema": {"$ref": "#/definitions/main.transactionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/main.Transaction"}},
                    "400": {"description": "Bad request"}
                }
            }
        },
        "/api/balance": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["balance"],
                "summary": "Get balance",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/main.Balance"}}
                }
            }
        }
    },
    "definitions": {
        "main.loginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "main.registerRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "main.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string"},
                "is_active": {"type": "boolean"},
                "settings": {"type": "object"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "main.AuthResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/main.User"}
            }
        },
        "main.transactionRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "amount": {"type": "number"},
                "currency": {"type": "string"},
                "category_id": {"type": "string"},
                "description": {"type": "string"},
                "date": {"type": "string"},
                "is_recurring": {"type": "boolean"},
                "recurring_pattern": {"type": "string"},
                "metadata": {"type": "object"}
            }
        },
        "main.Transaction": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "type": {"type": "string"},
                "amount": {"type": "number"},
                "currency": {"type": "string"},
                "category_id": {"type": "string"},
                "category_name": {"type": "string"},
                "description": {"type": "string"},
                "date": {"type": "string"},
                "is_recurring": {"type": "boolean"},
                "recurring_pattern": {"type": "string"},
                "metadata": {"type": "object"},
                "receipt_id": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "main.Balance": {
            "type": "object",
            "properties": {
                "bank_balance": {"type": "number"},
                "total_income": {"type": "number"},
                "total_expense": {"type": "number"},
                "total_savings": {"type": "number"},
                "total_debts": {"type": "number"},
                "net_worth": {"type": "number"},
                "available_to_spend": {"type": "number"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Finanzas API",
	Description:      "Personal finance API: transactions, budgets, goals, debts, reminders and receipt OCR.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
