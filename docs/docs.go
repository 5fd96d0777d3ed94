// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/server/main.go
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
        "/": {
            "get": {"tags": ["app"], "summary": "Root greeting", "produces": ["text/plain"],
                "responses": {"200": {"description": "Hello World!", "schema": {"type": "string"}}}}
        },
        "/health": {
            "get": {"tags": ["health"], "summary": "Health probe guarded by a shared secret",
                "parameters": [{"type": "string", "name": "secret", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}}}
        },
        "/protected": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["app"], "summary": "Echo the verified session",
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}}}
        },
        "/profile": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["profile"], "summary": "Get the caller's profile",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ProfileResponse"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}}}
        },
        "/tokens/balance": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["tokens"], "summary": "Get the caller's token balance",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.TokenBalanceResponse"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["tokens"], "summary": "Set the caller's token balance",
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.SetBalanceRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.TokenBalanceResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}}}
        },
        "/subscriptions/cancel": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["subscriptions"], "summary": "Cancel a subscription",
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CancelSubscriptionRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/models.CancelSubscriptionResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}}}
        },
        "/artist/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["artist"], "summary": "Get an artist",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Artist"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}}}
        },
        "/testing/reset-readings": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["testing"], "summary": "Reset the caller's reading state",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/models.ResetReadingsResponse"}}}}
        },
        "/token-balance": {
            "get": {"tags": ["websocket"], "summary": "Token balance websocket",
                "parameters": [{"type": "string", "name": "token", "in": "query"}],
                "responses": {"101": {"description": "Switching Protocols"}}}
        }
    },
    "definitions": {
        "models.ErrorResponse": {"type": "object", "properties": {
            "statusCode": {"type": "integer"}, "message": {"type": "string"}, "error": {"type": "string"}}},
        "models.TokenBalanceResponse": {"type": "object", "properties": {"tokenBalance": {"type": "integer"}}},
        "models.SetBalanceRequest": {"type": "object", "required": ["tokenBalance"], "properties": {
            "tokenBalance": {"type": "integer", "minimum": 0, "example": 100}}},
        "models.ProfilePackage": {"type": "object", "properties": {
            "id": {"type": "string"}, "nameTh": {"type": "string"}, "nameEn": {"type": "string"}, "priceThb": {"type": "integer"}}},
        "models.ProfileSubscription": {"type": "object", "properties": {
            "id": {"type": "string"}, "package": {"$ref": "#/definitions/models.ProfilePackage"},
            "startTime": {"type": "string"}, "endTime": {"type": "string"}}},
        "models.ProfileResponse": {"type": "object", "properties": {
            "tokenBalance": {"type": "integer"}, "lastFreeFlipAt": {"type": "string"},
            "subscriptions": {"type": "array", "items": {"$ref": "#/definitions/models.ProfileSubscription"}}}},
        "models.CancelSubscriptionRequest": {"type": "object", "required": ["packageType"], "properties": {
            "packageType": {"type": "string", "enum": ["MONTHLY", "YEARLY", "FLIP_TOKEN_1"]}}},
        "models.CancelSubscriptionResponse": {"type": "object", "properties": {
            "id": {"type": "string"}, "packageType": {"type": "string"},
            "packageName": {"type": "object", "properties": {"th": {"type": "string"}, "en": {"type": "string"}}},
            "isVoided": {"type": "boolean"}, "voidedAt": {"type": "string"}}},
        "models.Artist": {"type": "object", "properties": {
            "id": {"type": "string"}, "fullName": {"type": "string"}, "avatarUrl": {"type": "string"},
            "description": {"type": "string"}, "specialties": {"type": "array", "items": {"type": "string"}}}},
        "models.ResetReadingsResponse": {"type": "object", "properties": {
            "success": {"type": "boolean"}, "message": {"type": "string"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"description": "Type \"Bearer\" followed by a space and the session token.", "type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Reading Service API",
	Description:      "Card reading backend: profiles, token balances, subscriptions and realtime balance updates",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
