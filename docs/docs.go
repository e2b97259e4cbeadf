// Package docs registers the OpenAPI description served at /swagger/*.
// Regenerate with: swag init -g cmd/gateway/main.go
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
        "/api/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Credentials"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "User registration details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.registerResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/public": {
            "get": {"produces": ["application/json"], "tags": ["info"], "summary": "Public endpoint",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}}}}
        },
        "/api/protected": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["info"], "summary": "Protected endpoint",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.protectedResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }}
        },
        "/api/admin": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["info"], "summary": "Admin-only endpoint",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }}
        },
        "/api/me": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["info"], "summary": "Current user",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.meResponse"}}}}
        },
        "/api/health": {
            "get": {"produces": ["application/json"], "tags": ["health"], "summary": "Liveness probe",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.healthResponse"}}}}
        },
        "/api/health/ready": {
            "get": {"produces": ["application/json"], "tags": ["health"], "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.readinessResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.readinessResponse"}}
                }}
        },
        "/api/users": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["users"], "summary": "List users",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.UserResponse"}}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }},
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["users"], "summary": "Create a local user",
                "parameters": [{"description": "User", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createUserRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.UserResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }}
        },
        "/api/users/{id}": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["users"], "summary": "Get user",
                "parameters": [{"type": "string", "description": "User ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.UserResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Delete user",
                "parameters": [{"type": "string", "description": "User ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }}
        },
        "/api/users/{id}/roles": {
            "put": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["users"], "summary": "Replace user roles",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "id", "in": "path", "required": true},
                    {"description": "Roles", "name": "body", "in": "body", "required": true, "schema": {"type": "array", "items": {"type": "string"}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.UserResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }}
        },
        "/api/users/{id}/active": {
            "put": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["users"], "summary": "Set user activation",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "id", "in": "path", "required": true},
                    {"description": "Activation flag", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.setActiveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.UserResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }}
        },
        "/api/users/{id}/registration-events": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["users"], "summary": "Registration history",
                "parameters": [{"type": "string", "description": "User ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.RegistrationEvent"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }}
        }
    },
    "definitions": {
        "domain.Credentials": {"type": "object", "properties": {
            "access_token": {"type": "string"}, "refresh_token": {"type": "string"},
            "token_type": {"type": "string"}, "expires_in": {"type": "integer"}}},
        "domain.RegistrationEvent": {"type": "object", "properties": {
            "userId": {"type": "string"}, "username": {"type": "string"}, "email": {"type": "string"},
            "state": {"type": "string"}, "step": {"type": "string"}, "error": {"type": "string"}, "at": {"type": "string"}}},
        "handler.UserResponse": {"type": "object", "properties": {
            "id": {"type": "string"}, "username": {"type": "string"}, "email": {"type": "string"},
            "firstName": {"type": "string"}, "lastName": {"type": "string"},
            "roles": {"type": "array", "items": {"type": "string"}}, "active": {"type": "boolean"},
            "provisioningStatus": {"type": "string"}, "createdAt": {"type": "string"}}},
        "handler.createUserRequest": {"type": "object", "required": ["email", "username"], "properties": {
            "username": {"type": "string"}, "email": {"type": "string"},
            "firstName": {"type": "string"}, "lastName": {"type": "string"}}},
        "handler.errorResponse": {"type": "object", "properties": {"error": {"type": "string"}}},
        "handler.healthResponse": {"type": "object", "properties": {"status": {"type": "string"}, "timestamp": {"type": "string"}}},
        "handler.loginRequest": {"type": "object", "required": ["email", "password"], "properties": {
            "email": {"type": "string"}, "password": {"type": "string"}}},
        "handler.meResponse": {"type": "object", "properties": {
            "username": {"type": "string"}, "email": {"type": "string"}, "firstName": {"type": "string"},
            "lastName": {"type": "string"}, "roles": {"type": "array", "items": {"type": "string"}}}},
        "handler.messageResponse": {"type": "object", "properties": {"message": {"type": "string"}}},
        "handler.protectedResponse": {"type": "object", "properties": {
            "message": {"type": "string"}, "roles": {"type": "array", "items": {"type": "string"}}}},
        "handler.readinessResponse": {"type": "object", "properties": {
            "status": {"type": "string"},
            "dependencies": {"type": "object", "additionalProperties": {"type": "object", "properties": {
                "status": {"type": "string"}, "error": {"type": "string"}}}}}},
        "handler.registerRequest": {"type": "object", "required": ["email", "firstName", "lastName", "password", "username"], "properties": {
            "username": {"type": "string"}, "email": {"type": "string"}, "firstName": {"type": "string"},
            "lastName": {"type": "string"}, "password": {"type": "string", "minLength": 6}}},
        "handler.registerResponse": {"type": "object", "properties": {
            "message": {"type": "string"},
            "user": {"type": "object", "properties": {"id": {"type": "string"}, "username": {"type": "string"}, "email": {"type": "string"}}}}},
        "handler.setActiveRequest": {"type": "object", "required": ["active"], "properties": {"active": {"type": "boolean"}}}
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
	Title:            "Identity Gateway API",
	Description:      "Registration, login and role-gated access backed by an OpenID Connect provider.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
