// Package gateway holds the OpenAPI document served under /swagger/.
// Keep it in sync with the handler annotations in internal/gateway/http.
package gateway

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/credgate"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/auth/login": {
            "post": {
                "description": "Resolves the identifier (email or username) in the directory, checks the password and issues an HS256 access token.",
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Log in",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/authsdk.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Token and user", "schema": {"$ref": "#/definitions/authsdk.LoginResponse"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/authsdk.ValidationErrorResponse"}},
                    "401": {"description": "Credenciales invalidas", "schema": {"$ref": "#/definitions/authsdk.MessageResponse"}},
                    "403": {"description": "Usuario inactivo", "schema": {"$ref": "#/definitions/authsdk.MessageResponse"}},
                    "500": {"description": "Directory or credential failure", "schema": {"$ref": "#/definitions/authsdk.MessageResponse"}}
                }
            }
        },
        "/api/auth/validate-token": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Reports whether the bearer token is valid, revoked or expired.",
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Validate a token",
                "responses": {
                    "200": {"description": "Token is valid", "schema": {"$ref": "#/definitions/authsdk.ValidateResponse"}},
                    "400": {"description": "Missing or malformed Authorization header", "schema": {"$ref": "#/definitions/authsdk.ValidationErrorResponse"}},
                    "401": {"description": "Token invalidado, Token expirado or Token invalido", "schema": {"$ref": "#/definitions/authsdk.MessageResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/authsdk.MessageResponse"}}
                }
            }
        },
        "/api/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Adds the bearer token to the deny-list. The token is not verified first.",
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Log out",
                "responses": {
                    "200": {"description": "Sesion cerrada exitosamente", "schema": {"$ref": "#/definitions/authsdk.MessageResponse"}},
                    "400": {"description": "Missing or malformed Authorization header", "schema": {"$ref": "#/definitions/authsdk.ValidationErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/authsdk.MessageResponse"}}
                }
            }
        },
        "/api/auth/admin/revocations": {
            "delete": {
                "security": [{"AdminToken": []}],
                "description": "Empties the in-memory deny-list. Only registered when ADMIN_TOKEN is configured.",
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Clear revoked tokens",
                "responses": {
                    "200": {"description": "Cleared", "schema": {"$ref": "#/definitions/authsdk.RevocationsClearedResponse"}},
                    "401": {"description": "No autorizado", "schema": {"$ref": "#/definitions/authsdk.MessageResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "authsdk.LoginRequest": {
            "type": "object",
            "required": ["identifier", "password"],
            "properties": {
                "identifier": {"type": "string", "example": "alice@example.com"},
                "password": {"type": "string", "example": "correct horse"}
            }
        },
        "authsdk.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "1"},
                "username": {"type": "string", "example": "alice"},
                "email": {"type": "string", "example": "alice@example.com"},
                "role": {"type": "string", "example": "admin"}
            }
        },
        "authsdk.LoginResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Login exitoso"},
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/authsdk.User"}
            }
        },
        "authsdk.TokenUser": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "1"},
                "role": {"type": "string", "example": "admin"},
                "username": {"type": "string", "example": "alice"}
            }
        },
        "authsdk.ValidateResponse": {
            "type": "object",
            "properties": {
                "valid": {"type": "boolean", "example": true},
                "user": {"$ref": "#/definitions/authsdk.TokenUser"}
            }
        },
        "authsdk.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "authsdk.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "OK"},
                "service": {"type": "string", "example": "Auth Service"}
            }
        },
        "authsdk.FieldError": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "example": "field"},
                "msg": {"type": "string", "example": "La contrasena es requerida"},
                "path": {"type": "string", "example": "password"},
                "location": {"type": "string", "example": "body"}
            }
        },
        "authsdk.ValidationErrorResponse": {
            "type": "object",
            "properties": {
                "errors": {"type": "array", "items": {"$ref": "#/definitions/authsdk.FieldError"}}
            }
        },
        "authsdk.RevocationsClearedResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "cleared": {"type": "integer", "example": 3}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT access token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        },
        "AdminToken": {
            "type": "apiKey",
            "name": "X-Admin-Token",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:3002",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "credgate Authentication Gateway API",
	Description:      "Verifies credentials against the clients directory and issues HS256 access tokens that can be validated and revoked.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
