// Package docs holds the OpenAPI description served under /swagger.
//
// Regenerate with: swag init -g internal/api/router.go -o docs
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
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "User registration details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/auth/registration": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Registration landing",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/account": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["account"],
                "summary": "Delete account",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["account"],
                "summary": "Current profile",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/roles/current": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["roles"],
                "summary": "Get the active role record",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.roleResponse"}}, "403": {"description": "Forbidden"}}
            }
        },
        "/roles/{kind}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["roles"],
                "summary": "Get the caller's role record",
                "parameters": [{"type": "string", "description": "Role kind", "name": "kind", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.roleResponse"}}, "404": {"description": "Not Found"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["roles"],
                "summary": "Apply for a role",
                "parameters": [
                    {"type": "string", "description": "Role kind (doctor, patient, monitor)", "name": "kind", "in": "path", "required": true},
                    {"description": "Role details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.applyRoleRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.roleResponse"}}, "409": {"description": "Conflict"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["roles"],
                "summary": "Withdraw a role",
                "parameters": [{"type": "string", "description": "Role kind", "name": "kind", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}
            }
        },
        "/admin/roles/{kind}/{user_id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Inspect a user's role record",
                "parameters": [
                    {"type": "string", "description": "Role kind", "name": "kind", "in": "path", "required": true},
                    {"type": "string", "description": "User id", "name": "user_id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.roleResponse"}}}
            }
        },
        "/admin/roles/{kind}/{user_id}/approve": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Approve a role application",
                "parameters": [
                    {"type": "string", "description": "Role kind", "name": "kind", "in": "path", "required": true},
                    {"type": "string", "description": "User id", "name": "user_id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.roleResponse"}}, "409": {"description": "Conflict"}}
            }
        },
        "/admin/roles/{kind}/{user_id}/reject": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Reject a role application",
                "parameters": [
                    {"type": "string", "description": "Role kind", "name": "kind", "in": "path", "required": true},
                    {"type": "string", "description": "User id", "name": "user_id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.roleResponse"}}}
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}
            }
        }
    },
    "definitions": {
        "handler.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "fields": {"type": "array", "items": {"type": "object", "properties": {"field": {"type": "string"}, "message": {"type": "string"}}}}
            }
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["national_id", "email", "password", "first_name", "last_name", "gender", "birthdate", "home_address", "phone_number"],
            "properties": {
                "national_id": {"type": "string", "example": "12345"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "gender": {"type": "string", "enum": ["male", "female"]},
                "birthdate": {"type": "string", "example": "1990-04-01"},
                "home_address": {"type": "string"},
                "phone_number": {"type": "string"}
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["doctor", "patient", "monitor"]}
            }
        },
        "handler.authResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"type": "object"}
            }
        },
        "handler.applyRoleRequest": {
            "type": "object",
            "properties": {
                "doctor": {"type": "object", "properties": {"specialty": {"type": "string"}, "license_number": {"type": "string"}}},
                "patient": {"type": "object", "properties": {"blood_type": {"type": "string"}, "emergency_contact": {"type": "string"}}},
                "monitor": {"type": "object", "properties": {"organization": {"type": "string"}}}
            }
        },
        "handler.roleResponse": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "user_id": {"type": "string"},
                "active": {"type": "boolean"},
                "status": {"type": "string", "enum": ["PENDING", "APPROVED", "REJECTED"]},
                "details": {"type": "object"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
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
	Title:            "Health Portal API",
	Description:      "Registration, authentication and role-based access for doctors, patients and monitors.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
