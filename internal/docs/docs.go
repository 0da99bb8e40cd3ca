// Package docs registers the OpenAPI document served by gin-swagger in dev mode.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "Bearer": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/login": {
            "post": {
                "summary": "Issue a bearer token",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {"200": {"description": "token"}, "401": {"description": "invalid username or password"}}
            }
        },
        "/dashboard": {
            "get": {"summary": "Member/book counts and unpaid fines", "responses": {"200": {"description": "ok"}}}
        },
        "/members": {
            "get": {
                "summary": "List members",
                "parameters": [{"in": "query", "name": "q", "type": "string"}],
                "responses": {"200": {"description": "ok"}}
            },
            "post": {
                "summary": "Create a member",
                "security": [{"Bearer": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/MemberRequest"}}],
                "responses": {"201": {"description": "refreshed list"}, "400": {"description": "invalid input"}, "409": {"description": "database error"}}
            }
        },
        "/members/{id}": {
            "put": {
                "summary": "Update a member",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"in": "path", "name": "id", "type": "integer", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/MemberRequest"}}
                ],
                "responses": {"200": {"description": "refreshed list"}, "422": {"description": "not in current list"}}
            },
            "delete": {
                "summary": "Delete a member",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"in": "path", "name": "id", "type": "integer", "required": true},
                    {"in": "query", "name": "confirm", "type": "boolean", "required": true}
                ],
                "responses": {"200": {"description": "refreshed list"}, "428": {"description": "not confirmed"}}
            }
        },
        "/books": {
            "get": {"summary": "List books", "parameters": [{"in": "query", "name": "q", "type": "string"}], "responses": {"200": {"description": "ok"}}},
            "post": {"summary": "Create a book", "security": [{"Bearer": []}], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/BookRequest"}}], "responses": {"201": {"description": "refreshed list"}}}
        },
        "/books/{id}": {
            "put": {"summary": "Update a book", "security": [{"Bearer": []}], "parameters": [{"in": "path", "name": "id", "type": "integer", "required": true}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/BookRequest"}}], "responses": {"200": {"description": "refreshed list"}}},
            "delete": {"summary": "Delete a book", "security": [{"Bearer": []}], "parameters": [{"in": "path", "name": "id", "type": "integer", "required": true}, {"in": "query", "name": "confirm", "type": "boolean", "required": true}], "responses": {"200": {"description": "refreshed list"}}}
        },
        "/staff": {
            "get": {"summary": "List staff", "parameters": [{"in": "query", "name": "q", "type": "string"}], "responses": {"200": {"description": "ok"}}},
            "post": {"summary": "Create a staff member", "security": [{"Bearer": []}], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/StaffRequest"}}], "responses": {"201": {"description": "refreshed list"}}}
        },
        "/staff/{id}": {
            "put": {"summary": "Update a staff member", "security": [{"Bearer": []}], "parameters": [{"in": "path", "name": "id", "type": "integer", "required": true}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/StaffRequest"}}], "responses": {"200": {"description": "refreshed list"}}},
            "delete": {"summary": "Delete a staff member", "security": [{"Bearer": []}], "parameters": [{"in": "path", "name": "id", "type": "integer", "required": true}, {"in": "query", "name": "confirm", "type": "boolean", "required": true}], "responses": {"200": {"description": "refreshed list"}}}
        },
        "/transactions": {
            "get": {"summary": "Transactions with fine summary", "responses": {"200": {"description": "ok"}}}
        },
        "/transactions/{id}/fine": {
            "put": {
                "summary": "Add or update the fine of a transaction",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"in": "path", "name": "id", "type": "integer", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/FineRequest"}}
                ],
                "responses": {"200": {"description": "updated"}, "201": {"description": "created"}, "404": {"description": "transaction not found"}}
            }
        },
        "/events": {"get": {"summary": "Library events", "responses": {"200": {"description": "ok"}}}},
        "/reports/categories": {"get": {"summary": "Book categories", "responses": {"200": {"description": "ok"}}}},
        "/reports/book-stats": {"get": {"summary": "Book statistics", "parameters": [{"in": "query", "name": "category", "type": "string"}], "responses": {"200": {"description": "ok"}}}},
        "/reports/member-activity": {"get": {"summary": "Member activity", "parameters": [{"in": "query", "name": "q", "type": "string"}], "responses": {"200": {"description": "ok"}}}},
        "/reports/overdue": {"get": {"summary": "Overdue books", "parameters": [{"in": "query", "name": "min_days", "type": "string"}], "responses": {"200": {"description": "ok"}}}},
        "/reports/overdue.csv": {"get": {"summary": "Overdue books as CSV", "produces": ["text/csv"], "parameters": [{"in": "query", "name": "min_days", "type": "string"}, {"in": "query", "name": "encoding", "type": "string", "enum": ["utf8", "sjis"]}], "responses": {"200": {"description": "csv"}}}},
        "/reports/finance": {"get": {"summary": "Collected vs pending fines", "responses": {"200": {"description": "ok"}}}},
        "/reports/statistics": {"get": {"summary": "Library statistics", "responses": {"200": {"description": "ok"}}}},
        "/reports/changes": {"get": {"summary": "Recent changes", "parameters": [{"in": "query", "name": "entity", "type": "string"}, {"in": "query", "name": "limit", "type": "integer"}], "responses": {"200": {"description": "ok"}}}},
        "/reports/audit/{entity}/{id}": {"get": {"summary": "Audit history of one entity", "parameters": [{"in": "path", "name": "entity", "type": "string", "required": true}, {"in": "path", "name": "id", "type": "integer", "required": true}], "responses": {"200": {"description": "ok"}, "404": {"description": "no history"}}}}
    },
    "definitions": {
        "LoginRequest": {"type": "object", "properties": {"username": {"type": "string"}, "password": {"type": "string"}}},
        "MemberRequest": {"type": "object", "properties": {"details": {"type": "string"}, "registration_date": {"type": "string", "example": "2024-01-15"}, "loan_history": {"type": "string"}}},
        "BookRequest": {"type": "object", "properties": {"title": {"type": "string"}, "isbn": {"type": "string"}, "category": {"type": "string"}, "status": {"type": "string"}}},
        "StaffRequest": {"type": "object", "properties": {"email": {"type": "string"}, "address": {"type": "string"}, "phone": {"type": "string"}}},
        "FineRequest": {"type": "object", "properties": {"amount": {"type": "number"}, "status": {"type": "string", "enum": ["Paid", "Unpaid"]}}}
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Library Management API",
	Description:      "Members, books, staff, fines and reports over the library database.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
