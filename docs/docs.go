// Package docs holds the swagger document served at /swagger/*any.
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
    "securityDefinitions": {
        "Bearer": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/health": {
            "get": {"tags": ["system"], "summary": "Liveness and DB ping", "responses": {"200": {"description": "OK"}, "503": {"description": "DB unreachable"}}}
        },
        "/books": {
            "get": {
                "tags": ["books"], "summary": "List books",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "skip", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "headers": {"X-Total-Count": {"type": "integer"}}, "schema": {"type": "array", "items": {"$ref": "#/definitions/Book"}}}}
            },
            "post": {
                "tags": ["books"], "summary": "Create a book", "security": [{"Bearer": []}],
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBookRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Book"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Error"}}}
            }
        },
        "/books/{id}": {
            "get": {"tags": ["books"], "summary": "Get a book", "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Book"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Error"}}}},
            "put": {"tags": ["books"], "summary": "Update a book", "security": [{"Bearer": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}, {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateBookRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Book"}}}},
            "patch": {"tags": ["books"], "summary": "Partially update a book", "security": [{"Bearer": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}, {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateBookRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Book"}}}},
            "delete": {"tags": ["books"], "summary": "Delete a book without open borrows", "security": [{"Bearer": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}], "responses": {"204": {"description": "No Content"}, "400": {"description": "Open borrows exist", "schema": {"$ref": "#/definitions/Error"}}}}
        },
        "/books/{id}/like": {
            "post": {"tags": ["books"], "summary": "Add one like", "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Book"}}}}
        },
        "/books/{id}/rate": {
            "post": {"tags": ["books"], "summary": "Submit a 0-5 rating", "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}, {"name": "body", "in": "body", "required": true, "schema": {"type": "object", "properties": {"rating": {"type": "number"}}}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Book"}}}}
        },
        "/books/{id}/favorite": {
            "post": {"tags": ["books"], "summary": "Toggle favorite", "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Book"}}}}
        },
        "/members": {
            "get": {"tags": ["members"], "summary": "List members", "security": [{"Bearer": []}], "parameters": [{"name": "search", "in": "query", "type": "string"}, {"name": "skip", "in": "query", "type": "integer"}, {"name": "limit", "in": "query", "type": "integer"}], "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Member"}}}}},
            "post": {"tags": ["members"], "summary": "Register a member", "security": [{"Bearer": []}], "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateMemberRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Member"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Error"}}}}
        },
        "/members/{id}": {
            "get": {"tags": ["members"], "summary": "Get a member", "security": [{"Bearer": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Member"}}}},
            "put": {"tags": ["members"], "summary": "Update a member", "security": [{"Bearer": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Member"}}}},
            "delete": {"tags": ["members"], "summary": "Delete a member without open borrows", "security": [{"Bearer": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}], "responses": {"204": {"description": "No Content"}}}
        },
        "/members/{id}/borrows": {
            "get": {"tags": ["borrows"], "summary": "Borrow history of a member", "security": [{"Bearer": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}], "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Borrow"}}}}}
        },
        "/borrow": {
            "post": {"tags": ["borrows"], "summary": "Lend one copy", "security": [{"Bearer": []}], "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"type": "object", "properties": {"book_id": {"type": "integer"}, "member_id": {"type": "integer"}}}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Borrow"}}, "400": {"description": "UNAVAILABLE or INVALID_ARGUMENT", "schema": {"$ref": "#/definitions/Error"}}, "404": {"description": "Book or member not found", "schema": {"$ref": "#/definitions/Error"}}}}
        },
        "/return/{borrow_id}": {
            "post": {"tags": ["borrows"], "summary": "Return a borrow by id or ULID", "security": [{"Bearer": []}], "parameters": [{"name": "borrow_id", "in": "path", "required": true, "type": "string"}, {"name": "body", "in": "body", "schema": {"type": "object", "properties": {"return_date": {"type": "string", "format": "date-time"}}}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Borrow"}}, "400": {"description": "ALREADY_RETURNED", "schema": {"$ref": "#/definitions/Error"}}}}
        },
        "/borrows": {
            "get": {"tags": ["borrows"], "summary": "List borrows", "security": [{"Bearer": []}], "parameters": [{"name": "returned", "in": "query", "type": "boolean"}, {"name": "overdue", "in": "query", "type": "boolean"}, {"name": "member_id", "in": "query", "type": "integer"}, {"name": "book_id", "in": "query", "type": "integer"}], "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Borrow"}}}}}
        },
        "/borrows/{key}": {
            "get": {"tags": ["borrows"], "summary": "Get a borrow by id or ULID", "security": [{"Bearer": []}], "parameters": [{"name": "key", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Borrow"}}}}
        },
        "/dashboard/stats": {
            "get": {"tags": ["dashboard"], "summary": "Collection statistics", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Stats"}}}}
        },
        "/labels/books.csv": {
            "get": {"tags": ["labels"], "summary": "Shelf label CSV", "produces": ["text/csv"], "security": [{"Bearer": []}], "parameters": [{"name": "ids", "in": "query", "required": true, "type": "string"}, {"name": "encoding", "in": "query", "type": "string", "enum": ["utf8", "sjis"]}], "responses": {"200": {"description": "CSV"}}}
        },
        "/auth/login": {
            "post": {"tags": ["auth"], "summary": "Staff login", "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"type": "object", "properties": {"id": {"type": "string"}, "password": {"type": "string"}}}}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/Error"}}}}
        }
    },
    "definitions": {
        "Error": {
            "type": "object",
            "properties": {"error": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}}}}
        },
        "Book": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"}, "title": {"type": "string"}, "author": {"type": "string"},
                "published_year": {"type": "integer"}, "isbn": {"type": "string"},
                "copies": {"type": "integer"}, "available_copies": {"type": "integer"},
                "likes": {"type": "integer"}, "rating": {"type": "number"}, "rating_count": {"type": "integer"},
                "is_favorite": {"type": "boolean"}, "cover_id": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "CreateBookRequest": {
            "type": "object", "required": ["title", "author"],
            "properties": {
                "title": {"type": "string"}, "author": {"type": "string"}, "published_year": {"type": "integer"},
                "isbn": {"type": "string"}, "copies": {"type": "integer"}, "cover_id": {"type": "string"}
            }
        },
        "UpdateBookRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"}, "author": {"type": "string"}, "published_year": {"type": "integer"},
                "isbn": {"type": "string"}, "copies": {"type": "integer"}, "cover_id": {"type": "string"},
                "is_favorite": {"type": "boolean"}
            }
        },
        "Member": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"}, "name": {"type": "string"}, "email": {"type": "string"},
                "phone": {"type": "string"}, "address": {"type": "string"},
                "join_date": {"type": "string", "format": "date-time"}, "is_active": {"type": "boolean"}
            }
        },
        "CreateMemberRequest": {
            "type": "object", "required": ["name"],
            "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "phone": {"type": "string"}, "address": {"type": "string"}}
        },
        "Borrow": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"}, "borrow_ulid": {"type": "string"},
                "book_id": {"type": "integer"}, "member_id": {"type": "integer"},
                "borrow_date": {"type": "string", "format": "date-time"},
                "due_date": {"type": "string", "format": "date-time"},
                "return_date": {"type": "string", "format": "date-time"},
                "returned": {"type": "boolean"}, "book_title": {"type": "string"},
                "member_name": {"type": "string"}, "overdue": {"type": "boolean"}
            }
        },
        "Stats": {
            "type": "object",
            "properties": {
                "total_books": {"type": "integer"}, "total_members": {"type": "integer"},
                "active_borrows": {"type": "integer"}, "overdue_borrows": {"type": "integer"},
                "available_books": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "LibraTrack API",
	Description:      "Library management: books, members, borrowing and returns.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
