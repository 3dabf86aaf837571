// Package docs holds the OpenAPI description served under /swagger/.
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
        "/members": {
            "get": {"produces": ["application/json"], "tags": ["members"], "summary": "List members", "responses": {"200": {"description": "data contains the members", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}},
            "post": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["members"], "summary": "Create a member",
                "parameters": [{"name": "member", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.CreateMemberRequest"}}],
                "responses": {"201": {"description": "data contains the created member", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "400": {"description": "bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "503": {"description": "service_unavailable", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}}
        },
        "/members/{memberID}": {
            "get": {"produces": ["application/json"], "tags": ["members"], "summary": "Get a member by ID",
                "parameters": [{"type": "string", "name": "memberID", "in": "path", "required": true}],
                "responses": {"200": {"description": "data contains the member", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "404": {"description": "not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}}
        },
        "/members/{memberID}/handle": {
            "put": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["members"], "summary": "Set a member's handle",
                "parameters": [{"type": "string", "name": "memberID", "in": "path", "required": true}, {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.SetHandleRequest"}}],
                "responses": {"200": {"description": "data contains the updated member", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "400": {"description": "bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "404": {"description": "not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "409": {"description": "conflict", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}}
        },
        "/members/{memberID}/registrations": {
            "get": {"produces": ["application/json"], "tags": ["admission"], "summary": "List a member's registrations",
                "parameters": [{"type": "string", "name": "memberID", "in": "path", "required": true}],
                "responses": {"200": {"description": "data contains the registrations", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}}
        },
        "/handles/{handle}": {
            "get": {"produces": ["application/json"], "tags": ["members"], "summary": "Get a member by handle",
                "parameters": [{"type": "string", "name": "handle", "in": "path", "required": true}],
                "responses": {"200": {"description": "data contains the member", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "404": {"description": "not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}}
        },
        "/events": {
            "get": {"produces": ["application/json"], "tags": ["events"], "summary": "List events", "responses": {"200": {"description": "data contains the events", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}},
            "post": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["events"], "summary": "Create an event",
                "parameters": [{"name": "event", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.CreateEventRequest"}}],
                "responses": {"201": {"description": "data contains the created event", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "400": {"description": "bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}}
        },
        "/events/{eventID}": {
            "get": {"produces": ["application/json"], "tags": ["events"], "summary": "Get an event by ID",
                "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "data contains the event", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "404": {"description": "not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}},
            "patch": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["events"], "summary": "Toggle event flags",
                "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}, {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.UpdateEventRequest"}}],
                "responses": {"200": {"description": "data contains the updated event", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "404": {"description": "not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}}
        },
        "/events/{eventID}/attendance": {
            "get": {"produces": ["application/json"], "tags": ["events"], "summary": "Get attendance counts for an event",
                "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "data contains the attendance summary", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "404": {"description": "not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}}
        },
        "/events/{eventID}/registrations": {
            "get": {"produces": ["application/json"], "tags": ["admission"], "summary": "List an event's registrations",
                "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}, {"type": "integer", "name": "page", "in": "query"}, {"type": "integer", "name": "page_size", "in": "query"}],
                "responses": {"200": {"description": "data contains items and pagination", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "404": {"description": "not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}},
            "post": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["admission"], "summary": "Register a member for an event",
                "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}, {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.RegisterRequest"}}],
                "responses": {"200": {"description": "Already registered", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "201": {"description": "New registration created", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "404": {"description": "not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "409": {"description": "conflict", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}}
        },
        "/events/{eventID}/registrations/{memberID}/payment": {
            "post": {"produces": ["application/json"], "tags": ["admission"], "summary": "Mark a registration as paid",
                "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}, {"type": "string", "name": "memberID", "in": "path", "required": true}],
                "responses": {"200": {"description": "data contains the registration", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "404": {"description": "not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}}
        },
        "/events/{eventID}/registrations/{memberID}/check-in": {
            "post": {"produces": ["application/json"], "tags": ["admission"], "summary": "Check a member in",
                "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}, {"type": "string", "name": "memberID", "in": "path", "required": true}],
                "responses": {"200": {"description": "data contains the registration", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "402": {"description": "payment_required", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "403": {"description": "forbidden", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "404": {"description": "not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "409": {"description": "conflict", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}}
        },
        "/events/{eventID}/registrations/{memberID}/check-out": {
            "post": {"produces": ["application/json"], "tags": ["admission"], "summary": "Check a member out",
                "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}, {"type": "string", "name": "memberID", "in": "path", "required": true}],
                "responses": {"200": {"description": "data contains the registration", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "404": {"description": "not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "409": {"description": "conflict", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}}
        },
        "/events/{eventID}/scan": {
            "post": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["admission"], "summary": "Check a member in by identity token",
                "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}, {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.ScanRequest"}}],
                "responses": {"200": {"description": "data contains the member and registration", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "400": {"description": "bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "402": {"description": "payment_required", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "403": {"description": "forbidden", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "404": {"description": "not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "409": {"description": "conflict", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}}
        }
    },
    "definitions": {
        "controllers.CreateMemberRequest": {"type": "object", "properties": {"email": {"type": "string"}, "first_name": {"type": "string"}, "last_name": {"type": "string"}, "member_type": {"type": "string"}}},
        "controllers.SetHandleRequest": {"type": "object", "properties": {"handle": {"type": "string"}}},
        "controllers.CreateEventRequest": {"type": "object", "properties": {"name": {"type": "string"}, "capacity": {"type": "integer"}, "requires_payment": {"type": "boolean"}}},
        "controllers.UpdateEventRequest": {"type": "object", "properties": {"is_active": {"type": "boolean"}, "check_in_enabled": {"type": "boolean"}}},
        "controllers.RegisterRequest": {"type": "object", "properties": {"member_id": {"type": "string"}, "payment_verified": {"type": "boolean"}}},
        "controllers.ScanRequest": {"type": "object", "properties": {"token": {"type": "string"}}},
        "helpers.APIError": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}}},
        "helpers.APIResponse": {"type": "object", "properties": {"data": {}, "error": {"$ref": "#/definitions/helpers.APIError"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Member Admission API",
	Description:      "Member identity tokens, one-time handles and capacity-gated event admission.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
