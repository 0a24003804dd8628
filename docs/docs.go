// Package docs registers the OpenAPI description served by the Swagger UI
// route. Code generated by swag. DO NOT EDIT.
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
        "/ask": {
            "post": {
                "description": "Generates an advisory reply. When the caller is identified the exchange is saved to their history.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Ask"],
                "summary": "Ask the study-abroad assistant",
                "operationId": "ask",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Empty or oversized message"},
                    "500": {"description": "Generation failed"}
                }
            }
        },
        "/auth/register": {
            "post": {
                "description": "Registers a new user and issues a session token (cookie + body).",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Create an account",
                "operationId": "register",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation failure or email taken"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "description": "Verifies email and password and issues a session token (cookie + body).",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Log in",
                "operationId": "login",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Validation failure or invalid credentials"}
                }
            }
        },
        "/chats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Chats"],
                "summary": "List chats (paginated)",
                "operationId": "listChats",
                "responses": {
                    "200": {"description": "OK"},
                    "304": {"description": "Not Modified"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Chats"],
                "summary": "Create a new chat",
                "operationId": "createChat",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/chats/{id}/messages": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Messages"],
                "summary": "Chat history",
                "operationId": "listChatMessages",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Chat not found"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Messages"],
                "summary": "Send a prompt to a chat",
                "operationId": "postChatMessage",
                "responses": {
                    "201": {"description": "Created"},
                    "404": {"description": "Chat not found"},
                    "500": {"description": "Generation failed"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "GlobeMate API",
	Description:      "Study-abroad advisory chat backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
