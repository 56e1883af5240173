// Package docs - OpenAPI-описание Housing Survey Dashboard API.
//
// Сервис дашборда проектов жилищного строительства: загрузка анкет (xlsx, csv, geojson),
// каскадные фильтры, синхронизация с картой, сводки и разбивки по категориям.
// Каждое взаимодействие - событие сессии, ответ - полностью пересчитанное представление.
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
    "paths": {
        "/api/v1/health": {
            "get": {"tags": ["Ops"], "summary": "Health check", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Dependency unavailable"}}}
        },
        "/api/v1/sessions": {
            "post": {"tags": ["Sessions"], "summary": "Create dashboard session", "produces": ["application/json"],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ViewEnvelope"}}}}
        },
        "/api/v1/sessions/{id}": {
            "get": {"tags": ["Sessions"], "summary": "Get dashboard view", "parameters": [{"$ref": "#/parameters/SessionID"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ViewEnvelope"}}, "404": {"$ref": "#/responses/Error"}}},
            "delete": {"tags": ["Sessions"], "summary": "End dashboard session", "parameters": [{"$ref": "#/parameters/SessionID"}],
                "responses": {"204": {"description": "Deleted"}, "404": {"$ref": "#/responses/Error"}}}
        },
        "/api/v1/sessions/{id}/map": {
            "get": {"tags": ["Sessions"], "summary": "Get map payload", "parameters": [{"$ref": "#/parameters/SessionID"}],
                "responses": {"200": {"description": "GeoJSON FeatureCollection and forced viewport"}, "404": {"$ref": "#/responses/Error"}}}
        },
        "/api/v1/sessions/{id}/upload": {
            "post": {"tags": ["Interactions"], "summary": "Upload survey file", "consumes": ["multipart/form-data"],
                "parameters": [{"$ref": "#/parameters/SessionID"}, {"name": "file", "in": "formData", "type": "file", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ViewEnvelope"}},
                    "413": {"$ref": "#/responses/Error"}, "415": {"$ref": "#/responses/Error"}, "422": {"$ref": "#/responses/Error"}, "429": {"$ref": "#/responses/Error"}}}
        },
        "/api/v1/sessions/{id}/filters": {
            "put": {"tags": ["Interactions"], "summary": "Change cascading filters",
                "parameters": [{"$ref": "#/parameters/SessionID"}, {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FiltersRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ViewEnvelope"}}, "400": {"$ref": "#/responses/Error"}}}
        },
        "/api/v1/sessions/{id}/viewport": {
            "post": {"tags": ["Interactions"], "summary": "Report map viewport",
                "parameters": [{"$ref": "#/parameters/SessionID"}, {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ViewportRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ViewEnvelope"}}, "400": {"$ref": "#/responses/Error"}}}
        },
        "/api/v1/sessions/{id}/click": {
            "post": {"tags": ["Interactions"], "summary": "Report map click",
                "parameters": [{"$ref": "#/parameters/SessionID"}, {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ClickRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ViewEnvelope"}}, "400": {"$ref": "#/responses/Error"}}}
        },
        "/api/v1/sessions/{id}/select": {
            "post": {"tags": ["Interactions"], "summary": "Select project from the list",
                "parameters": [{"$ref": "#/parameters/SessionID"}, {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ViewEnvelope"}}, "404": {"$ref": "#/responses/Error"}}}
        },
        "/api/v1/sessions/{id}/zoom": {
            "post": {"tags": ["Interactions"], "summary": "Zoom the map to a project",
                "parameters": [{"$ref": "#/parameters/SessionID"}, {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ViewEnvelope"}}, "404": {"$ref": "#/responses/Error"}}},
            "delete": {"tags": ["Interactions"], "summary": "Clear zoom target", "parameters": [{"$ref": "#/parameters/SessionID"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ViewEnvelope"}}, "404": {"$ref": "#/responses/Error"}}}
        }
    },
    "parameters": {
        "SessionID": {"name": "id", "in": "path", "type": "string", "format": "uuid", "required": true}
    },
    "responses": {
        "Error": {"description": "Error", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
    },
    "definitions": {
        "ViewEnvelope": {"type": "object", "properties": {"data": {"type": "object"}, "meta": {"type": "object",
            "properties": {"total": {"type": "integer"}, "revision": {"type": "integer"}, "changed": {"type": "boolean"}}}}},
        "ErrorEnvelope": {"type": "object", "properties": {"error": {"type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}, "details": {"type": "object"}}}}},
        "FiltersRequest": {"type": "object", "properties": {"filters": {"type": "array", "maxItems": 7,
            "items": {"type": "object", "required": ["field"], "properties": {"field": {"type": "string",
                "enum": ["governorate", "city", "housing_type", "owner", "condition", "decisions", "gas_connection"]},
                "value": {"type": "string"}}}}}},
        "ViewportRequest": {"type": "object", "required": ["sw_lat", "sw_lon", "ne_lat", "ne_lon"],
            "properties": {"sw_lat": {"type": "number"}, "sw_lon": {"type": "number"}, "ne_lat": {"type": "number"}, "ne_lon": {"type": "number"}}},
        "ClickRequest": {"type": "object", "required": ["lat", "lon"], "properties": {"lat": {"type": "number"}, "lon": {"type": "number"}}},
        "RecordRequest": {"type": "object", "required": ["record_id"], "properties": {"record_id": {"type": "integer", "minimum": 0}}}
    }
}`

// SwaggerInfo - метаданные спецификации, используются /swagger/*
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Housing Survey Dashboard API",
	Description:      "Dashboard over housing-project survey data: uploads, cascading filters, map sync, summaries.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
