// Package docs は /swagger で配る API 定義。swag 形式のテンプレートを登録する。
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
        "/login": {"post": {"tags": ["auth"], "summary": "operator login, returns a JWT", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/accounts": {"post": {"tags": ["auth"], "security": [{"Bearer": []}], "summary": "register an operator account (admin)", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}},
        "/parts": {"get": {"tags": ["roster"], "summary": "list parts with labels", "responses": {"200": {"description": "OK"}}}},
        "/persons": {
            "get": {"tags": ["roster"], "security": [{"Bearer": []}], "summary": "list persons (part, lifecycle, role, active)", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["roster"], "security": [{"Bearer": []}], "summary": "create person", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/persons/{id}": {
            "get": {"tags": ["roster"], "security": [{"Bearer": []}], "summary": "get person", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["roster"], "security": [{"Bearer": []}], "summary": "update person", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["roster"], "security": [{"Bearer": []}], "summary": "delete person", "responses": {"204": {"description": "No Content"}}}
        },
        "/persons/{id}/lifecycle": {"patch": {"tags": ["roster"], "security": [{"Bearer": []}], "summary": "change lifecycle", "responses": {"200": {"description": "OK"}}}},
        "/attendances": {
            "get": {"tags": ["attendance"], "summary": "list attendance records", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["attendance"], "security": [{"Bearer": []}], "summary": "toggle a cell (status null clears)", "responses": {"200": {"description": "OK"}, "204": {"description": "Cleared"}}},
            "delete": {"tags": ["attendance"], "security": [{"Bearer": []}], "summary": "clear a cell", "responses": {"204": {"description": "No Content"}}}
        },
        "/imports/rows": {"post": {"tags": ["imports"], "security": [{"Bearer": []}], "summary": "import rows (JSON or CSV/xlsx file)", "responses": {"200": {"description": "OK"}}}},
        "/imports/matrix": {"post": {"tags": ["imports"], "security": [{"Bearer": []}], "summary": "import a name x date matrix (CSV/xlsx file)", "responses": {"200": {"description": "OK"}}}},
        "/imports/template": {"get": {"tags": ["imports"], "security": [{"Bearer": []}], "summary": "matrix template for a month", "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"], "responses": {"200": {"description": "OK"}}}},
        "/imports/{batch_id}": {"get": {"tags": ["imports"], "security": [{"Bearer": []}], "summary": "import batch result", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/reports/daily": {"get": {"tags": ["reports"], "summary": "daily report", "responses": {"200": {"description": "OK"}}}},
        "/reports/weekly": {"get": {"tags": ["reports"], "summary": "weekly report", "responses": {"200": {"description": "OK"}}}},
        "/reports/monthly": {"get": {"tags": ["reports"], "summary": "monthly report", "responses": {"200": {"description": "OK"}}}},
        "/reports/yearly": {"get": {"tags": ["reports"], "summary": "yearly attended counts", "responses": {"200": {"description": "OK"}}}},
        "/reports/soloists": {"get": {"tags": ["reports"], "summary": "soloist Saturday/Sunday counts", "responses": {"200": {"description": "OK"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "CHORUS backend API",
	Description:      "Choir attendance ledger, spreadsheet import and statistics.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
