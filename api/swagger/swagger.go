package swagger

import "github.com/swaggo/swag"

// docTemplate is kept in sync with the godoc annotations on the handlers.
const docTemplate = `{
    "swagger": "2.0",
    "info": {"title": "Health Survey API", "description": "Daily health survey collection for governorates, regions and field employees.", "version": "1.0.0"},
    "basePath": "/api/v1",
    "schemes": ["http", "https"],
    "securityDefinitions": {"BearerAuth": {"type": "apiKey", "in": "header", "name": "Authorization", "description": "Bearer access token"}},
    "tags": [
        {"name": "Auth"},
        {"name": "Users"},
        {"name": "Governorates"},
        {"name": "Regions"},
        {"name": "Surveys"},
        {"name": "Responses"},
        {"name": "Governorate Workspace"},
        {"name": "Employee Workspace"},
        {"name": "Audit"},
        {"name": "Exports"},
        {"name": "System"}
    ],
    "paths": {
        "/auth/login": {"post": {"tags": ["Auth"], "summary": "Login", "produces": ["application/json"], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/auth/refresh": {"post": {"tags": ["Auth"], "summary": "Rotate refresh token", "produces": ["application/json"], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/auth/logout": {"post": {"tags": ["Auth"], "summary": "Revoke refresh token", "produces": ["application/json"], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/auth/change-password": {"post": {"tags": ["Auth"], "summary": "Change password", "produces": ["application/json"], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangePasswordRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/auth/me": {"get": {"tags": ["Auth"], "summary": "Current user", "produces": ["application/json"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/users": {"get": {"tags": ["Users"], "summary": "List users", "produces": ["application/json"], "parameters": [{"name": "role", "in": "query", "type": "string"}, {"name": "governorate_id", "in": "query", "type": "string"}, {"name": "search", "in": "query", "type": "string"}, {"name": "sort_by", "in": "query", "type": "string"}, {"name": "sort_order", "in": "query", "type": "string"}, {"name": "page", "in": "query", "type": "integer"}, {"name": "page_size", "in": "query", "type": "integer"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}, "post": {"tags": ["Users"], "summary": "Create user", "produces": ["application/json"], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateUserRequest"}}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/users/{id}": {"get": {"tags": ["Users"], "summary": "Get user", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}, "put": {"tags": ["Users"], "summary": "Update user", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateUserRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}, "delete": {"tags": ["Users"], "summary": "Delete user", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"204": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/users/{id}/surveys": {"get": {"tags": ["Users"], "summary": "List allowed surveys", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}, "put": {"tags": ["Users"], "summary": "Replace allowed surveys", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AllowedSurveysRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/governorates": {"get": {"tags": ["Governorates"], "summary": "List governorates", "produces": ["application/json"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}, "post": {"tags": ["Governorates"], "summary": "Create governorate", "produces": ["application/json"], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GovernorateRequest"}}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/governorates/{id}": {"get": {"tags": ["Governorates"], "summary": "Get governorate", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}, "put": {"tags": ["Governorates"], "summary": "Update governorate", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GovernorateRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}, "delete": {"tags": ["Governorates"], "summary": "Delete governorate", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"204": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/regions": {"get": {"tags": ["Regions"], "summary": "List regions", "produces": ["application/json"], "parameters": [{"name": "governorate_id", "in": "query", "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}, "post": {"tags": ["Regions"], "summary": "Create region", "produces": ["application/json"], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegionRequest"}}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/regions/{id}": {"get": {"tags": ["Regions"], "summary": "Get region", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}, "put": {"tags": ["Regions"], "summary": "Update region", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegionRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}, "delete": {"tags": ["Regions"], "summary": "Delete region", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"204": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/surveys": {"get": {"tags": ["Surveys"], "summary": "List surveys", "produces": ["application/json"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}, "post": {"tags": ["Surveys"], "summary": "Create survey with fields", "produces": ["application/json"], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSurveyRequest"}}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/surveys/{id}": {"get": {"tags": ["Surveys"], "summary": "Get survey with ordered fields", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}, "put": {"tags": ["Surveys"], "summary": "Update survey and fields", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSurveyRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}, "delete": {"tags": ["Surveys"], "summary": "Delete survey", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"204": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/surveys/{id}/governorates": {"put": {"tags": ["Surveys"], "summary": "Replace survey governorates", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SurveyGovernoratesRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/surveys/{id}/responses": {"get": {"tags": ["Responses"], "summary": "Browse survey responses", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "region_id", "in": "query", "type": "string"}, {"name": "governorate_id", "in": "query", "type": "string"}, {"name": "completed", "in": "query", "type": "boolean"}, {"name": "from", "in": "query", "type": "string"}, {"name": "to", "in": "query", "type": "string"}, {"name": "page", "in": "query", "type": "integer"}, {"name": "page_size", "in": "query", "type": "integer"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/surveys/{id}/stats": {"get": {"tags": ["Responses"], "summary": "Survey statistics", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/responses/{id}": {"get": {"tags": ["Responses"], "summary": "Get response with answers", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/responses/{id}/details": {"patch": {"tags": ["Responses"], "summary": "Edit answer values", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateDetailsRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/governorate": {"get": {"tags": ["Governorate Workspace"], "summary": "Governorate overview", "produces": ["application/json"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/governorate/surveys": {"get": {"tags": ["Governorate Workspace"], "summary": "Surveys of the governorate", "produces": ["application/json"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/governorate/surveys/{id}/status": {"patch": {"tags": ["Governorate Workspace"], "summary": "Activate or deactivate survey", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SurveyStatusRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/governorate/employees": {"get": {"tags": ["Governorate Workspace"], "summary": "Employees in governorate regions", "produces": ["application/json"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/governorate/employees/{id}": {"put": {"tags": ["Governorate Workspace"], "summary": "Assign employee region and surveys", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EmployeeAssignmentRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/me/workspace": {"get": {"tags": ["Employee Workspace"], "summary": "Employee workspace", "produces": ["application/json"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/me/surveys": {"get": {"tags": ["Employee Workspace"], "summary": "Surveys available to the employee", "produces": ["application/json"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/me/surveys/{id}/form": {"get": {"tags": ["Employee Workspace"], "summary": "Render survey form", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/me/surveys/{id}/status": {"get": {"tags": ["Employee Workspace"], "summary": "Daily completion status", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/me/surveys/{id}/responses": {"get": {"tags": ["Employee Workspace"], "summary": "Own responses", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "page", "in": "query", "type": "integer"}, {"name": "page_size", "in": "query", "type": "integer"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}, "post": {"tags": ["Employee Workspace"], "summary": "Submit survey answers", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmissionRequest"}}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "422": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/audit-logs": {"get": {"tags": ["Audit"], "summary": "List audit logs", "produces": ["application/json"], "parameters": [{"name": "resource", "in": "query", "type": "string"}, {"name": "action", "in": "query", "type": "string"}, {"name": "username", "in": "query", "type": "string"}, {"name": "search", "in": "query", "type": "string"}, {"name": "from", "in": "query", "type": "string"}, {"name": "to", "in": "query", "type": "string"}, {"name": "page", "in": "query", "type": "integer"}, {"name": "page_size", "in": "query", "type": "integer"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/admin/system": {"get": {"tags": ["System"], "summary": "Runtime metrics snapshot", "produces": ["application/json"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/exports": {"get": {"tags": ["Exports"], "summary": "List export jobs", "produces": ["application/json"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}, "post": {"tags": ["Exports"], "summary": "Queue export job", "produces": ["application/json"], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}], "security": [{"BearerAuth": []}], "responses": {"202": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/exports/{id}": {"get": {"tags": ["Exports"], "summary": "Export job status", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/exports/download/{token}": {"get": {"tags": ["Exports"], "summary": "Download export file", "produces": ["text/csv", "application/pdf"], "parameters": [{"name": "token", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "File", "schema": {"type": "file"}}, "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}}
    },
    "definitions": {
        "LoginRequest": {"type": "object", "required": ["username", "password"], "properties": {"username": {"type": "string"}, "password": {"type": "string"}}},
        "RefreshTokenRequest": {"type": "object", "required": ["refresh_token"], "properties": {"refresh_token": {"type": "string"}}},
        "ChangePasswordRequest": {"type": "object", "required": ["old_password", "new_password"], "properties": {"old_password": {"type": "string"}, "new_password": {"type": "string"}}},
        "CreateUserRequest": {"type": "object", "required": ["username", "password", "role"], "properties": {"username": {"type": "string"}, "password": {"type": "string"}, "role": {"type": "string", "enum": ["admin", "governorate_admin", "employee"]}, "region_id": {"type": "string"}, "governorate_id": {"type": "string"}, "survey_ids": {"type": "array", "items": {"type": "string"}}}},
        "UpdateUserRequest": {"type": "object", "required": ["username", "role"], "properties": {"username": {"type": "string"}, "password": {"type": "string"}, "role": {"type": "string", "enum": ["admin", "governorate_admin", "employee"]}, "region_id": {"type": "string"}, "governorate_id": {"type": "string"}, "survey_ids": {"type": "array", "items": {"type": "string"}}}},
        "AllowedSurveysRequest": {"type": "object", "properties": {"survey_ids": {"type": "array", "items": {"type": "string"}}}},
        "GovernorateRequest": {"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}, "description": {"type": "string"}}},
        "RegionRequest": {"type": "object", "required": ["name", "governorate_id"], "properties": {"name": {"type": "string"}, "description": {"type": "string"}, "governorate_id": {"type": "string"}}},
        "FieldInput": {"type": "object", "required": ["label", "type"], "properties": {"id": {"type": "string"}, "label": {"type": "string"}, "type": {"type": "string", "enum": ["text", "number", "dropdown", "checkbox", "date"]}, "options": {"type": "array", "items": {"type": "string"}}, "required": {"type": "boolean"}, "order": {"type": "integer"}}},
        "CreateSurveyRequest": {"type": "object", "required": ["name", "fields"], "properties": {"name": {"type": "string"}, "governorate_ids": {"type": "array", "items": {"type": "string"}}, "fields": {"type": "array", "items": {"$ref": "#/definitions/FieldInput"}}}},
        "UpdateSurveyRequest": {"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}, "is_active": {"type": "boolean"}, "fields": {"type": "array", "items": {"$ref": "#/definitions/FieldInput"}}}},
        "SurveyGovernoratesRequest": {"type": "object", "properties": {"governorate_ids": {"type": "array", "items": {"type": "string"}}}},
        "SurveyStatusRequest": {"type": "object", "required": ["is_active"], "properties": {"is_active": {"type": "boolean"}}},
        "EmployeeAssignmentRequest": {"type": "object", "required": ["region_id"], "properties": {"region_id": {"type": "string"}, "survey_ids": {"type": "array", "items": {"type": "string"}}}},
        "DetailUpdate": {"type": "object", "required": ["detail_id"], "properties": {"detail_id": {"type": "string"}, "answer_value": {"type": "string"}}},
        "UpdateDetailsRequest": {"type": "object", "required": ["updates"], "properties": {"updates": {"type": "array", "items": {"$ref": "#/definitions/DetailUpdate"}}}},
        "SubmissionRequest": {"type": "object", "properties": {"answers": {"type": "object", "additionalProperties": true}, "is_completed": {"type": "boolean"}}},
        "ExportRequest": {"type": "object", "required": ["type", "format"], "properties": {"type": {"type": "string", "enum": ["survey_responses", "audit_logs"]}, "format": {"type": "string", "enum": ["csv", "pdf"]}, "survey_id": {"type": "string"}, "governorate_id": {"type": "string"}, "resource": {"type": "string"}, "action": {"type": "string"}}},
        "Pagination": {"type": "object", "properties": {"page": {"type": "integer"}, "page_size": {"type": "integer"}, "total_count": {"type": "integer"}}},
        "APIError": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}, "status": {"type": "integer"}, "details": {"type": "object"}}},
        "ResponseEnvelope": {"type": "object", "properties": {"data": {"type": "object"}, "error": {"$ref": "#/definitions/APIError"}, "pagination": {"$ref": "#/definitions/Pagination"}, "meta": {"type": "object"}}}
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
