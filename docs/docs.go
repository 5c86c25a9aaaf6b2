// Package docs is generated by swaggo/swag from the handler annotations.
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
		"/auth/register/employee": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Register an employee",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.registerEmployeeRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/handler.authResponse"
						}
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"409": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/auth/register/company": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Register a company",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.registerCompanyRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/handler.authResponse"
						}
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"409": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/auth/login": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Login",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.loginRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.authResponse"
						}
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"401": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"429": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/auth/me": {
			"get": {
				"tags": [
					"auth"
				],
				"summary": "Current account",
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.authResponse"
						}
					},
					"401": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/auth/logout": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Logout",
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.messageResponse"
						}
					},
					"401": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/auth/password": {
			"put": {
				"tags": [
					"auth"
				],
				"summary": "Change password",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.changePasswordRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.messageResponse"
						}
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"401": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/jobs": {
			"get": {
				"tags": [
					"jobs"
				],
				"summary": "List active jobs",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "search",
						"in": "query"
					},
					{
						"type": "string",
						"name": "location",
						"in": "query"
					},
					{
						"type": "string",
						"name": "type",
						"in": "query"
					},
					{
						"type": "string",
						"name": "experience",
						"in": "query"
					},
					{
						"type": "boolean",
						"name": "remote",
						"in": "query"
					},
					{
						"type": "boolean",
						"name": "featured",
						"in": "query"
					},
					{
						"type": "integer",
						"name": "page",
						"in": "query"
					},
					{
						"type": "integer",
						"name": "limit",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.jobListResponse"
						}
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/jobs/featured": {
			"get": {
				"tags": [
					"jobs"
				],
				"summary": "Featured jobs",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.jobsResponse"
						}
					}
				}
			}
		},
		"/jobs/stats/overview": {
			"get": {
				"tags": [
					"jobs"
				],
				"summary": "Job board statistics",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.jobStatsResponse"
						}
					}
				}
			}
		},
		"/jobs/{id}": {
			"get": {
				"tags": [
					"jobs"
				],
				"summary": "Job detail",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.jobDetailResponse"
						}
					},
					"404": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/employee/profile": {
			"get": {
				"tags": [
					"employee"
				],
				"summary": "Get own employee profile",
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.accountResponse"
						}
					},
					"401": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"403": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			},
			"put": {
				"tags": [
					"employee"
				],
				"summary": "Update own employee profile",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.employeeProfileRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.accountResponse"
						}
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/employee/skills": {
			"put": {
				"tags": [
					"employee"
				],
				"summary": "Replace skills",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.skillsRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.accountResponse"
						}
					}
				}
			}
		},
		"/employee/languages": {
			"put": {
				"tags": [
					"employee"
				],
				"summary": "Replace languages",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.languagesRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.accountResponse"
						}
					}
				}
			}
		},
		"/employee/avatar": {
			"put": {
				"tags": [
					"employee"
				],
				"summary": "Set avatar URL",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.imageRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.accountResponse"
						}
					}
				}
			}
		},
		"/employee/jobs/{id}/apply": {
			"post": {
				"tags": [
					"employee"
				],
				"summary": "Apply to a job",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.applyRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/handler.applicationResponse"
						}
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"404": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"409": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/employee/applications": {
			"get": {
				"tags": [
					"employee"
				],
				"summary": "List own applications",
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.employeeApplicationsResponse"
						}
					}
				}
			}
		},
		"/employee/saved-jobs": {
			"get": {
				"tags": [
					"employee"
				],
				"summary": "List saved jobs",
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.jobsResponse"
						}
					}
				}
			}
		},
		"/employee/saved-jobs/{id}": {
			"post": {
				"tags": [
					"employee"
				],
				"summary": "Save or unsave a job",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.savedToggleResponse"
						}
					},
					"404": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/company/profile": {
			"get": {
				"tags": [
					"company"
				],
				"summary": "Get own company profile",
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.accountResponse"
						}
					}
				}
			},
			"put": {
				"tags": [
					"company"
				],
				"summary": "Update own company profile",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.companyProfileRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.accountResponse"
						}
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/company/specialties": {
			"put": {
				"tags": [
					"company"
				],
				"summary": "Replace specialties",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.listRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.accountResponse"
						}
					}
				}
			}
		},
		"/company/benefits": {
			"put": {
				"tags": [
					"company"
				],
				"summary": "Replace benefits",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.listRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.accountResponse"
						}
					}
				}
			}
		},
		"/company/logo": {
			"put": {
				"tags": [
					"company"
				],
				"summary": "Set logo URL",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.imageRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.accountResponse"
						}
					}
				}
			}
		},
		"/company/jobs": {
			"post": {
				"tags": [
					"company"
				],
				"summary": "Create a job posting",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.createJobRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/handler.jobResponse"
						}
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"403": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			},
			"get": {
				"tags": [
					"company"
				],
				"summary": "List own job postings",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "status",
						"in": "query"
					},
					{
						"type": "integer",
						"name": "page",
						"in": "query"
					},
					{
						"type": "integer",
						"name": "limit",
						"in": "query"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.jobListResponse"
						}
					}
				}
			}
		},
		"/company/jobs/{id}": {
			"put": {
				"tags": [
					"company"
				],
				"summary": "Update an own job posting",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.updateJobRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.jobResponse"
						}
					},
					"404": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			},
			"delete": {
				"tags": [
					"company"
				],
				"summary": "Delete an own job posting",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"404": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/company/jobs/{id}/applications": {
			"get": {
				"tags": [
					"company"
				],
				"summary": "List applications of an own job",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "status",
						"in": "query"
					},
					{
						"type": "integer",
						"name": "page",
						"in": "query"
					},
					{
						"type": "integer",
						"name": "limit",
						"in": "query"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.applicationListResponse"
						}
					},
					"404": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/company/jobs/{id}/applications/{appId}": {
			"patch": {
				"tags": [
					"company"
				],
				"summary": "Change the status of an application",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "appId",
						"in": "path",
						"required": true
					},
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.applicationStatusRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.applicationResponse"
						}
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"404": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/admin/accounts/{id}/active": {
			"patch": {
				"tags": [
					"admin"
				],
				"summary": "Set account activity",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.setActiveRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.accountResponse"
						}
					},
					"403": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"404": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/health": {
			"get": {
				"tags": [
					"health"
				],
				"summary": "Liveness probe",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/health/ready": {
			"get": {
				"tags": [
					"health"
				],
				"summary": "Readiness probe",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"503": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"handler.errorResponse": {
			"type": "object",
			"properties": {
				"error": {
					"type": "string"
				}
			}
		},
		"handler.messageResponse": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string"
				}
			}
		},
		"handler.registerEmployeeRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				},
				"location": {
					"type": "string"
				},
				"title": {
					"type": "string"
				}
			},
			"required": [
				"email",
				"password",
				"name"
			]
		},
		"handler.registerCompanyRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"industry": {
					"type": "string"
				},
				"location": {
					"type": "string"
				},
				"website": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				}
			},
			"required": [
				"email",
				"password",
				"name",
				"industry",
				"location"
			]
		},
		"handler.loginRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			},
			"required": [
				"email",
				"password"
			]
		},
		"handler.changePasswordRequest": {
			"type": "object",
			"properties": {
				"current_password": {
					"type": "string"
				},
				"new_password": {
					"type": "string"
				}
			},
			"required": [
				"current_password",
				"new_password"
			]
		},
		"handler.authResponse": {
			"type": "object",
			"properties": {
				"token": {
					"type": "string"
				},
				"account": {
					"type": "object"
				},
				"is_company": {
					"type": "boolean"
				}
			}
		},
		"handler.accountResponse": {
			"type": "object",
			"properties": {
				"account": {
					"type": "object"
				}
			}
		},
		"handler.employeeProfileRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				},
				"location": {
					"type": "string"
				},
				"title": {
					"type": "string"
				},
				"experience": {
					"type": "string"
				},
				"education": {
					"type": "string"
				},
				"bio": {
					"type": "string"
				},
				"cover_image": {
					"type": "string"
				}
			}
		},
		"handler.companyProfileRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"industry": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"founded": {
					"type": "string"
				},
				"employees": {
					"type": "string"
				},
				"location": {
					"type": "string"
				},
				"website": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				},
				"size": {
					"type": "string"
				},
				"type": {
					"type": "string"
				},
				"cover_image": {
					"type": "string"
				}
			}
		},
		"handler.skillsRequest": {
			"type": "object",
			"properties": {
				"skills": {
					"type": "array",
					"items": {
						"type": "string"
					}
				}
			},
			"required": [
				"skills"
			]
		},
		"handler.languagesRequest": {
			"type": "object",
			"properties": {
				"languages": {
					"type": "array",
					"items": {
						"type": "object",
						"properties": {
							"language": {
								"type": "string"
							},
							"level": {
								"type": "string"
							}
						}
					}
				}
			},
			"required": [
				"languages"
			]
		},
		"handler.listRequest": {
			"type": "object",
			"properties": {
				"items": {
					"type": "array",
					"items": {
						"type": "string"
					}
				}
			},
			"required": [
				"items"
			]
		},
		"handler.imageRequest": {
			"type": "object",
			"properties": {
				"url": {
					"type": "string"
				}
			},
			"required": [
				"url"
			]
		},
		"handler.createJobRequest": {
			"type": "object",
			"properties": {
				"title": {
					"type": "string"
				},
				"location": {
					"type": "string"
				},
				"type": {
					"type": "string"
				},
				"salary": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"requirements": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"responsibilities": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"benefits": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"tags": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"experience_level": {
					"type": "string"
				},
				"remote": {
					"type": "boolean"
				},
				"hybrid": {
					"type": "boolean"
				},
				"onsite": {
					"type": "boolean"
				}
			},
			"required": [
				"title",
				"location",
				"type",
				"salary",
				"description"
			]
		},
		"handler.updateJobRequest": {
			"type": "object",
			"properties": {
				"title": {
					"type": "string"
				},
				"location": {
					"type": "string"
				},
				"type": {
					"type": "string"
				},
				"salary": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"requirements": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"responsibilities": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"benefits": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"tags": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"experience_level": {
					"type": "string"
				},
				"remote": {
					"type": "boolean"
				},
				"hybrid": {
					"type": "boolean"
				},
				"onsite": {
					"type": "boolean"
				},
				"is_active": {
					"type": "boolean"
				}
			}
		},
		"handler.applyRequest": {
			"type": "object",
			"properties": {
				"cv": {
					"type": "string"
				},
				"cover_letter": {
					"type": "string"
				}
			}
		},
		"handler.applicationStatusRequest": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string"
				}
			},
			"required": [
				"status"
			]
		},
		"handler.paginationResponse": {
			"type": "object",
			"properties": {
				"page": {
					"type": "integer"
				},
				"limit": {
					"type": "integer"
				},
				"total": {
					"type": "integer"
				},
				"total_pages": {
					"type": "integer"
				}
			}
		},
		"handler.jobListResponse": {
			"type": "object",
			"properties": {
				"jobs": {
					"type": "array",
					"items": {
						"type": "object"
					}
				},
				"pagination": {
					"$ref": "#/definitions/handler.paginationResponse"
				}
			}
		},
		"handler.jobStatsResponse": {
			"type": "object",
			"properties": {
				"stats": {
					"type": "object"
				}
			}
		},
		"handler.jobsResponse": {
			"type": "object",
			"properties": {
				"jobs": {
					"type": "array",
					"items": {
						"type": "object"
					}
				}
			}
		},
		"handler.jobResponse": {
			"type": "object",
			"properties": {
				"job": {
					"type": "object"
				}
			}
		},
		"handler.jobDetailResponse": {
			"type": "object",
			"properties": {
				"job": {
					"type": "object"
				},
				"related_jobs": {
					"type": "array",
					"items": {
						"type": "object"
					}
				},
				"has_applied": {
					"type": "boolean"
				},
				"saved": {
					"type": "boolean"
				}
			}
		},
		"handler.applicationListResponse": {
			"type": "object",
			"properties": {
				"applications": {
					"type": "array",
					"items": {
						"type": "object"
					}
				},
				"pagination": {
					"$ref": "#/definitions/handler.paginationResponse"
				}
			}
		},
		"handler.applicationResponse": {
			"type": "object",
			"properties": {
				"application": {
					"type": "object"
				}
			}
		},
		"handler.employeeApplicationsResponse": {
			"type": "object",
			"properties": {
				"applications": {
					"type": "array",
					"items": {
						"type": "object"
					}
				}
			}
		},
		"handler.savedToggleResponse": {
			"type": "object",
			"properties": {
				"saved": {
					"type": "boolean"
				}
			}
		},
		"handler.setActiveRequest": {
			"type": "object",
			"properties": {
				"is_active": {
					"type": "boolean"
				}
			},
			"required": [
				"is_active"
			]
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"description": "Type \"Bearer\" followed by a space and the JWT.",
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:		  "1.0",
	Host:			 "",
	BasePath:		 "/",
	Schemes:		  []string{},
	Title:			"Job Board API",
	Description:	  "Job board backend: employee and company accounts, job postings and applications.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:		"{{",
	RightDelim:	   "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
