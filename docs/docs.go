// Package docs Rail Fusion API.
//
// Описание читающего API над итоговыми таблицами пайплайна слияния,
// поддерживается вместе с аннотациями обработчиков.
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
		"/api/v1/segments": {
			"get": {
				"description": "Возвращает FeatureCollection участков с геометрией, кодом линии и максимальной скоростью.",
				"produces": [
					"application/geo+json"
				],
				"tags": [
					"Segments"
				],
				"summary": "Участки сети с максимальной скоростью",
				"parameters": [
					{
						"type": "string",
						"description": "Коды линий через запятую",
						"name": "line_code",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Минимальная скорость, км/ч",
						"name": "min_speed",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "GeoJSON FeatureCollection",
						"schema": {
							"type": "object"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/utils.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/utils.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/v1/stations/{code}/years": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Stations"
				],
				"summary": "История пассажиропотока станции",
				"parameters": [
					{
						"type": "string",
						"description": "Код UIC станции",
						"name": "code",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/utils.SuccessResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"type": "array",
											"items": {
												"$ref": "#/definitions/dto.StationYear"
											}
										}
									}
								}
							]
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/utils.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/v1/station-years": {
			"get": {
				"description": "Итоговая таблица станций по годам с коммуной и населением.",
				"produces": [
					"application/json"
				],
				"tags": [
					"Stations"
				],
				"summary": "Записи станция/год",
				"parameters": [
					{
						"type": "integer",
						"description": "Год",
						"name": "year",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Название региона",
						"name": "region",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Минимальное число пассажиров",
						"name": "min_travelers",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Максимальное количество записей",
						"name": "limit",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/utils.SuccessResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"type": "array",
											"items": {
												"$ref": "#/definitions/dto.StationYear"
											}
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/utils.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/utils.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/v1/stations/top": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Stations"
				],
				"summary": "Самые загруженные станции для карты",
				"parameters": [
					{
						"type": "integer",
						"description": "Год",
						"name": "year",
						"in": "query",
						"required": true
					},
					{
						"type": "integer",
						"description": "Порог пассажиропотока",
						"name": "min_travelers",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Исключаемый регион",
						"name": "exclude_region",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/utils.SuccessResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/dto.TopStationsResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/utils.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/v1/regions/travelers": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Regions"
				],
				"summary": "Пассажиропоток по регионам и годам",
				"parameters": [
					{
						"type": "boolean",
						"description": "Учитывать Île-de-France",
						"name": "include_idf",
						"in": "query",
						"default": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/utils.SuccessResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/dto.RegionTravelersResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/utils.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/v1/regions/covid-loss": {
			"get": {
				"description": "Потеря в процентах между двумя годами, по убыванию, округление до 2 знаков.",
				"produces": [
					"application/json"
				],
				"tags": [
					"Regions"
				],
				"summary": "Относительная потеря пассажиров по регионам",
				"parameters": [
					{
						"type": "integer",
						"description": "Базовый год",
						"name": "from",
						"in": "query",
						"default": 2019
					},
					{
						"type": "integer",
						"description": "Год сравнения",
						"name": "to",
						"in": "query",
						"default": 2020
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/utils.SuccessResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/dto.RegionLossResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/utils.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/v1/runs/latest": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Runs"
				],
				"summary": "Отчёт о последнем запуске пайплайна",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/utils.SuccessResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/domain.RunReport"
										}
									}
								}
							]
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/utils.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/v1/runs": {
			"post": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Runs"
				],
				"summary": "Поставить запуск в очередь воркера",
				"parameters": [
					{
						"description": "Параметры запуска",
						"name": "request",
						"in": "body",
						"schema": {
							"$ref": "#/definitions/handler.runRequestBody"
						}
					}
				],
				"responses": {
					"202": {
						"description": "Accepted",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/utils.SuccessResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/domain.FusionRunRequest"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/utils.ErrorResponse"
						}
					},
					"503": {
						"description": "Service Unavailable",
						"schema": {
							"$ref": "#/definitions/utils.ErrorResponse"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"errors.AppError": {
			"type": "object",
			"properties": {
				"code": {
					"type": "string"
				},
				"message": {
					"type": "string"
				},
				"details": {
					"type": "object",
					"additionalProperties": true
				}
			}
		},
		"utils.Meta": {
			"type": "object",
			"properties": {
				"total": {
					"type": "integer"
				},
				"limit": {
					"type": "integer"
				},
				"time_ms": {
					"type": "number"
				}
			}
		},
		"utils.SuccessResponse": {
			"type": "object",
			"properties": {
				"data": {},
				"meta": {
					"$ref": "#/definitions/utils.Meta"
				}
			}
		},
		"utils.ErrorResponse": {
			"type": "object",
			"properties": {
				"error": {
					"$ref": "#/definitions/errors.AppError"
				}
			}
		},
		"dto.StationYear": {
			"type": "object",
			"properties": {
				"station_code": {
					"type": "string"
				},
				"year": {
					"type": "integer"
				},
				"total_travelers": {
					"type": "integer"
				},
				"total_travelers_and_non_travelers": {
					"type": "integer"
				},
				"segment_label": {
					"type": "string"
				},
				"label": {
					"type": "string"
				},
				"handles_freight": {
					"type": "boolean"
				},
				"line_code": {
					"type": "string"
				},
				"postal_code": {
					"type": "integer"
				},
				"commune_insee_code": {
					"type": "string"
				},
				"commune_name": {
					"type": "string"
				},
				"department_code": {
					"type": "string"
				},
				"department_name": {
					"type": "string"
				},
				"region_name": {
					"type": "string"
				},
				"total_population": {
					"type": "integer"
				},
				"lon": {
					"type": "number"
				},
				"lat": {
					"type": "number"
				}
			}
		},
		"dto.TopStation": {
			"type": "object",
			"properties": {
				"station_code": {
					"type": "string"
				},
				"year": {
					"type": "integer"
				},
				"total_travelers": {
					"type": "integer"
				},
				"total_travelers_and_non_travelers": {
					"type": "integer"
				},
				"segment_label": {
					"type": "string"
				},
				"label": {
					"type": "string"
				},
				"handles_freight": {
					"type": "boolean"
				},
				"line_code": {
					"type": "string"
				},
				"postal_code": {
					"type": "integer"
				},
				"commune_insee_code": {
					"type": "string"
				},
				"commune_name": {
					"type": "string"
				},
				"department_code": {
					"type": "string"
				},
				"department_name": {
					"type": "string"
				},
				"region_name": {
					"type": "string"
				},
				"total_population": {
					"type": "integer"
				},
				"lon": {
					"type": "number"
				},
				"lat": {
					"type": "number"
				},
				"radius": {
					"type": "number"
				}
			}
		},
		"dto.TopStationsResponse": {
			"type": "object",
			"properties": {
				"year": {
					"type": "integer"
				},
				"stations": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/dto.TopStation"
					}
				}
			}
		},
		"domain.RegionYearTravelers": {
			"type": "object",
			"properties": {
				"region_name": {
					"type": "string"
				},
				"year": {
					"type": "integer"
				},
				"total_travelers": {
					"type": "integer"
				}
			}
		},
		"domain.RegionLoss": {
			"type": "object",
			"properties": {
				"region_name": {
					"type": "string"
				},
				"from_total": {
					"type": "integer"
				},
				"to_total": {
					"type": "integer"
				},
				"relative_loss": {
					"type": "number"
				}
			}
		},
		"dto.RegionTravelersResponse": {
			"type": "object",
			"properties": {
				"include_idf": {
					"type": "boolean"
				},
				"items": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/domain.RegionYearTravelers"
					}
				}
			}
		},
		"dto.RegionLossResponse": {
			"type": "object",
			"properties": {
				"from": {
					"type": "integer"
				},
				"to": {
					"type": "integer"
				},
				"items": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/domain.RegionLoss"
					}
				}
			}
		},
		"domain.StageReport": {
			"type": "object",
			"properties": {
				"stage": {
					"type": "string"
				},
				"rows_in": {
					"type": "integer"
				},
				"rows_out": {
					"type": "integer"
				},
				"duration_ns": {
					"type": "integer"
				}
			}
		},
		"domain.RunReport": {
			"type": "object",
			"properties": {
				"run_id": {
					"type": "string"
				},
				"status": {
					"type": "string",
					"enum": [
						"succeeded",
						"failed"
					]
				},
				"null_policy": {
					"type": "string",
					"enum": [
						"drop-na",
						"fill-na"
					]
				},
				"started_at": {
					"type": "string"
				},
				"finished_at": {
					"type": "string"
				},
				"segment_count": {
					"type": "integer"
				},
				"station_year_count": {
					"type": "integer"
				},
				"stages": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/domain.StageReport"
					}
				},
				"warnings": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"failed_stage": {
					"type": "string"
				},
				"error": {
					"type": "string"
				}
			}
		},
		"domain.FusionRunRequest": {
			"type": "object",
			"properties": {
				"request_id": {
					"type": "string"
				},
				"null_policy": {
					"type": "string",
					"enum": [
						"drop-na",
						"fill-na"
					]
				},
				"refetch": {
					"type": "boolean"
				}
			}
		},
		"handler.runRequestBody": {
			"type": "object",
			"properties": {
				"null_policy": {
					"type": "string",
					"enum": [
						"drop-na",
						"fill-na"
					]
				},
				"refetch": {
					"type": "boolean"
				}
			}
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Rail Fusion API",
	Description:      "Участки сети со скоростями, пассажиропоток станций по годам и агрегаты по регионам.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
