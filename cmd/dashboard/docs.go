package main

// @title Inventory Dashboard API
// @version 1.0
// @description View API of the inventory dashboard with snapshot caching, page state and full observability (logging, tracing, metrics)
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/tair/inventory-dashboard

// @license.name MIT

// @host localhost:8090
// @BasePath /

// @tag.name Dashboard
// @tag.description Dashboard tiles, product table and trends

// @tag.name Inventory
// @tag.description Inventory table, categories, alerts and edits

// @tag.name Forecast
// @tag.description Demand forecast generation and table
