// Package models holds the GORM table mappings backing the repositories.
// Domain entities stay free of ORM tags; every model here carries the
// gorm annotations plus ToDomain/FromDomain conversions.
//
// connector.go maps the sync bookkeeping tables (backends, bindings,
// watermarks, import_jobs); commerce.go maps the imported business
// records (partners, categories, products, payment modes, carriers,
// sale orders and their lines).
package models
