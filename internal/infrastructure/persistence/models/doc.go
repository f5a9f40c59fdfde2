// Package models holds the GORM persistence models backing the domain
// entities. Domain types stay free of ORM tags; the repositories map between
// the two through the mapper functions next to each model.
//
// base.go carries the shared column sets (BaseModel, OwnedModel),
// directory.go maps clients, vault.go maps credentials and ledger.go maps the
// income and expense entries, which share one row shape.
package models
