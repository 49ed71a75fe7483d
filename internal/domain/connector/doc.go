// Package connector holds the domain model of the WooCommerce synchronization
// engine: the binding correspondence between local and remote records, the
// backend connection aggregate, the ports consumed by the engine (remote
// client, job queue, stores) and the error taxonomy shared by all of them.
//
// This package follows the Ports & Adapters pattern - interfaces are defined
// here, and concrete implementations (REST adapter, GORM repositories, queue
// processor) live in the infrastructure layer.
package connector
