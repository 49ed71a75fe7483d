// Package sync contains the record synchronization engine that moves data
// between a WooCommerce store and the local ERP entities.
//
// The package is organized around a small set of collaborating pieces:
//
//   - Binder: translates external record identifiers to internal entity IDs
//     and back, persisting the link through connector.BindingRepository.
//   - Importer: the per-record import engine. It fetches a remote record,
//     resolves its dependencies, maps it to local values through a
//     RecordHandler and creates or updates the local entity.
//   - BatchImporter: discovers changed remote records through windowed
//     searches and enqueues one import job per record.
//   - InventoryExporter: pushes local stock levels back to the store.
//   - Registry: resolves the importer and batch importer for an entity kind.
//
// Entity specific behavior (payload normalization, dependency extraction,
// value mapping and post-import hooks) lives in RecordHandler
// implementations, one per entity kind. The engine itself is entity
// agnostic.
package sync
