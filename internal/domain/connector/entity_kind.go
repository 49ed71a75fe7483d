package connector

// EntityKind identifies the kind of record being synchronized. Each kind has
// its own importer, binder scope and remote endpoint.
type EntityKind string

const (
	// EntityKindCategory represents product categories.
	EntityKindCategory EntityKind = "category"
	// EntityKindProduct represents products.
	EntityKindProduct EntityKind = "product"
	// EntityKindCustomer represents customers and their address twins.
	EntityKindCustomer EntityKind = "customer"
	// EntityKindOrder represents sale orders.
	EntityKindOrder EntityKind = "order"
	// EntityKindCarrier represents shipping methods.
	EntityKindCarrier EntityKind = "carrier"
)

// IsValid returns true if the entity kind is known.
func (k EntityKind) IsValid() bool {
	switch k {
	case EntityKindCategory, EntityKindProduct, EntityKindCustomer,
		EntityKindOrder, EntityKindCarrier:
		return true
	default:
		return false
	}
}

// String returns the string representation of EntityKind.
func (k EntityKind) String() string {
	return string(k)
}

// AllEntityKinds returns every kind the engine can synchronize, in dependency
// order (leaves first).
func AllEntityKinds() []EntityKind {
	return []EntityKind{
		EntityKindCategory,
		EntityKindProduct,
		EntityKindCustomer,
		EntityKindCarrier,
		EntityKindOrder,
	}
}
