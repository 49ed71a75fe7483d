// Package commerce holds the local system-of-record entities the
// synchronization engine reads and writes: partners, the product catalog,
// sale orders and the configuration entities (payment modes, carriers) that
// admission rules and order mapping depend on.
package commerce
