package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wooconnect/backend/internal/domain/connector"
)

func TestImporterIdempotency(t *testing.T) {
	f := newEngineFixture()
	f.client.addRecord(connector.EntityKindCategory, "12", decode(t, `{"id": 12, "name": "Chairs", "slug": "chairs", "parent": 0}`))

	outcome := f.run(t, connector.EntityKindCategory, "12", false)
	assert.Equal(t, connector.ImportStatusImported, outcome.Status)
	assert.Equal(t, 1, f.categories.created)

	t.Run("second run updates the same entity", func(t *testing.T) {
		f.client.addRecord(connector.EntityKindCategory, "12", decode(t, `{"id": 12, "name": "Office Chairs", "slug": "chairs", "parent": 0}`))
		before := f.binding(t, connector.EntityKindCategory, "12").InternalID

		outcome := f.run(t, connector.EntityKindCategory, "12", false)
		assert.Equal(t, connector.ImportStatusImported, outcome.Status)
		assert.Equal(t, 1, f.categories.created)

		after := f.binding(t, connector.EntityKindCategory, "12")
		assert.Equal(t, before, after.InternalID)

		category, err := f.categories.FindByID(context.Background(), after.InternalID)
		require.NoError(t, err)
		assert.Equal(t, "Office Chairs", category.Name)
	})
}

func TestImporterRefreshesBoundProduct(t *testing.T) {
	f := newEngineFixture()
	f.client.addRecord(connector.EntityKindProduct, "42", decode(t, `{"id": 42, "name": "Desk Lamp", "status": "publish", "price": "10.00"}`))
	f.run(t, connector.EntityKindProduct, "42", false)

	f.client.addRecord(connector.EntityKindProduct, "42", decode(t, `{"id": 42, "name": "Desk Lamp", "status": "publish", "price": "25.00"}`))
	outcome := f.run(t, connector.EntityKindProduct, "42", false)
	assert.Equal(t, connector.ImportStatusImported, outcome.Status)
	assert.Equal(t, 1, f.products.created)

	binding := f.binding(t, connector.EntityKindProduct, "42")
	product, err := f.products.FindByID(context.Background(), binding.InternalID)
	require.NoError(t, err)
	assert.Equal(t, "25", product.Price.String())
}

func TestImporterDependencies(t *testing.T) {
	t.Run("category chain is imported ancestors first", func(t *testing.T) {
		f := newEngineFixture()
		f.client.addRecord(connector.EntityKindCategory, "1", decode(t, `{"id": 1, "name": "Furniture", "slug": "furniture", "parent": 0}`))
		f.client.addRecord(connector.EntityKindCategory, "2", decode(t, `{"id": 2, "name": "Chairs", "slug": "chairs", "parent": 1}`))

		f.run(t, connector.EntityKindCategory, "2", false)

		parent := f.binding(t, connector.EntityKindCategory, "1")
		child := f.binding(t, connector.EntityKindCategory, "2")
		category, err := f.categories.FindByID(context.Background(), child.InternalID)
		require.NoError(t, err)
		require.NotNil(t, category.ParentID)
		assert.Equal(t, parent.InternalID, *category.ParentID)
	})

	t.Run("product pulls its categories", func(t *testing.T) {
		f := newEngineFixture()
		f.client.addRecord(connector.EntityKindCategory, "9", decode(t, `{"id": 9, "name": "Desks", "slug": "desks", "parent": 0}`))
		f.client.addRecord(connector.EntityKindProduct, "100", decode(t, `{
			"id": 100, "name": "Standing Desk", "sku": "DESK-1", "status": "publish",
			"price": "299.00", "categories": [{"id": 9, "name": "Desks"}]
		}`))

		f.run(t, connector.EntityKindProduct, "100", false)

		assert.Equal(t, 1, f.categories.created)
		assert.Equal(t, 1, f.products.created)
		assert.Equal(t, []string{"product:100", "category:9"}, f.client.reads[:2])
	})

	t.Run("missing dependency fails the record", func(t *testing.T) {
		f := newEngineFixture()
		f.client.addRecord(connector.EntityKindProduct, "100", decode(t, `{
			"id": 100, "name": "Standing Desk", "status": "publish",
			"categories": [{"id": 404}]
		}`))

		imp, err := f.registry.Importer(connector.EntityKindProduct)
		require.NoError(t, err)
		_, err = imp.Run(context.Background(), f.backend, "100", ImportOptions{})
		require.Error(t, err)

		var remoteErr *connector.RemoteError
		assert.ErrorAs(t, err, &remoteErr)
		assert.Equal(t, 404, remoteErr.StatusCode)
		assert.Equal(t, 0, f.products.created)
		assert.Equal(t, 0, f.bindings.count())
	})

	t.Run("already bound dependency is not re-read", func(t *testing.T) {
		f := newEngineFixture()
		f.client.addRecord(connector.EntityKindCategory, "9", decode(t, `{"id": 9, "name": "Desks", "parent": 0}`))
		f.client.addRecord(connector.EntityKindProduct, "100", decode(t, `{
			"id": 100, "name": "Desk A", "status": "publish", "categories": [{"id": 9}]
		}`))
		f.client.addRecord(connector.EntityKindProduct, "101", decode(t, `{
			"id": 101, "name": "Desk B", "status": "publish", "categories": [{"id": 9}]
		}`))

		f.run(t, connector.EntityKindProduct, "100", false)
		f.run(t, connector.EntityKindProduct, "101", false)

		categoryReads := 0
		for _, read := range f.client.reads {
			if read == "category:9" {
				categoryReads++
			}
		}
		assert.Equal(t, 1, categoryReads)
		assert.Equal(t, 1, f.categories.created)
	})
}

func TestImporterFailureLeavesNoBinding(t *testing.T) {
	f := newEngineFixture()
	// Customer with no usable name fails in the mapping step.
	f.client.addRecord(connector.EntityKindCustomer, "7", decode(t, `{"id": 7, "billing": {}}`))

	imp, err := f.registry.Importer(connector.EntityKindCustomer)
	require.NoError(t, err)
	_, err = imp.Run(context.Background(), f.backend, "7", ImportOptions{})
	require.Error(t, err)

	var mappingErr *connector.MappingError
	assert.ErrorAs(t, err, &mappingErr)
	assert.Equal(t, 0, f.bindings.count())
	assert.Equal(t, 0, f.partners.created)
}
