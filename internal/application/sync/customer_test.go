package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wooconnect/backend/internal/domain/commerce"
	"github.com/wooconnect/backend/internal/domain/connector"
)

const customerSeven = `{
	"id": 7, "email": "jane@example.com", "first_name": "Jane", "last_name": "Doe",
	"username": "jane.doe",
	"billing": {
		"first_name": "Jane", "last_name": "Doe", "company": "",
		"address_1": "12 Main Street", "address_2": "", "city": "Lyon",
		"postcode": "69001", "country": "FR", "state": "",
		"email": "jane@example.com", "phone": "+33400000000"
	},
	"shipping": {
		"first_name": "Jane", "last_name": "Doe", "company": "",
		"address_1": "98 Warehouse Road", "address_2": "Dock 4", "city": "Lyon",
		"postcode": "69007", "country": "FR", "state": ""
	}
}`

func TestCustomerImport(t *testing.T) {
	f := newEngineFixture()
	f.client.addRecord(connector.EntityKindCustomer, "7", decode(t, customerSeven))

	outcome := f.run(t, connector.EntityKindCustomer, "7", false)
	require.Equal(t, connector.ImportStatusImported, outcome.Status)

	primary := f.binding(t, connector.EntityKindCustomer, "7")
	assert.False(t, primary.IsSecondary())

	partner, err := f.partners.FindByID(context.Background(), primary.InternalID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", partner.Name)
	assert.Equal(t, "jane@example.com", partner.Email)
	assert.Equal(t, "12 Main Street", partner.Street)
	assert.Equal(t, commerce.PartnerTypeContact, partner.Type)
	assert.Nil(t, partner.ParentID)

	t.Run("shipping twin is bound under the synthetic id", func(t *testing.T) {
		twin := f.binding(t, connector.EntityKindCustomer, "7_shipping")
		assert.True(t, twin.IsSecondary())
		assert.NotEqual(t, primary.InternalID, twin.InternalID)

		child, err := f.partners.FindByID(context.Background(), twin.InternalID)
		require.NoError(t, err)
		assert.Equal(t, commerce.PartnerTypeDelivery, child.Type)
		assert.Equal(t, "98 Warehouse Road", child.Street)
		require.NotNil(t, child.ParentID)
		assert.Equal(t, primary.InternalID, *child.ParentID)
	})

	t.Run("re-import refreshes both partners without duplicating", func(t *testing.T) {
		f.run(t, connector.EntityKindCustomer, "7", true)
		assert.Equal(t, 2, f.partners.created)
		assert.Equal(t, 2, f.bindings.count())
	})
}

func TestCustomerImportWithoutShippingStreet(t *testing.T) {
	f := newEngineFixture()
	f.client.addRecord(connector.EntityKindCustomer, "8", decode(t, `{
		"id": 8, "email": "sam@example.com",
		"billing": {"first_name": "Sam", "last_name": "Smith", "address_1": "1 Side Street"},
		"shipping": {"first_name": "", "last_name": "", "address_1": ""}
	}`))

	f.run(t, connector.EntityKindCustomer, "8", false)

	assert.Equal(t, 1, f.partners.created)
	assert.Equal(t, 1, f.bindings.count())

	t.Run("twin appears once the address is filled in", func(t *testing.T) {
		f.client.addRecord(connector.EntityKindCustomer, "8", decode(t, `{
			"id": 8, "email": "sam@example.com",
			"billing": {"first_name": "Sam", "last_name": "Smith", "address_1": "1 Side Street"},
			"shipping": {"first_name": "Sam", "last_name": "Smith", "address_1": "5 New Street"}
		}`))
		f.run(t, connector.EntityKindCustomer, "8", true)

		assert.Equal(t, 2, f.partners.created)
		twin := f.binding(t, connector.EntityKindCustomer, "8_shipping")
		child, err := f.partners.FindByID(context.Background(), twin.InternalID)
		require.NoError(t, err)
		assert.Equal(t, "5 New Street", child.Street)
	})
}

func TestCustomerCompanyAndVAT(t *testing.T) {
	f := newEngineFixture()
	f.backend.PartnerVATField = "vat_number"
	f.client.addRecord(connector.EntityKindCustomer, "9", decode(t, `{
		"id": 9, "email": "purchasing@acme.example",
		"billing": {"first_name": "Ann", "last_name": "Ops", "company": "ACME SARL", "address_1": "3 Factory Lane"},
		"shipping": {},
		"meta_data": [{"key": "vat_number", "value": "fr 12-345.678"}]
	}`))

	f.run(t, connector.EntityKindCustomer, "9", false)

	binding := f.binding(t, connector.EntityKindCustomer, "9")
	partner, err := f.partners.FindByID(context.Background(), binding.InternalID)
	require.NoError(t, err)
	assert.Equal(t, "ACME SARL", partner.Name)
	assert.True(t, partner.IsCompany)
	assert.Equal(t, "FR12345678", partner.VATNumber)
}
