package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/wooconnect/backend/internal/domain/commerce"
)

// newMockOrderRepository creates a GormOrderRepository with a mocked SQL connection
func newMockOrderRepository(t *testing.T) (*GormOrderRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormOrderRepository(gormDB), mock, mockDB
}

func TestGormOrderRepository_FindByID(t *testing.T) {
	t.Run("finds existing order", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()
		partnerID := uuid.New()
		modeID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "number", "status", "partner_id", "payment_mode_id", "total_amount", "total_tax", "shipping_total"}).
			AddRow(orderID, "742", "processing", partnerID, modeID, decimal.RequireFromString("352.40"), decimal.RequireFromString("12"), decimal.RequireFromString("4.50"))

		mock.ExpectQuery(`SELECT \* FROM "sale_orders" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(orderID, 1).
			WillReturnRows(rows)

		order, err := repo.FindByID(context.Background(), orderID)

		assert.NoError(t, err)
		require.NotNil(t, order)
		assert.Equal(t, "742", order.Number)
		assert.Equal(t, partnerID, order.PartnerID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrOrderNotFound for unknown id", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "sale_orders" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(orderID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		order, err := repo.FindByID(context.Background(), orderID)

		assert.Nil(t, order)
		assert.ErrorIs(t, err, commerce.ErrOrderNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_Lines(t *testing.T) {
	t.Run("returns lines ordered by sequence", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()
		productID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "order_id", "product_id", "name", "kind", "quantity", "price_unit", "sequence"}).
			AddRow(uuid.New(), orderID, productID, "Hoodie", commerce.OrderLineKindProduct, decimal.RequireFromString("2"), decimal.RequireFromString("45"), 1).
			AddRow(uuid.New(), orderID, productID, "Shipping", commerce.OrderLineKindShipping, decimal.RequireFromString("1"), decimal.RequireFromString("4.50"), 2)

		mock.ExpectQuery(`SELECT \* FROM "sale_order_lines" WHERE order_id = \$1 ORDER BY sequence ASC`).
			WithArgs(orderID).
			WillReturnRows(rows)

		lines, err := repo.Lines(context.Background(), orderID)

		assert.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Equal(t, commerce.OrderLineKindShipping, lines[1].Kind)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_ReplaceLines(t *testing.T) {
	t.Run("deletes and reinserts lines in one transaction", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()
		lines := []commerce.SaleOrderLine{
			{ID: uuid.New(), Name: "Hoodie", Kind: commerce.OrderLineKindProduct, Quantity: decimal.RequireFromString("2"), PriceUnit: decimal.RequireFromString("45"), Sequence: 1},
			{ID: uuid.New(), Name: "Gift wrap", Kind: commerce.OrderLineKindFee, Quantity: decimal.RequireFromString("1"), PriceUnit: decimal.RequireFromString("3"), Sequence: 2},
		}

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "sale_order_lines" WHERE order_id = \$1`).
			WithArgs(orderID).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec(`INSERT INTO "sale_order_lines"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "sale_order_lines"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.ReplaceLines(context.Background(), orderID, lines)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when an insert fails", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()
		lines := []commerce.SaleOrderLine{
			{ID: uuid.New(), Name: "Hoodie", Kind: commerce.OrderLineKindProduct, Quantity: decimal.RequireFromString("1"), PriceUnit: decimal.RequireFromString("45"), Sequence: 1},
		}

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "sale_order_lines" WHERE order_id = \$1`).
			WithArgs(orderID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "sale_order_lines"`).
			WillReturnError(gorm.ErrInvalidData)
		mock.ExpectRollback()

		err := repo.ReplaceLines(context.Background(), orderID, lines)

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_Update(t *testing.T) {
	t.Run("returns ErrOrderNotFound when no row matches", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		order := &commerce.SaleOrder{ID: uuid.New(), Number: "742", Status: "processing", PartnerID: uuid.New(), PaymentModeID: uuid.New()}

		mock.ExpectExec(`UPDATE "sale_orders" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), order)

		assert.ErrorIs(t, err, commerce.ErrOrderNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
