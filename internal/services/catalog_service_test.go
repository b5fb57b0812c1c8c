package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeImageStorage struct {
	removed []string
	err     error
}

func (f *fakeImageStorage) Remove(path string) error {
	f.removed = append(f.removed, path)
	return f.err
}

func TestCatalogService_DeleteCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewCatalogService(db, &fakeImageStorage{})

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "categories" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
				AddRow(id.String(), "Pottery"))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE category = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`DELETE FROM "categories" WHERE id = \$1`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := svc.DeleteCategory(ctx, id)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("BlockedWhileReferenced", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewCatalogService(db, &fakeImageStorage{})

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "categories" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
				AddRow(id.String(), "Pottery"))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE category = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		err := svc.DeleteCategory(ctx, id)
		var inUse *CategoryInUseError
		require.ErrorAs(t, err, &inUse)
		assert.Equal(t, "Pottery", inUse.Name)
		assert.Equal(t, int64(4), inUse.Count)
		// The category row must survive.
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewCatalogService(db, &fakeImageStorage{})

		mock.ExpectQuery(`SELECT \* FROM "categories" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		err := svc.DeleteCategory(ctx, uuid.New())
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestCatalogService_DeleteProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("RemovesRowsAndFiles", func(t *testing.T) {
		db, mock := newMockDB(t)
		storage := &fakeImageStorage{}
		svc := NewCatalogService(db, storage)

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
				AddRow(id.String(), "Clay Mug"))
		mock.ExpectQuery(`SELECT \* FROM "product_images"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "url"}).
				AddRow(uuid.NewString(), id.String(), "static/uploads/mug-1.jpg").
				AddRow(uuid.NewString(), id.String(), "static/uploads/mug-2.jpg"))

		mock.ExpectExec(`DELETE FROM "product_images"`).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`DELETE FROM "product_variants"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM "products"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := svc.DeleteProduct(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []string{"static/uploads/mug-1.jpg", "static/uploads/mug-2.jpg"}, storage.removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("FileRemovalFailureDoesNotAbort", func(t *testing.T) {
		db, mock := newMockDB(t)
		storage := &fakeImageStorage{err: errors.New("permission denied")}
		svc := NewCatalogService(db, storage)

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
				AddRow(id.String(), "Clay Mug"))
		mock.ExpectQuery(`SELECT \* FROM "product_images"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "url"}).
				AddRow(uuid.NewString(), id.String(), "static/uploads/mug-1.jpg"))

		mock.ExpectExec(`DELETE FROM "product_images"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "product_variants"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM "products"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := svc.DeleteProduct(ctx, id)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewCatalogService(db, &fakeImageStorage{})

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		err := svc.DeleteProduct(ctx, uuid.New())
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestCatalogService_ReorderProductImages(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewCatalogService(db, &fakeImageStorage{})

		productID := uuid.New()
		imageIDs := []uuid.UUID{uuid.New(), uuid.New()}

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
				AddRow(productID.String(), "Clay Mug"))
		mock.ExpectExec(`UPDATE "product_images" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "product_images" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := svc.ReorderProductImages(ctx, productID, imageIDs)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("EmptyList", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewCatalogService(db, &fakeImageStorage{})

		err := svc.ReorderProductImages(ctx, uuid.New(), nil)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ForeignImageRollsBack", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewCatalogService(db, &fakeImageStorage{})

		productID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
				AddRow(productID.String(), "Clay Mug"))
		mock.ExpectExec(`UPDATE "product_images" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := svc.ReorderProductImages(ctx, productID, []uuid.UUID{uuid.New()})
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewCatalogService(db, &fakeImageStorage{})

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		err := svc.ReorderProductImages(ctx, uuid.New(), []uuid.UUID{uuid.New()})
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}
