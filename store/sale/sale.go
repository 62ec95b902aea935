package sale

import (
	"context"

	"cardmarket/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type saleStore struct {
	db *db.DB
}

// New new sale store
func New(db *db.DB) core.SaleStore {
	return &saleStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Sale{})

		if err := tx.AutoMigrate(core.Sale{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *saleStore) Create(ctx context.Context, sale *core.Sale) error {
	return s.db.Update().Create(sale).Error
}

func (s *saleStore) Find(ctx context.Context, id int64) (*core.Sale, error) {
	var sale core.Sale
	err := s.db.View().Where("id = ?", id).First(&sale).Error
	if store.IsErrNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (s *saleStore) ListByCard(ctx context.Context, cardID int64) ([]*core.Sale, error) {
	var sales []*core.Sale
	if err := s.db.View().Where("card_id = ?", cardID).Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// MarkSoldByHashes bulk status set. Re-applying the same hashes
// matches zero rows and is a no-op, which is what makes block replay
// safe for the sale listener.
func (s *saleStore) MarkSoldByHashes(ctx context.Context, hashes []string) error {
	if len(hashes) == 0 {
		return nil
	}

	return s.db.Update().Model(core.Sale{}).
		Where("order_hash IN (?) AND status = ?", hashes, core.SaleStatusOnSale).
		Update("status", core.SaleStatusSold).Error
}

func (s *saleStore) Delete(ctx context.Context, id int64) error {
	return s.db.Update().Where("id = ?", id).Delete(core.Sale{}).Error
}

func (s *saleStore) DeleteByCard(ctx context.Context, cardID int64) error {
	return s.db.Update().Where("card_id = ?", cardID).Delete(core.Sale{}).Error
}

func (s *saleStore) DeleteByCardAndUser(ctx context.Context, cardID, userID int64) error {
	return s.db.Update().Where("card_id = ? AND user_id = ?", cardID, userID).Delete(core.Sale{}).Error
}
