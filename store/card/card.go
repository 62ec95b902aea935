package card

import (
	"context"

	"cardmarket/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type cardStore struct {
	db *db.DB
}

// New new card store
func New(db *db.DB) core.CardStore {
	return &cardStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update()

		if err := tx.AutoMigrate(core.Card{}).Error; err != nil {
			return err
		}

		if err := tx.AutoMigrate(core.CardBalance{}).Error; err != nil {
			return err
		}

		if err := tx.AutoMigrate(core.Collection{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *cardStore) UpsertCard(ctx context.Context, card *core.Card) error {
	return s.db.Update().
		Where("network = ? AND contract_address = ? AND token_id = ?",
			card.Network, card.ContractAddress, card.TokenID).
		Assign(map[string]interface{}{
			"standard": card.Standard,
			"supply":   card.Supply,
			"uri":      card.URI,
		}).
		FirstOrCreate(card).Error
}

func (s *cardStore) Find(ctx context.Context, id int64) (*core.Card, error) {
	var card core.Card
	err := s.db.View().Where("id = ?", id).First(&card).Error
	if store.IsErrNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (s *cardStore) FindToken(ctx context.Context, network core.Network, contract, tokenID string) (*core.Card, error) {
	var card core.Card
	err := s.db.View().
		Where("network = ? AND contract_address = ? AND token_id = ?", network, contract, tokenID).
		First(&card).Error
	if store.IsErrNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// SetBalance writes the absolute amount for (card, owner). A set, not
// an increment, so replaying the same chain event cannot drift.
func (s *cardStore) SetBalance(ctx context.Context, cardID int64, owner string, amount int64) error {
	balance := core.CardBalance{CardID: cardID, Owner: owner}

	return s.db.Update().
		Where("card_id = ? AND owner = ?", cardID, owner).
		Assign(map[string]interface{}{"amount": amount}).
		FirstOrCreate(&balance).Error
}

func (s *cardStore) FindBalance(ctx context.Context, cardID int64, owner string) (*core.CardBalance, error) {
	var balance core.CardBalance
	err := s.db.View().Where("card_id = ? AND owner = ?", cardID, owner).First(&balance).Error
	if store.IsErrNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func (s *cardStore) UpsertCollection(ctx context.Context, collection *core.Collection) error {
	return s.db.Update().
		Where("network = ? AND address = ?", collection.Network, collection.Address).
		Assign(map[string]interface{}{"creator": collection.Creator}).
		FirstOrCreate(collection).Error
}
