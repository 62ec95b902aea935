package sale

import (
	"context"
	"fmt"

	"cardmarket/core"
	"cardmarket/pkg/number"
	"cardmarket/pkg/security"
	"cardmarket/service/order"

	"github.com/fox-one/pkg/logger"
)

type saleService struct {
	app      *core.App
	sales    core.SaleStore
	cards    core.CardStore
	books    order.Table
	quotes   core.QuoteService
	verifier core.SignatureVerifier
}

// New new sale service
func New(
	app *core.App,
	sales core.SaleStore,
	cards core.CardStore,
	books order.Table,
	quotes core.QuoteService,
	verifier core.SignatureVerifier,
) core.SaleService {
	return &saleService{
		app:      app,
		sales:    sales,
		cards:    cards,
		books:    books,
		quotes:   quotes,
		verifier: verifier,
	}
}

func (s *saleService) Create(ctx context.Context, user *core.User, input *core.CreateSaleInput) (*core.Sale, error) {
	log := logger.FromContext(ctx).WithField("service", "sale")

	if !input.Network.IsValid() {
		return nil, core.ErrInvalidArguments
	}

	if input.TokensCount <= 0 {
		return nil, core.ErrInvalidTokensCount
	}

	price := number.Decimal(input.Price)
	if !price.IsPositive() {
		return nil, core.ErrInvalidArguments
	}

	currency, ok := s.app.FindCurrency(input.Currency)
	if !ok {
		return nil, core.ErrCurrencyNotAllowed
	}

	card, err := s.cards.Find(ctx, input.CardID)
	if err != nil {
		return nil, err
	}
	if card == nil || card.Network != input.Network {
		return nil, core.ErrCardNotFound
	}

	balance, err := s.cards.FindBalance(ctx, card.ID, user.Address)
	if err != nil {
		return nil, err
	}
	if balance == nil || balance.Amount < input.TokensCount {
		return nil, core.ErrInsufficientBalance
	}

	if !s.verifier.VerifyPersonal(salePayload(input), input.Signature, user.Address) {
		return nil, core.ErrUnauthorized
	}

	book, ok := s.books.Book(input.Network)
	if !ok {
		return nil, core.ErrInvalidArguments
	}

	salt, err := security.RandomSalt()
	if err != nil {
		return nil, err
	}

	signable, err := book.BuildOrder(ctx, &core.OrderInput{
		Network:      input.Network,
		Maker:        user.Address,
		Card:         card,
		TokensCount:  input.TokensCount,
		BasePrice:    input.Price,
		PaymentToken: currency.PaymentToken,
		PublishFrom:  input.PublishFrom,
		PublishTo:    input.PublishTo,
		Salt:         salt,
	})
	if err != nil {
		log.WithError(err).Errorln("order.BuildOrder")
		return nil, err
	}

	rate, err := s.quotes.UsdRate(ctx, currency.SymbolID)
	if err != nil {
		log.WithError(err).Errorln("quotes.UsdRate", currency.SymbolID)
		return nil, err
	}

	sale := &core.Sale{
		Network:        input.Network,
		CardID:         card.ID,
		UserID:         user.ID,
		TokensCount:    input.TokensCount,
		Price:          input.Price,
		PriceUsd:       price.Mul(rate),
		CurrencySymbol: currency.Symbol,
		CurrencyID:     currency.SymbolID,
		SaleContract:   signable.SaleContract,
		Order:          signable.Order,
		OrderHash:      signable.OrderHash,
		Signature:      input.Signature,
		PublishFrom:    input.PublishFrom,
		PublishTo:      input.PublishTo,
		Status:         core.SaleStatusOnSale,
	}

	if err := s.sales.Create(ctx, sale); err != nil {
		return nil, err
	}

	return sale, nil
}

func (s *saleService) Cancel(ctx context.Context, user *core.User, id int64) error {
	sale, err := s.sales.Find(ctx, id)
	if err != nil {
		return err
	}

	if sale == nil {
		return core.ErrSaleNotFound
	}

	if sale.UserID != user.ID {
		return core.ErrOperationForbidden
	}

	return s.sales.Delete(ctx, id)
}

// salePayload deterministic byte string the seller signs before the
// order itself exists. It pins every user chosen listing parameter,
// with 0 standing in for an open ended expiry.
func salePayload(input *core.CreateSaleInput) []byte {
	var until int64
	if input.PublishTo != nil {
		until = input.PublishTo.Unix()
	}

	return []byte(fmt.Sprintf("cardmarket-sale:%s:%d:%d:%s:%s:%d:%d",
		input.Network, input.CardID, input.TokensCount,
		input.Price, input.Currency, input.PublishFrom.Unix(), until))
}
