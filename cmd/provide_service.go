package cmd

import (
	"cardmarket/core"
	"cardmarket/pkg/crypt"
	"cardmarket/service/chain"
	"cardmarket/service/challenge"
	"cardmarket/service/order"
	"cardmarket/service/quote"
	"cardmarket/service/sale"
	"cardmarket/service/signature"
	"cardmarket/service/user"

	"github.com/sirupsen/logrus"
)

func provideCipher() core.Cipher {
	cipher, err := crypt.New(cfg.App.AESKey)
	if err != nil {
		logrus.WithError(err).Fatal("init cipher")
	}
	return cipher
}

func provideChainService() chain.Service {
	service, err := chain.New(cfg.Networks)
	if err != nil {
		logrus.WithError(err).Fatal("dial networks")
	}
	return service
}

func provideOrderBooks(caller core.ContractCaller) order.Table {
	return order.NewTable(cfg.Networks, caller)
}

func provideSignatureVerifier() core.SignatureVerifier {
	return signature.New()
}

func provideQuoteService() core.QuoteService {
	return quote.New(cfg.Quote)
}

func provideChallengeService(challenges core.ChallengeStore, cipher core.Cipher) core.ChallengeService {
	chainID := int64(1)
	if len(cfg.Networks) > 0 {
		chainID = cfg.Networks[0].ChainID
	}

	return challenge.New(challenges, cipher, chainID, cfg.App.ChallengeTTL)
}

func provideUserService(users core.UserStore, challenges core.ChallengeService, verifier core.SignatureVerifier) core.UserService {
	return user.New(users, challenges, verifier)
}

func provideSaleService(
	sales core.SaleStore,
	cards core.CardStore,
	books order.Table,
	quotes core.QuoteService,
	verifier core.SignatureVerifier,
) core.SaleService {
	return sale.New(&cfg.App, sales, cards, books, quotes, verifier)
}
