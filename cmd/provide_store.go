package cmd

import (
	"cardmarket/core"
	"cardmarket/store/card"
	"cardmarket/store/challenge"
	"cardmarket/store/client"
	"cardmarket/store/job"
	"cardmarket/store/sale"
	"cardmarket/store/user"

	"github.com/fox-one/pkg/store/db"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideUserStore(db *db.DB) core.UserStore {
	return user.New(db)
}

func provideChallengeStore(db *db.DB) core.ChallengeStore {
	return challenge.New(db)
}

func provideClientStore(db *db.DB) core.ClientStore {
	return client.New(db)
}

func provideCardStore(db *db.DB) core.CardStore {
	return card.New(db)
}

func provideSaleStore(db *db.DB) core.SaleStore {
	return sale.New(db)
}

func provideJobStore(db *db.DB) core.JobStore {
	return job.New(db)
}
