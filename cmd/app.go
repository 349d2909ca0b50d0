package cmd

import (
	"go.uber.org/zap"

	"github.com/Ktl-XV/poap-webapp/accounts"
	"github.com/Ktl-XV/poap-webapp/config"
	"github.com/Ktl-XV/poap-webapp/contracts"
	"github.com/Ktl-XV/poap-webapp/identity"
	"github.com/Ktl-XV/poap-webapp/indexer"
	"github.com/Ktl-XV/poap-webapp/logger"
	"github.com/Ktl-XV/poap-webapp/networks"
	"github.com/Ktl-XV/poap-webapp/transfer"
	"github.com/Ktl-XV/poap-webapp/util/broadcaster"
	"github.com/Ktl-XV/poap-webapp/util/cache"
	"github.com/Ktl-XV/poap-webapp/util/monitor"
	"github.com/Ktl-XV/poap-webapp/util/reader"
	"github.com/Ktl-XV/poap-webapp/wallet"
)

// sessionFactory builds the session a command drives. Tests replace it with
// one wired to fakes.
var sessionFactory = newSession

func newIndexer() *indexer.Client {
	return indexer.NewClient(config.Global.APIURL, nil, cache.Default())
}

func nodes() map[string]string {
	return networks.Nodes(networks.CurrentNetwork(), config.Global.Nodes...)
}

func newSession(owner string) *transfer.Session {
	cfg := config.Global
	network := networks.CurrentNetwork()
	api := newIndexer()
	r := reader.NewEthReaderGeneric(nodes())

	opts := transfer.Options{
		Owner:               owner,
		Network:             network,
		Resolver:            identity.NewResolver(api),
		Tokens:              api,
		Token:               contracts.NewPoap(cfg.TokenContractAddress(), r),
		Estimator:           r,
		ReconciliationDelay: cfg.ReconciliationDelay,
		Logger:              logger.Named("transfer"),
	}
	if addr, ok := cfg.BatchContractAddress(); ok {
		opts.Batch = contracts.NewMultitransfer(addr)
	}

	registry, err := accounts.DefaultRegistry()
	if err != nil {
		logger.Debug("account registry unavailable", zap.Error(err))
	}
	opts.Connector = &wallet.KeystoreConnector{
		PrivateKey: cfg.PrivateKey,
		Keystore:   cfg.Keystore,
		From:       cfg.From,
		Registry:   registry,
		Password:   wallet.TerminalPassword,
		Chain:      r,
	}
	opts.NewSender = func(conn wallet.Connection) transfer.Sender {
		return transfer.NewChainSender(
			conn.Account,
			r,
			broadcaster.NewGenericBroadcaster(nodes()),
			monitor.NewGenericTxMonitor(r),
			conn.ChainID,
			logger.Named("sender"),
		)
	}
	return transfer.NewSession(opts)
}
