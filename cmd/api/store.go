package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/config"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/remote"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/remote/memstore"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/remote/mongostore"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/remote/restapi"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/remote/sqlstore"
)

// openStore connects the configured backend. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (remote.Store, func(), error) {
	switch cfg.Backend {
	case config.BackendMemory:
		log.Warn().Msg("⚠️ using the in-memory backend, records are lost on restart")
		return memstore.New(), func() {}, nil

	case config.BackendMongo:
		if cfg.MongoURI == "" {
			return nil, nil, fmt.Errorf("MONGO_URI is required for the mongo backend")
		}
		client, err := mongostore.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("db", cfg.MongoDB).Msg("✅ Connected to MongoDB")
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		}
		return mongostore.New(client.Database(cfg.MongoDB)), closeFn, nil

	case config.BackendREST:
		if cfg.RestURL == "" {
			return nil, nil, fmt.Errorf("REST_URL is required for the rest backend")
		}
		log.Info().Str("url", cfg.RestURL).Msg("✅ Using REST backend")
		return restapi.New(cfg.RestURL, cfg.RestKey), func() {}, nil

	case config.BackendMySQL:
		if cfg.MySQLDSN == "" {
			return nil, nil, fmt.Errorf("MYSQL_DSN is required for the mysql backend")
		}
		db, err := sqlstore.Open(ctx, cfg.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		store := sqlstore.New(db, sqlstore.DefaultSchema())
		if err := store.EnsureTables(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info().Msg("✅ Connected to MySQL")
		closeFn := func() {
			if err := db.Close(); err != nil {
				log.Warn().Err(err).Msg("mysql close")
			}
		}
		return store, closeFn, nil
	}
	return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}
