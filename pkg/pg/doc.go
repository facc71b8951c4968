// Package pg bootstraps PostgreSQL access on top of pgx/v5.
//
// Connect opens a *pgxpool.Pool with retries, Migrate applies goose migrations
// from an fs.FS (usually an embed.FS), WithTx runs a function inside a
// transaction, and the Is* helpers classify driver errors so stores can map
// them to domain errors.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, migrations.FS, ".", cfg.MigrationsTable, log); err != nil {
//		return err
//	}
package pg
