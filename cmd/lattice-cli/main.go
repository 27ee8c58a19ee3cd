package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/getlattice/lattice/config"
	"github.com/getlattice/lattice/lgorm"
	"github.com/getlattice/lattice/logger"
	"github.com/getlattice/lattice/rebac"
)

// Version is set at build time
var Version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "version":
		fmt.Printf("lattice-cli %s\n", Version)
		return
	case "help", "-h", "--help":
		printUsage()
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger.InitLogger(cfg.LogLevel)
	defer logger.Log.Sync()

	db, err := lgorm.Open(cfg.DBType, cfg.DSN, nil)
	if err != nil {
		logger.Log.Fatal("failed to open database", zap.Error(err))
	}

	repo := lgorm.NewRepository(db)
	if !cfg.SkipAutoMigrate {
		if err := repo.AutoMigrate(); err != nil {
			logger.Log.Fatal("failed to migrate schema", zap.Error(err))
		}
	}

	var kv rebac.KV = rebac.NewMemoryKV()
	if cfg.RedisAddr != "" {
		kv = rebac.NewRedisKV(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	}

	cache := rebac.NewDecisionCache(kv, rebac.WithTTL(cfg.CacheTTL()))
	resolver := rebac.NewResolver(repo,
		rebac.WithCache(cache),
		rebac.WithLogger(logger.Log),
	)

	ctx := context.Background()

	switch cmd {
	case "check":
		err = checkCommand(ctx, resolver, args)
	case "write":
		err = writeCommand(ctx, repo, args)
	case "reindex":
		err = reindexCommand(ctx, db, args)
	case "list":
		err = listCommand(ctx, repo, lgorm.Dialect(cfg.DBType), args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func checkCommand(ctx context.Context, resolver *rebac.Resolver, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: lattice-cli check <subject> <relation> <object>")
	}

	allowed, err := resolver.Check(ctx, args[0], args[1], args[2])
	if err != nil {
		return err
	}

	if allowed {
		fmt.Println("allowed")
	} else {
		fmt.Println("denied")
	}
	return nil
}

func writeCommand(ctx context.Context, repo *lgorm.Repository, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: lattice-cli write <subject> <relation> <object>")
	}

	if err := repo.WriteTuple(ctx, args[0], args[1], args[2]); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", rebac.ComputeTuple(args[0], args[1], args[2]))
	return nil
}

func reindexCommand(ctx context.Context, db *gorm.DB, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("usage: lattice-cli reindex")
	}

	materializer := lgorm.NewIndexMaterializer(db, lgorm.WithMaterializerLogger(logger.Log))
	if err := materializer.Refresh(ctx); err != nil {
		return err
	}

	fmt.Println("object index rebuilt")
	return nil
}

func listCommand(ctx context.Context, repo *lgorm.Repository, dialect rebac.Dialect, args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: lattice-cli list <collection> <subject> <objectType> <action>")
	}

	collection, subject, objectType, action := args[0], args[1], args[2], args[3]
	if err := rebac.Validate(subject, action, objectType+":"); err != nil {
		return err
	}

	tuplePrefix := rebac.ComputeTuple(subject, action, objectType+":")
	rows, err := repo.ListAccessible(ctx, dialect, collection, tuplePrefix, subject, objectType, action)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func printUsage() {
	fmt.Print(`lattice-cli - ReBAC resolution core command line interface

Usage:
  lattice-cli <command> [arguments]

Environment Variables:
  DB_TYPE       Database type: sqlite, postgres, mysql (default: sqlite)
  DSN           Database connection string (default: lattice.db)
  REDIS_ADDR    Redis address for the decision cache (default: in-memory)
  CACHE_TTL_MS  Decision cache TTL in milliseconds (default: 2000)
  LOG_LEVEL     debug, info, warn, error (default: info)

Commands:
  check   <subject> <relation> <object>          Resolve one authorization check
  write   <subject> <relation> <object>          Persist a permission tuple
  reindex                                        Rebuild the object index from tuples
  list    <collection> <subject> <type> <action> Run the access-list query
  version                                        Print version
  help                                           Show this help
`)
}
