package mongo

import (
	"context"
	"errors"
	"time"

	"Hegemony/internal/shared/serverconfig"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

const (
	appName            = "hegemony-game"
	defaultTimeout     = 3 * time.Second
	defaultMaxPoolSize = 8
)

// Open 连接并 ping 主节点；存档读写都走主节点，ping 不到直接失败。
func Open(cfg serverconfig.MongoDBConfig, l *zap.Logger) (*mongo.Client, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongodb uri is empty")
	}
	if cfg.Database == "" {
		return nil, errors.New("mongodb database is empty")
	}
	if l == nil {
		l = zap.NewNop()
	}

	opts, timeout := clientOptions(cfg)
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	l.Info("open mongodb success",
		zap.String("database", cfg.Database),
		zap.String("collection", cfg.Collection),
		zap.Duration("timeout", timeout),
	)
	return client, nil
}

func clientOptions(cfg serverconfig.MongoDBConfig) (*options.ClientOptions, time.Duration) {
	timeout := time.Duration(cfg.ConnectTimeoutS) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxPool := cfg.MaxPool
	if maxPool == 0 {
		maxPool = defaultMaxPoolSize
	}
	minPool := cfg.MinPool
	if minPool > maxPool {
		minPool = maxPool
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout).
		SetMaxPoolSize(maxPool).
		SetMinPoolSize(minPool)
	return opts, timeout
}
