package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	appConfig "github.com/Xushengqwer/content_service/config"
	"github.com/Xushengqwer/content_service/dependencies"
	"github.com/Xushengqwer/content_service/mq/producer"
	"github.com/Xushengqwer/content_service/repo/mysql"
	redisrepo "github.com/Xushengqwer/content_service/repo/redis"
	contentService "github.com/Xushengqwer/content_service/service"
	"github.com/Xushengqwer/content_service/tokenizer"
)

func main() {
	// --- 0. 解析命令行参数 ---
	var configFile string
	var numUsers int
	var numPosts int
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "配置文件路径")
	flag.IntVar(&numUsers, "users", 20, "要生成的用户数量 (默认: 20)")
	flag.IntVar(&numPosts, "posts", 50, "要生成的帖子数量 (默认: 50)")
	var waitSeconds int
	flag.IntVar(&waitSeconds, "wait", 5, "数据填充后等待的秒数 (确保异步任务完成, 默认: 5秒)")
	flag.Parse()

	absConfigFile, err := filepath.Abs(configFile)
	if err != nil {
		fmt.Printf("无法获取配置文件的绝对路径 '%s': %v\n", configFile, err)
		absConfigFile = configFile
	}
	fmt.Printf("准备使用配置文件 '%s' 生成 %d 个用户和 %d 条帖子...\n", absConfigFile, numUsers, numPosts)

	if numUsers <= 0 || numPosts <= 0 {
		fmt.Println("错误: 生成的用户和帖子数量都必须大于 0")
		os.Exit(1)
	}
	if waitSeconds < 0 {
		fmt.Println("错误: 等待秒数不能为负")
		os.Exit(1)
	}

	// --- 1. 加载配置 ---
	var cfg appConfig.ContentConfig
	if err := core.LoadConfig(absConfigFile, &cfg); err != nil {
		fmt.Printf("加载配置失败 (%s): %v\n", absConfigFile, err)
		os.Exit(1)
	}
	fmt.Println("配置加载成功。")

	// --- 2. 初始化日志记录器 ---
	logger, loggerErr := core.NewZapLogger(cfg.ZapConfig)
	if loggerErr != nil {
		fmt.Printf("初始化 ZapLogger 失败: %v\n", loggerErr)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Logger().Sync()
	}()
	logger.Info("Logger 初始化成功 (Seeder)")

	// --- 3. 初始化 MySQL / Redis / COS ---
	db, dbErr := dependencies.InitMySQL(&cfg, logger)
	if dbErr != nil {
		logger.Fatal("初始化 MySQL 失败 (Seeder)", zap.Error(dbErr))
	}
	logger.Info("MySQL 连接成功 (Seeder)")

	rdb, redisErr := dependencies.InitRedis(&cfg.RedisConfig, logger)
	if redisErr != nil {
		logger.Fatal("初始化 Redis 失败 (Seeder)", zap.Error(redisErr))
	}
	logger.Info("Redis 连接成功 (Seeder)")

	cos, cosErr := dependencies.InitCOS(&cfg.COSConfig, logger)
	if cosErr != nil {
		logger.Fatal("初始化 COS 客户端失败 (Seeder)", zap.Error(cosErr))
	}

	// 分词服务不可用时帖子仍会创建，只是没有标签
	tokenClient := tokenizer.NewHTTPClient(&cfg.TokenizerConfig, logger)

	// Kafka 可选：未配置 brokers 时跳过事件广播
	var kafkaProducer *producer.KafkaProducer
	if len(cfg.KafkaConfig.Brokers) > 0 {
		kafkaProducer = producer.NewKafkaProducer(cfg.KafkaConfig, logger)
	}

	// --- 4. 初始化 Repositories ---
	postRepo := mysql.NewPostRepository(db, logger)
	tagRepo := mysql.NewTagRepository(db, logger)
	postTagRepo := mysql.NewPostTagRepository(db, logger)
	userTagRepo := mysql.NewUserTagRepository(db, logger)
	likeRepo := mysql.NewLikeRepository(db, logger)
	userRepo := mysql.NewUserRepository(db, logger)

	postViewRepo := redisrepo.NewPostViewRepository(
		rdb,
		logger,
		10000, 3, 0.01,
		cfg.ViewSyncConfig,
	)
	userTagCache := redisrepo.NewUserTagCache(rdb, logger)

	// --- 5. 初始化 Services ---
	affinitySvc := contentService.NewAffinityService(likeRepo, postTagRepo, userTagRepo, userTagCache, logger)
	postSvc := contentService.NewPostService(db, postRepo, tagRepo, postTagRepo, likeRepo, userRepo, postViewRepo, cos, tokenClient, kafkaProducer, logger)
	likeSvc := contentService.NewLikeService(db, likeRepo, postRepo, userRepo, affinitySvc, logger)
	userSvc := contentService.NewUserService(db, userRepo, postRepo, likeRepo, tagRepo, affinitySvc, cos, logger)
	logger.Info("服务层已初始化 (Seeder)")

	// --- 6. 执行数据填充 ---
	ctx := context.Background()
	startTime := time.Now()

	Seed(ctx, userSvc, postSvc, likeSvc, logger, numUsers, numPosts)

	logger.Info("数据填充主要逻辑完成", zap.Duration("耗时", time.Since(startTime)))

	// --- 7. 等待异步任务 (Kafka 事件 / 旧头像清理) 有时间完成 ---
	if waitSeconds > 0 {
		logger.Info(fmt.Sprintf("Seeder: 等待 %d 秒以允许异步任务完成...", waitSeconds))
		time.Sleep(time.Duration(waitSeconds) * time.Second)
	}
	if kafkaProducer != nil {
		if err := kafkaProducer.Close(); err != nil {
			logger.Warn("关闭 Kafka 生产者失败", zap.Error(err))
		}
	}

	fmt.Printf("数据填充完成！总耗时（包括等待）: %v\n", time.Since(startTime))
}
