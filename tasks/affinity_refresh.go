package tasks

import (
	"context"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Xushengqwer/content_service/constant"
	"github.com/Xushengqwer/content_service/repo/mysql"
	"github.com/Xushengqwer/content_service/service"
)

// AffinityRefreshTask 负责定时全量重算所有用户的兴趣标签。
// 点赞时的同步重算失败是允许被吞掉的，这个任务兜底修复由此产生的偏差。
type AffinityRefreshTask struct {
	userRepo    mysql.UserRepository
	affinitySvc service.AffinityService
	cron        *cron.Cron
	logger      *core.ZapLogger
}

// NewAffinityRefreshTask 初始化并启动兴趣标签全量刷新的定时任务。
func NewAffinityRefreshTask(
	userRepo mysql.UserRepository,
	affinitySvc service.AffinityService,
	logger *core.ZapLogger,
) *AffinityRefreshTask {
	cronV3 := cron.New()
	task := &AffinityRefreshTask{
		userRepo:    userRepo,
		affinitySvc: affinitySvc,
		cron:        cronV3,
		logger:      logger,
	}
	task.startCronJob()
	return task
}

// startCronJob 配置并启动 cron 作业。
// 使用 constant.AffinityRefreshCronSpec 定义的 cron 表达式来调度 refreshAllUsers 方法。
func (t *AffinityRefreshTask) startCronJob() {
	schedule := constant.AffinityRefreshCronSpec
	t.logger.Info("准备启动用户兴趣标签全量刷新定时任务", zap.String("schedule", schedule))

	entryID, err := t.cron.AddFunc(schedule, func() {
		t.logger.Info("用户兴趣标签全量刷新任务开始执行...")
		startTime := time.Now()
		// 全量刷新是逐用户的串行扫描，给一个较宽裕的超时。
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		t.refreshAllUsers(ctx)

		duration := time.Since(startTime)
		t.logger.Info("用户兴趣标签全量刷新任务执行完毕", zap.Duration("duration", duration))
	})

	if err != nil {
		t.logger.Fatal("添加用户兴趣标签刷新 cron 作业失败", zap.Error(err), zap.String("schedule", schedule))
	}

	t.cron.Start()
	t.logger.Info("用户兴趣标签全量刷新定时任务已启动", zap.Uint("cronEntryID", uint(entryID)))
}

// refreshAllUsers 逐用户重算兴趣标签。
// 单个用户的失败只记录日志，不中断整体扫描。
func (t *AffinityRefreshTask) refreshAllUsers(ctx context.Context) {
	userIDs, err := t.userRepo.ListUserIDs(ctx)
	if err != nil {
		t.logger.Error("获取全量用户 ID 失败，本次刷新中止。", zap.Error(err))
		return
	}

	if len(userIDs) == 0 {
		t.logger.Info("没有用户需要刷新兴趣标签。")
		return
	}

	var failed int
	for _, userID := range userIDs {
		if ctx.Err() != nil {
			t.logger.Warn("兴趣标签刷新任务超时，提前结束扫描。",
				zap.Int("已处理数量", len(userIDs)-failed),
				zap.Error(ctx.Err()),
			)
			return
		}
		if err := t.affinitySvc.RecomputeAffinity(ctx, userID); err != nil {
			failed++
			t.logger.Warn("单个用户兴趣标签重算失败，继续处理后续用户。",
				zap.Uint64("userID", userID),
				zap.Error(err),
			)
		}
	}

	t.logger.Info("用户兴趣标签全量刷新完成。",
		zap.Int("用户总数", len(userIDs)),
		zap.Int("失败数量", failed),
	)
}

// Stop 优雅地停止 cron 调度器。
func (t *AffinityRefreshTask) Stop() context.Context {
	t.logger.Info("正在停止用户兴趣标签全量刷新定时任务...")
	stopCtx := t.cron.Stop()
	t.logger.Info("用户兴趣标签全量刷新定时任务已停止调度。等待正在执行的任务完成...")
	return stopCtx
}
