package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/Xushengqwer/go-common/core"
	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"

	"github.com/Xushengqwer/content_service/models/dto"
	"github.com/Xushengqwer/content_service/models/enums"
	"github.com/Xushengqwer/content_service/service"
)

// 帖子正文里掺入的学科词，让分词服务能抽出有意义的标签，
// 点赞之后亲和度标签才不会全是噪声。
var seedSubjects = []string{
	"математика", "физика", "химия", "информатика",
	"английский", "история", "биология", "литература",
}

// Seed 通过服务层灌入测試数据：先建用户，再建帖子与评论，最后随机点赞。
// 点赞走 LikeService，会同步触发兴趣标签的重算。
func Seed(
	ctx context.Context,
	userSvc service.UserService,
	postSvc service.PostService,
	likeSvc service.LikeService,
	logger *core.ZapLogger,
	numUsers, numPosts int,
) {
	// --- 1. 创建用户 ---
	userIDs := make([]uint64, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		profileType := enums.ProfileTypeStudent
		if gofakeit.Number(0, 2) == 0 {
			profileType = enums.ProfileTypeTeacher
		}
		createReq := &dto.CreateUserRequest{
			Login:       fmt.Sprintf("%s_%d", gofakeit.Username(), gofakeit.Number(100, 999)),
			Password:    gofakeit.Password(true, true, true, false, false, 12),
			Name:        gofakeit.Name(),
			ProfileType: profileType,
			Description: gofakeit.Sentence(gofakeit.Number(5, 12)),
		}
		userVO, err := userSvc.CreateUser(ctx, createReq, nil)
		if err != nil {
			logger.Error(fmt.Sprintf("创建用户 %d/%d 失败", i+1, numUsers),
				zap.Error(err), zap.String("login", createReq.Login))
			continue
		}
		userIDs = append(userIDs, userVO.ID)
	}
	logger.Info("用户填充完毕", zap.Int("成功数量", len(userIDs)))
	if len(userIDs) == 0 {
		logger.Error("没有成功创建任何用户，跳过帖子与点赞填充")
		return
	}

	randomUserID := func() uint64 {
		return userIDs[gofakeit.Number(0, len(userIDs)-1)]
	}

	// --- 2. 并发创建帖子 ---
	var wg sync.WaitGroup
	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	var mu sync.Mutex
	postIDs := make([]uint64, 0, numPosts)

	for i := 0; i < numPosts; i++ {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(itemIndex int) {
			defer wg.Done()
			defer func() { <-semaphore }()

			subject := seedSubjects[gofakeit.Number(0, len(seedSubjects)-1)]
			createReq := &dto.CreatePostRequest{
				Content:  fmt.Sprintf("%s %s", subject, gofakeit.Paragraph(2, 4, 15, "\n\n")),
				AuthorID: randomUserID(),
				Type:     enums.PostTypePost,
			}

			resp, err := postSvc.CreatePost(ctx, createReq, nil)
			if err != nil {
				logger.Error(fmt.Sprintf("创建帖子 %d/%d 失败", itemIndex+1, numPosts),
					zap.Error(err), zap.Uint64("author_id", createReq.AuthorID))
				return
			}
			mu.Lock()
			postIDs = append(postIDs, resp.ID)
			mu.Unlock()
		}(i)
	}
	wg.Wait()
	logger.Info("帖子填充完毕", zap.Int("成功数量", len(postIDs)))
	if len(postIDs) == 0 {
		logger.Error("没有成功创建任何帖子，跳过评论与点赞填充")
		return
	}

	randomPostID := func() uint64 {
		return postIDs[gofakeit.Number(0, len(postIDs)-1)]
	}

	// --- 3. 评论：大约给三分之一的帖子挂上评论 ---
	commentCount := 0
	for i := 0; i < numPosts/3; i++ {
		commentReq := &dto.CreateCommentRequest{
			Content:  gofakeit.Sentence(gofakeit.Number(5, 20)),
			AuthorID: randomUserID(),
			ParentID: randomPostID(),
		}
		if _, err := postSvc.CreateComment(ctx, commentReq); err != nil {
			logger.Error("创建评论失败", zap.Error(err), zap.Uint64("parent_id", commentReq.ParentID))
			continue
		}
		commentCount++
	}
	logger.Info("评论填充完毕", zap.Int("成功数量", commentCount))

	// --- 4. 点赞：每个用户随机点赞若干帖子，顺带驱动兴趣标签重算 ---
	likeCount := 0
	for _, userID := range userIDs {
		likes := gofakeit.Number(1, 5)
		for j := 0; j < likes; j++ {
			likeReq := &dto.LikeRequest{
				PostID: randomPostID(),
				UserID: userID,
			}
			// 重复点赞是幂等的，这里不关心是否命中同一个帖子
			if err := likeSvc.LikePost(ctx, likeReq); err != nil {
				logger.Error("点赞失败", zap.Error(err),
					zap.Uint64("post_id", likeReq.PostID), zap.Uint64("user_id", likeReq.UserID))
				continue
			}
			likeCount++
		}
	}
	logger.Info("点赞填充完毕", zap.Int("成功数量", likeCount))
}
