package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/content_service/constant"
	"github.com/Xushengqwer/content_service/dependencies"
	"github.com/Xushengqwer/content_service/models/dto"
	"github.com/Xushengqwer/content_service/models/entities"
	"github.com/Xushengqwer/content_service/models/enums"
	"github.com/Xushengqwer/content_service/models/events"
	"github.com/Xushengqwer/content_service/models/vo"
	"github.com/Xushengqwer/content_service/mq/producer"
	"github.com/Xushengqwer/content_service/myErrors"
	"github.com/Xushengqwer/content_service/repo/mysql"
	"github.com/Xushengqwer/content_service/repo/redis"
	"github.com/Xushengqwer/content_service/tokenizer"
)

// PostService 定义了帖子与评论核心业务逻辑的接口。
type PostService interface {
	// CreatePost 处理用户发布新帖子的业务流程。
	// - 可选的媒体文件先上传 COS，再写库。
	// - 帖子落库后为正文抽取主题词并绑定标签；
	//   抽取或绑定失败只记录日志，帖子发布不受影响。
	// - 成功创建后异步发送帖子创建事件到 Kafka。
	CreatePost(ctx context.Context, req *dto.CreatePostRequest, mediaFile *multipart.FileHeader) (*vo.PostResponse, error)

	// CreateComment 处理用户发表评论。
	// - 评论是 ParentID 非空、类型为评论的帖子记录，不参与标签绑定。
	// - 父级（帖子或上级评论）不存在时返回 myErrors.ErrParentNotFound。
	CreateComment(ctx context.Context, req *dto.CreateCommentRequest) (*vo.PostResponse, error)

	// UpdatePost 更新帖子的正文或媒体链接。
	// - 正文变更会触发标签集合的全量重建：重新抽取主题词并整体替换绑定；
	//   抽取失败按零标签处理，原有绑定被清空。
	UpdatePost(ctx context.Context, postID uint64, req *dto.UpdatePostRequest) (*vo.PostResponse, error)

	// DeletePost 删除帖子及其关联数据。
	// - 事务内软删除帖子与全部子孙评论，硬删除标签绑定与点赞记录。
	// - 成功后异步发送删除事件并清理 Redis 中的浏览计数。
	DeletePost(ctx context.Context, postID uint64) error

	// GetPostDetail 获取帖子详情：基础信息、点赞数、标签与完整评论树。
	// - 评论树按父 ID 分层分组重建，层级不受限制。
	// - 异步按浏览者去重增加浏览计数；viewerID 为空时跳过计数。
	GetPostDetail(ctx context.Context, postID uint64, viewerID string) (*vo.PostDetailVO, error)

	// ListPosts 分页获取顶层帖子，按创建时间降序。
	ListPosts(ctx context.Context, req *dto.ListPostsRequest) (*vo.ListPostsVO, error)

	// ListPostsByAuthor 分页获取指定作者的顶层帖子。
	ListPostsByAuthor(ctx context.Context, authorID uint64, req *dto.ListPostsRequest) (*vo.ListPostsVO, error)

	// ListComments 分页获取指定帖子的一级评论，按创建时间升序。
	// - 只返回直接子评论，嵌套回复通过帖子详情的评论树获取。
	// - 父帖不存在时返回 myErrors.ErrPostNotFound。
	ListComments(ctx context.Context, postID uint64, req *dto.ListPostsRequest) (*vo.ListCommentsVO, error)
}

// postService 是 PostService 接口的具体实现。
type postService struct {
	postRepo     mysql.PostRepository
	tagRepo      mysql.TagRepository
	postTagRepo  mysql.PostTagRepository
	likeRepo     mysql.LikeRepository
	userRepo     mysql.UserRepository
	postViewRepo redis.PostViewRepository
	cosClient    dependencies.COSClientInterface
	tokenClient  tokenizer.Client
	db           *gorm.DB
	kafkaSvc     *producer.KafkaProducer
	logger       *core.ZapLogger
}

// NewPostService 是 postService 的构造函数，通过依赖注入初始化服务实例。
func NewPostService(
	db *gorm.DB,
	postRepo mysql.PostRepository,
	tagRepo mysql.TagRepository,
	postTagRepo mysql.PostTagRepository,
	likeRepo mysql.LikeRepository,
	userRepo mysql.UserRepository,
	postViewRepo redis.PostViewRepository,
	cosClient dependencies.COSClientInterface,
	tokenClient tokenizer.Client,
	kafkaSvc *producer.KafkaProducer,
	logger *core.ZapLogger,
) PostService {
	return &postService{
		postRepo:     postRepo,
		tagRepo:      tagRepo,
		postTagRepo:  postTagRepo,
		likeRepo:     likeRepo,
		userRepo:     userRepo,
		postViewRepo: postViewRepo,
		cosClient:    cosClient,
		tokenClient:  tokenClient,
		db:           db,
		kafkaSvc:     kafkaSvc,
		logger:       logger,
	}
}

// generateMediaObjectKey 为帖子媒体文件生成唯一的 COS 对象键。
func (s *postService) generateMediaObjectKey(originalFilename string, authorID uint64) string {
	datePrefix := time.Now().Format("20060102")
	extension := strings.ToLower(filepath.Ext(originalFilename))
	return fmt.Sprintf("%s%s/%d_%s%s",
		constant.COSObjectKeyPrefixPostMedia,
		datePrefix,
		authorID,
		uuid.NewString(),
		extension,
	)
}

// CreatePost 实现帖子的创建。
func (s *postService) CreatePost(ctx context.Context, req *dto.CreatePostRequest, mediaFile *multipart.FileHeader) (*vo.PostResponse, error) {
	postType := req.Type
	if postType == 0 {
		postType = enums.PostTypePost
	}
	if !postType.IsValid() {
		return nil, myErrors.ErrInvalidPostType
	}

	// 1. 校验作者与父级引用
	if _, err := s.userRepo.GetUserByID(ctx, req.AuthorID); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("校验作者存在性失败: %w", err)
	}
	if req.ParentID != nil {
		if _, err := s.postRepo.GetPostByID(ctx, *req.ParentID); err != nil {
			if errors.Is(err, commonerrors.ErrRepoNotFound) {
				return nil, myErrors.ErrParentNotFound
			}
			return nil, fmt.Errorf("校验父级帖子失败: %w", err)
		}
	}

	// 2. 可选媒体文件先上传 COS
	var mediaURL sql.NullString
	var objectKey string
	if mediaFile != nil {
		file, err := mediaFile.Open()
		if err != nil {
			s.logger.Error("打开媒体文件以上传失败",
				zap.String("filename", mediaFile.Filename), zap.Error(err))
			return nil, fmt.Errorf("打开媒体文件 %s 失败: %w", mediaFile.Filename, err)
		}

		contentType := mediaFile.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		objectKey = s.generateMediaObjectKey(mediaFile.Filename, req.AuthorID)
		uploadedURL, err := s.cosClient.UploadFile(ctx, objectKey, file, mediaFile.Size, contentType)
		file.Close()
		if err != nil {
			s.logger.Error("上传媒体文件到 COS 失败",
				zap.String("objectKey", objectKey), zap.Error(err))
			return nil, fmt.Errorf("上传媒体文件到 COS 失败: %w", err)
		}
		mediaURL = sql.NullString{String: uploadedURL, Valid: true}
	}

	// 3. 帖子落库
	post := &entities.Post{
		Content:  req.Content,
		ParentID: req.ParentID,
		AuthorID: req.AuthorID,
		MediaURL: mediaURL,
		Type:     postType,
	}
	if err := s.postRepo.CreatePost(ctx, s.db, post); err != nil {
		s.logger.Error("创建帖子失败", zap.Error(err))
		// 入库失败时清理已上传的媒体文件，避免 COS 中留下孤立对象
		if objectKey != "" {
			if cleanupErr := s.cosClient.DeleteObject(context.Background(), objectKey); cleanupErr != nil {
				s.logger.Error("清理孤立的 COS 文件失败", zap.String("objectKey", objectKey), zap.Error(cleanupErr))
			}
		}
		return nil, fmt.Errorf("创建帖子失败: %w", err)
	}

	// 4. 抽取主题词并绑定标签。评论和转发同样参与：
	// 被点赞的评论也要为作者的兴趣画像贡献标签信号。
	// 帖子此时已提交，标签环节的任何失败都只记录日志。
	tagNames := s.linkTagsForPost(ctx, post.ID, post.Content)

	// 5. 异步发送帖子创建事件
	eventData := events.PostData{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		ParentID:  post.ParentID,
		Type:      int(post.Type),
		Content:   post.Content,
		Tags:      tagNames,
		CreatedAt: post.CreatedAt.UnixMilli(),
		UpdatedAt: post.UpdatedAt.UnixMilli(),
	}
	// kafkaSvc 在未配置 brokers 时为 nil，此时只跳过事件广播
	if s.kafkaSvc != nil {
		go func(pd events.PostData) {
			bgCtx := context.Background()
			if kafkaErr := s.kafkaSvc.SendPostCreatedEvent(bgCtx, pd); kafkaErr != nil {
				s.logger.Error("发送 Kafka 帖子创建事件失败", zap.Error(kafkaErr), zap.Uint64("post_id", pd.ID))
			}
		}(eventData)
	}

	return vo.NewPostResponseFromEntity(post), nil
}

// linkTagsForPost 为帖子正文抽取主题词并逐个绑定标签。
// 返回成功绑定的标签名称列表；任何一步失败都不向上传播。
func (s *postService) linkTagsForPost(ctx context.Context, postID uint64, content string) []string {
	tokens := s.tokenClient.ExtractTopicTokens(ctx, content)
	if len(tokens) == 0 {
		s.logger.Debug("帖子未抽取到主题词，跳过标签绑定", zap.Uint64("postID", postID))
		return nil
	}

	linked := make([]string, 0, len(tokens))
	for _, token := range tokens {
		tag, err := s.tagRepo.GetOrCreateByName(ctx, s.db, token, enums.TagCategoryTopic)
		if err != nil {
			s.logger.Error("获取或创建标签失败，跳过该主题词",
				zap.String("token", token), zap.Uint64("postID", postID), zap.Error(err))
			continue
		}
		if err := s.postTagRepo.CreateIfAbsent(ctx, s.db, postID, tag.ID); err != nil {
			s.logger.Error("绑定帖子标签失败，跳过该标签",
				zap.Uint64("tagID", tag.ID), zap.Uint64("postID", postID), zap.Error(err))
			continue
		}
		linked = append(linked, tag.Name)
	}

	s.logger.Info("帖子标签绑定完成",
		zap.Uint64("postID", postID),
		zap.Int("tokenCount", len(tokens)),
		zap.Int("linkedCount", len(linked)),
	)
	return linked
}

// CreateComment 实现评论的创建。
func (s *postService) CreateComment(ctx context.Context, req *dto.CreateCommentRequest) (*vo.PostResponse, error) {
	if _, err := s.userRepo.GetUserByID(ctx, req.AuthorID); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("校验作者存在性失败: %w", err)
	}
	if _, err := s.postRepo.GetPostByID(ctx, req.ParentID); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrParentNotFound
		}
		return nil, fmt.Errorf("校验父级帖子失败: %w", err)
	}

	parentID := req.ParentID
	comment := &entities.Post{
		Content:  req.Content,
		ParentID: &parentID,
		AuthorID: req.AuthorID,
		Type:     enums.PostTypeComment,
	}
	if err := s.postRepo.CreatePost(ctx, s.db, comment); err != nil {
		s.logger.Error("创建评论失败", zap.Error(err), zap.Uint64("parentID", req.ParentID))
		return nil, fmt.Errorf("创建评论失败: %w", err)
	}

	// 评论正文同样抽词绑定标签，失败只记录日志
	s.linkTagsForPost(ctx, comment.ID, comment.Content)

	s.logger.Info("评论创建成功", zap.Uint64("commentID", comment.ID), zap.Uint64("parentID", req.ParentID))
	return vo.NewPostResponseFromEntity(comment), nil
}

// UpdatePost 实现帖子的更新。
func (s *postService) UpdatePost(ctx context.Context, postID uint64, req *dto.UpdatePostRequest) (*vo.PostResponse, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrPostNotFound
		}
		return nil, err
	}

	contentChanged := req.Content != nil && *req.Content != post.Content

	if err := s.postRepo.UpdatePost(ctx, s.db, postID, req.Content, req.MediaURL); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("更新帖子失败: %w", err)
	}

	// 正文变更触发标签集合的全量重建。
	// 抽取失败按零标签处理：旧绑定反映的是旧正文，保留反而是错的。
	if contentChanged {
		s.relinkTagsForPost(ctx, postID, *req.Content)
	}

	updated, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return vo.NewPostResponseFromEntity(updated), nil
}

// relinkTagsForPost 重新抽取主题词并整体替换帖子的标签绑定。
func (s *postService) relinkTagsForPost(ctx context.Context, postID uint64, content string) {
	tokens := s.tokenClient.ExtractTopicTokens(ctx, content)

	tagIDs := make([]uint64, 0, len(tokens))
	for _, token := range tokens {
		tag, err := s.tagRepo.GetOrCreateByName(ctx, s.db, token, enums.TagCategoryTopic)
		if err != nil {
			s.logger.Error("获取或创建标签失败，跳过该主题词",
				zap.String("token", token), zap.Uint64("postID", postID), zap.Error(err))
			continue
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	// 删除与插入在同一事务中，读取方看到的始终是完整的标签集合
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.postTagRepo.ReplaceForPost(ctx, tx, postID, tagIDs)
	})
	if err != nil {
		s.logger.Error("重建帖子标签绑定失败", zap.Error(err), zap.Uint64("postID", postID))
		return
	}
	s.logger.Info("帖子标签重建完成", zap.Uint64("postID", postID), zap.Int("tagCount", len(tagIDs)))
}

// DeletePost 实现帖子及关联数据的删除。
func (s *postService) DeletePost(ctx context.Context, postID uint64) error {
	if _, err := s.postRepo.GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return myErrors.ErrPostNotFound
		}
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 评论先于帖子删除，收集子孙 ID 依赖帖子记录仍可见
		if repoErr := s.postRepo.DeleteCommentsByPostID(ctx, tx, postID); repoErr != nil {
			return fmt.Errorf("删除帖子评论失败: %w", repoErr)
		}
		if repoErr := s.postTagRepo.DeleteByPostID(ctx, tx, postID); repoErr != nil {
			return fmt.Errorf("删除帖子标签绑定失败: %w", repoErr)
		}
		if repoErr := s.likeRepo.DeleteByPostID(ctx, tx, postID); repoErr != nil {
			return fmt.Errorf("删除帖子点赞失败: %w", repoErr)
		}
		if repoErr := s.postRepo.DeletePost(ctx, tx, postID); repoErr != nil {
			return fmt.Errorf("软删除帖子主记录失败: %w", repoErr)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("删除帖子事务失败", zap.Error(err), zap.Uint64("postID", postID))
		return err
	}

	// 事务成功后的异步清理与通知
	go func(id uint64) {
		bgCtx := context.Background()
		if redisErr := s.postViewRepo.DeleteViewCount(bgCtx, id); redisErr != nil {
			s.logger.Error("清理帖子浏览计数失败", zap.Error(redisErr), zap.Uint64("post_id", id))
		}
		if s.kafkaSvc != nil {
			if kafkaErr := s.kafkaSvc.SendPostDeleteEvent(bgCtx, id); kafkaErr != nil {
				s.logger.Error("发送 Kafka 删除事件失败", zap.Error(kafkaErr), zap.Uint64("post_id", id))
			}
		}
	}(postID)

	s.logger.Info("帖子及其关联数据删除请求处理完成", zap.Uint64("postID", postID))
	return nil
}

// GetPostDetail 实现帖子详情的组装。
func (s *postService) GetPostDetail(ctx context.Context, postID uint64, viewerID string) (*vo.PostDetailVO, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrPostNotFound
		}
		return nil, err
	}

	likesCount, err := s.likeRepo.CountByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("统计帖子点赞数失败: %w", err)
	}

	tags, err := s.tagRepo.ListByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("查询帖子标签失败: %w", err)
	}

	comments, err := s.buildCommentTree(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("构建评论树失败: %w", err)
	}

	// 异步增加浏览计数，viewerID 为空（无法识别浏览者）时跳过
	if viewerID == "" {
		s.logger.Debug("未提供浏览者标识，跳过增加浏览量", zap.Uint64("postID", postID))
	} else {
		go func(pID uint64, vID string) {
			if redisErr := s.postViewRepo.IncrementViewCount(context.Background(), pID, vID); redisErr != nil {
				s.logger.Error("异步增加浏览量失败",
					zap.Error(redisErr), zap.Uint64("post_id", pID), zap.String("viewer_id", vID))
			}
		}(postID, viewerID)
	}

	detail := &vo.PostDetailVO{
		PostResponse: *vo.NewPostResponseFromEntity(post),
		LikesCount:   likesCount,
		Tags:         vo.MapTagsToTagVOs(tags),
		Comments:     comments,
	}
	return detail, nil
}

// buildCommentTree 按层重建帖子的评论树。
// 每一层用一次 IN 查询取出当前层所有节点的直接子评论，
// 然后按父 ID 分组挂到对应节点上，直到没有更深的层。
func (s *postService) buildCommentTree(ctx context.Context, postID uint64) ([]*vo.CommentVO, error) {
	roots := make([]*vo.CommentVO, 0)
	nodeByID := make(map[uint64]*vo.CommentVO)

	frontier := []uint64{postID}
	for len(frontier) > 0 {
		children, err := s.postRepo.ListByParentIDs(ctx, frontier)
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			break
		}

		nextFrontier := make([]uint64, 0, len(children))
		for _, child := range children {
			node := &vo.CommentVO{
				ID:        child.ID,
				Content:   child.Content,
				ParentID:  child.ParentID,
				AuthorID:  child.AuthorID,
				ViewCount: child.ViewCount,
				CreatedAt: child.CreatedAt,
				Replies:   make([]*vo.CommentVO, 0),
			}
			nodeByID[child.ID] = node
			nextFrontier = append(nextFrontier, child.ID)

			if child.ParentID != nil && *child.ParentID == postID {
				roots = append(roots, node)
			} else if child.ParentID != nil {
				if parent, ok := nodeByID[*child.ParentID]; ok {
					parent.Replies = append(parent.Replies, node)
				}
			}
		}
		frontier = nextFrontier
	}

	return roots, nil
}

// ListPosts 实现顶层帖子的分页查询。
func (s *postService) ListPosts(ctx context.Context, req *dto.ListPostsRequest) (*vo.ListPostsVO, error) {
	posts, total, err := s.postRepo.ListTopLevelPosts(ctx, req.GetOffset(), req.GetLimit())
	if err != nil {
		return nil, err
	}
	return &vo.ListPostsVO{
		Posts: vo.MapPostsToPostResponsesVO(posts),
		Total: total,
	}, nil
}

// ListPostsByAuthor 实现按作者分页查询帖子。
func (s *postService) ListPostsByAuthor(ctx context.Context, authorID uint64, req *dto.ListPostsRequest) (*vo.ListPostsVO, error) {
	if _, err := s.userRepo.GetUserByID(ctx, authorID); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrUserNotFound
		}
		return nil, err
	}

	posts, total, err := s.postRepo.ListPostsByAuthor(ctx, authorID, req.GetOffset(), req.GetLimit())
	if err != nil {
		return nil, err
	}
	return &vo.ListPostsVO{
		Posts: vo.MapPostsToPostResponsesVO(posts),
		Total: total,
	}, nil
}

// ListComments 实现一级评论的分页查询。
func (s *postService) ListComments(ctx context.Context, postID uint64, req *dto.ListPostsRequest) (*vo.ListCommentsVO, error) {
	if _, err := s.postRepo.GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrPostNotFound
		}
		return nil, err
	}

	comments, total, err := s.postRepo.ListCommentsByParentID(ctx, postID, req.GetOffset(), req.GetLimit())
	if err != nil {
		return nil, err
	}
	return &vo.ListCommentsVO{
		Comments: vo.MapPostsToPostResponsesVO(comments),
		Total:    total,
	}, nil
}
