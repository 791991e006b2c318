package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Xushengqwer/go-common/commonerrors"
	commonEntities "github.com/Xushengqwer/go-common/models/entities"
	"gorm.io/gorm"

	"github.com/Xushengqwer/content_service/models/dto"
	"github.com/Xushengqwer/content_service/models/entities"
	"github.com/Xushengqwer/content_service/models/enums"
	"github.com/Xushengqwer/content_service/myErrors"
)

// mockTokenizer 是分词服务客户端的 mock。
type mockTokenizer struct {
	tokens []string
	called bool
}

func (m *mockTokenizer) ExtractTopicTokens(ctx context.Context, text string) []string {
	m.called = true
	return m.tokens
}

func uintPtr(v uint64) *uint64 { return &v }

func TestCreatePost_TokenizerFailureStillCreatesPost(t *testing.T) {
	userRepo := &mockUserRepo{
		getUserByIDFn: func(ctx context.Context, id uint64) (*entities.User, error) {
			return existingUser(id), nil
		},
	}
	postRepo := &mockPostRepo{
		createPostFn: func(ctx context.Context, db *gorm.DB, post *entities.Post) error {
			post.ID = 7
			return nil
		},
	}
	tagRepo := &mockTagRepo{
		getOrCreateByNameFn: func(ctx context.Context, db *gorm.DB, name string, category enums.TagCategory) (*entities.Tag, error) {
			t.Error("没有主题词时不应该创建标签")
			return nil, nil
		},
	}

	// 分词服务不可用时返回空结果，帖子创建不受影响
	svc := NewPostService(nil, postRepo, tagRepo, &mockPostTagRepo{}, &mockLikeRepo{}, userRepo, nil, nil, &mockTokenizer{tokens: nil}, nil, newTestLogger(t))
	got, err := svc.CreatePost(context.Background(), &dto.CreatePostRequest{Content: "正文", AuthorID: 42}, nil)
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if got.ID != 7 {
		t.Errorf("CreatePost() ID = %d, want 7", got.ID)
	}
}

func TestCreatePost_TagLinkFailureDoesNotFailPost(t *testing.T) {
	userRepo := &mockUserRepo{
		getUserByIDFn: func(ctx context.Context, id uint64) (*entities.User, error) {
			return existingUser(id), nil
		},
	}
	postRepo := &mockPostRepo{
		createPostFn: func(ctx context.Context, db *gorm.DB, post *entities.Post) error {
			post.ID = 7
			return nil
		},
	}
	tagRepo := &mockTagRepo{
		getOrCreateByNameFn: func(ctx context.Context, db *gorm.DB, name string, category enums.TagCategory) (*entities.Tag, error) {
			return nil, errors.New("mysql gone away")
		},
	}

	svc := NewPostService(nil, postRepo, tagRepo, &mockPostTagRepo{}, &mockLikeRepo{}, userRepo, nil, nil, &mockTokenizer{tokens: []string{"go", "gorm"}}, nil, newTestLogger(t))
	if _, err := svc.CreatePost(context.Background(), &dto.CreatePostRequest{Content: "正文", AuthorID: 42}, nil); err != nil {
		t.Errorf("标签绑定失败不应该影响帖子创建, got %v", err)
	}
}

func TestCreatePost_InvalidType(t *testing.T) {
	svc := NewPostService(nil, &mockPostRepo{}, &mockTagRepo{}, &mockPostTagRepo{}, &mockLikeRepo{}, &mockUserRepo{}, nil, nil, &mockTokenizer{}, nil, newTestLogger(t))
	_, err := svc.CreatePost(context.Background(), &dto.CreatePostRequest{Content: "正文", AuthorID: 42, Type: 9}, nil)
	if !errors.Is(err, myErrors.ErrInvalidPostType) {
		t.Errorf("CreatePost() error = %v, want ErrInvalidPostType", err)
	}
}

func TestCreatePost_ParentNotFound(t *testing.T) {
	userRepo := &mockUserRepo{
		getUserByIDFn: func(ctx context.Context, id uint64) (*entities.User, error) {
			return existingUser(id), nil
		},
	}
	postRepo := &mockPostRepo{
		getPostByIDFn: func(ctx context.Context, id uint64) (*entities.Post, error) {
			return nil, commonerrors.ErrRepoNotFound
		},
	}

	svc := NewPostService(nil, postRepo, &mockTagRepo{}, &mockPostTagRepo{}, &mockLikeRepo{}, userRepo, nil, nil, &mockTokenizer{}, nil, newTestLogger(t))
	_, err := svc.CreatePost(context.Background(), &dto.CreatePostRequest{Content: "转发", AuthorID: 42, ParentID: uintPtr(999), Type: enums.PostTypeRepost}, nil)
	if !errors.Is(err, myErrors.ErrParentNotFound) {
		t.Errorf("CreatePost() error = %v, want ErrParentNotFound", err)
	}
}

func TestCreateComment_Success(t *testing.T) {
	userRepo := &mockUserRepo{
		getUserByIDFn: func(ctx context.Context, id uint64) (*entities.User, error) {
			return existingUser(id), nil
		},
	}
	var createdComment *entities.Post
	postRepo := &mockPostRepo{
		getPostByIDFn: func(ctx context.Context, id uint64) (*entities.Post, error) {
			return existingPost(id), nil
		},
		createPostFn: func(ctx context.Context, db *gorm.DB, post *entities.Post) error {
			post.ID = 8
			createdComment = post
			return nil
		},
	}

	svc := NewPostService(nil, postRepo, &mockTagRepo{}, &mockPostTagRepo{}, &mockLikeRepo{}, userRepo, nil, nil, &mockTokenizer{}, nil, newTestLogger(t))
	got, err := svc.CreateComment(context.Background(), &dto.CreateCommentRequest{Content: "写得好", AuthorID: 42, ParentID: 7})
	if err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}
	if got.ID != 8 {
		t.Errorf("CreateComment() ID = %d, want 8", got.ID)
	}
	if createdComment.Type != enums.PostTypeComment {
		t.Errorf("评论类型应该固定为 PostTypeComment, got %v", createdComment.Type)
	}
	if createdComment.ParentID == nil || *createdComment.ParentID != 7 {
		t.Errorf("评论必须携带父引用, got %v", createdComment.ParentID)
	}
}

// 评论类型的帖子同样参与标签绑定：被点赞的评论也要贡献兴趣信号。
func TestCreatePost_CommentTypeAlsoLinksTags(t *testing.T) {
	userRepo := &mockUserRepo{
		getUserByIDFn: func(ctx context.Context, id uint64) (*entities.User, error) {
			return existingUser(id), nil
		},
	}
	postRepo := &mockPostRepo{
		getPostByIDFn: func(ctx context.Context, id uint64) (*entities.Post, error) {
			return existingPost(id), nil
		},
		createPostFn: func(ctx context.Context, db *gorm.DB, post *entities.Post) error {
			post.ID = 8
			return nil
		},
	}
	tagRepo := &mockTagRepo{
		getOrCreateByNameFn: func(ctx context.Context, db *gorm.DB, name string, category enums.TagCategory) (*entities.Tag, error) {
			return &entities.Tag{BaseModel: commonEntities.BaseModel{ID: 9}, Name: name}, nil
		},
	}
	var linkedPostID, linkedTagID uint64
	postTagRepo := &mockPostTagRepo{
		createIfAbsentFn: func(ctx context.Context, db *gorm.DB, postID, tagID uint64) error {
			linkedPostID, linkedTagID = postID, tagID
			return nil
		},
	}
	tok := &mockTokenizer{tokens: []string{"作业"}}

	svc := NewPostService(nil, postRepo, tagRepo, postTagRepo, &mockLikeRepo{}, userRepo, nil, nil, tok, nil, newTestLogger(t))
	_, err := svc.CreatePost(context.Background(), &dto.CreatePostRequest{Content: "写得好", AuthorID: 42, ParentID: uintPtr(7), Type: enums.PostTypeComment}, nil)
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if !tok.called {
		t.Error("评论创建后应该调用分词服务")
	}
	if linkedPostID != 8 || linkedTagID != 9 {
		t.Errorf("标签绑定 = (post %d, tag %d), want (8, 9)", linkedPostID, linkedTagID)
	}
}

func TestCreateComment_LinksTagsFromContent(t *testing.T) {
	userRepo := &mockUserRepo{
		getUserByIDFn: func(ctx context.Context, id uint64) (*entities.User, error) {
			return existingUser(id), nil
		},
	}
	postRepo := &mockPostRepo{
		getPostByIDFn: func(ctx context.Context, id uint64) (*entities.Post, error) {
			return existingPost(id), nil
		},
		createPostFn: func(ctx context.Context, db *gorm.DB, post *entities.Post) error {
			post.ID = 8
			return nil
		},
	}
	tagRepo := &mockTagRepo{
		getOrCreateByNameFn: func(ctx context.Context, db *gorm.DB, name string, category enums.TagCategory) (*entities.Tag, error) {
			return &entities.Tag{BaseModel: commonEntities.BaseModel{ID: 11}, Name: name}, nil
		},
	}
	var linkedTagID uint64
	postTagRepo := &mockPostTagRepo{
		createIfAbsentFn: func(ctx context.Context, db *gorm.DB, postID, tagID uint64) error {
			linkedTagID = tagID
			return nil
		},
	}

	svc := NewPostService(nil, postRepo, tagRepo, postTagRepo, &mockLikeRepo{}, userRepo, nil, nil, &mockTokenizer{tokens: []string{"数学"}}, nil, newTestLogger(t))
	if _, err := svc.CreateComment(context.Background(), &dto.CreateCommentRequest{Content: "数学讲解", AuthorID: 42, ParentID: 7}); err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}
	if linkedTagID != 11 {
		t.Errorf("评论应该绑定标签 11, got %d", linkedTagID)
	}
}

func TestCreateComment_ParentNotFound(t *testing.T) {
	userRepo := &mockUserRepo{
		getUserByIDFn: func(ctx context.Context, id uint64) (*entities.User, error) {
			return existingUser(id), nil
		},
	}
	postRepo := &mockPostRepo{
		getPostByIDFn: func(ctx context.Context, id uint64) (*entities.Post, error) {
			return nil, commonerrors.ErrRepoNotFound
		},
	}

	svc := NewPostService(nil, postRepo, &mockTagRepo{}, &mockPostTagRepo{}, &mockLikeRepo{}, userRepo, nil, nil, &mockTokenizer{}, nil, newTestLogger(t))
	_, err := svc.CreateComment(context.Background(), &dto.CreateCommentRequest{Content: "写得好", AuthorID: 42, ParentID: 999})
	if !errors.Is(err, myErrors.ErrParentNotFound) {
		t.Errorf("CreateComment() error = %v, want ErrParentNotFound", err)
	}
}

func TestGetPostDetail_BuildsNestedCommentTree(t *testing.T) {
	postRepo := &mockPostRepo{
		getPostByIDFn: func(ctx context.Context, id uint64) (*entities.Post, error) {
			return existingPost(id), nil
		},
		// 评论树按层展开：
		//   帖子 1 下有评论 2 和 3，评论 2 下有回复 4
		listByParentIDsFn: func(ctx context.Context, parentIDs []uint64) ([]*entities.Post, error) {
			switch parentIDs[0] {
			case 1:
				return []*entities.Post{
					{BaseModel: commonEntities.BaseModel{ID: 2}, ParentID: uintPtr(1), Type: enums.PostTypeComment},
					{BaseModel: commonEntities.BaseModel{ID: 3}, ParentID: uintPtr(1), Type: enums.PostTypeComment},
				}, nil
			case 2:
				return []*entities.Post{
					{BaseModel: commonEntities.BaseModel{ID: 4}, ParentID: uintPtr(2), Type: enums.PostTypeComment},
				}, nil
			default:
				return nil, nil
			}
		},
	}
	likeRepo := &mockLikeRepo{
		countByPostIDFn: func(ctx context.Context, postID uint64) (int64, error) {
			return 5, nil
		},
	}
	tagRepo := &mockTagRepo{
		listByPostIDFn: func(ctx context.Context, postID uint64) ([]*entities.Tag, error) {
			return []*entities.Tag{{BaseModel: commonEntities.BaseModel{ID: 9}, Name: "go"}}, nil
		},
	}

	svc := NewPostService(nil, postRepo, tagRepo, &mockPostTagRepo{}, likeRepo, &mockUserRepo{}, nil, nil, &mockTokenizer{}, nil, newTestLogger(t))
	// viewerID 为空，跳过浏览计数，测试不需要 Redis
	detail, err := svc.GetPostDetail(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("GetPostDetail() error = %v", err)
	}

	if detail.LikesCount != 5 {
		t.Errorf("LikesCount = %d, want 5", detail.LikesCount)
	}
	if len(detail.Tags) != 1 || detail.Tags[0].Name != "go" {
		t.Errorf("Tags = %v, want [go]", detail.Tags)
	}
	if len(detail.Comments) != 2 {
		t.Fatalf("一级评论数 = %d, want 2", len(detail.Comments))
	}
	if detail.Comments[0].ID != 2 || detail.Comments[1].ID != 3 {
		t.Errorf("一级评论 = [%d %d], want [2 3]", detail.Comments[0].ID, detail.Comments[1].ID)
	}
	if len(detail.Comments[0].Replies) != 1 || detail.Comments[0].Replies[0].ID != 4 {
		t.Errorf("评论 2 的回复应该是 [4], got %v", detail.Comments[0].Replies)
	}
	if len(detail.Comments[1].Replies) != 0 {
		t.Errorf("评论 3 不应该有回复, got %v", detail.Comments[1].Replies)
	}
}

func TestGetPostDetail_PostNotFound(t *testing.T) {
	postRepo := &mockPostRepo{
		getPostByIDFn: func(ctx context.Context, id uint64) (*entities.Post, error) {
			return nil, commonerrors.ErrRepoNotFound
		},
	}

	svc := NewPostService(nil, postRepo, &mockTagRepo{}, &mockPostTagRepo{}, &mockLikeRepo{}, &mockUserRepo{}, nil, nil, &mockTokenizer{}, nil, newTestLogger(t))
	_, err := svc.GetPostDetail(context.Background(), 999, "")
	if !errors.Is(err, myErrors.ErrPostNotFound) {
		t.Errorf("GetPostDetail() error = %v, want ErrPostNotFound", err)
	}
}

func TestListComments_ReturnsFirstLevelPage(t *testing.T) {
	var gotParentID uint64
	postRepo := &mockPostRepo{
		getPostByIDFn: func(ctx context.Context, id uint64) (*entities.Post, error) {
			return existingPost(id), nil
		},
		listCommentsByParentFn: func(ctx context.Context, parentID uint64, offset, limit int) ([]*entities.Post, int64, error) {
			gotParentID = parentID
			return candidatePosts(21, 22), 5, nil
		},
	}

	svc := NewPostService(nil, postRepo, &mockTagRepo{}, &mockPostTagRepo{}, &mockLikeRepo{}, &mockUserRepo{}, nil, nil, &mockTokenizer{}, nil, newTestLogger(t))
	got, err := svc.ListComments(context.Background(), 7, &dto.ListPostsRequest{})
	if err != nil {
		t.Fatalf("ListComments() error = %v", err)
	}
	if gotParentID != 7 {
		t.Errorf("查询的父帖 ID = %d, want 7", gotParentID)
	}
	if got.Total != 5 || len(got.Comments) != 2 {
		t.Errorf("ListComments() total = %d, comments = %d, want (5, 2)", got.Total, len(got.Comments))
	}
}

func TestListComments_PostNotFound(t *testing.T) {
	postRepo := &mockPostRepo{
		getPostByIDFn: func(ctx context.Context, id uint64) (*entities.Post, error) {
			return nil, commonerrors.ErrRepoNotFound
		},
	}

	svc := NewPostService(nil, postRepo, &mockTagRepo{}, &mockPostTagRepo{}, &mockLikeRepo{}, &mockUserRepo{}, nil, nil, &mockTokenizer{}, nil, newTestLogger(t))
	if _, err := svc.ListComments(context.Background(), 999, &dto.ListPostsRequest{}); !errors.Is(err, myErrors.ErrPostNotFound) {
		t.Errorf("ListComments() error = %v, want ErrPostNotFound", err)
	}
}

func TestListPosts_AppliesPaginationDefaults(t *testing.T) {
	var gotOffset, gotLimit int
	postRepo := &mockPostRepo{
		listTopLevelPostsFn: func(ctx context.Context, offset, limit int) ([]*entities.Post, int64, error) {
			gotOffset, gotLimit = offset, limit
			return candidatePosts(1, 2), 2, nil
		},
	}

	svc := NewPostService(nil, postRepo, &mockTagRepo{}, &mockPostTagRepo{}, &mockLikeRepo{}, &mockUserRepo{}, nil, nil, &mockTokenizer{}, nil, newTestLogger(t))
	got, err := svc.ListPosts(context.Background(), &dto.ListPostsRequest{})
	if err != nil {
		t.Fatalf("ListPosts() error = %v", err)
	}
	if gotOffset != 0 || gotLimit != 20 {
		t.Errorf("缺省分页参数 = (%d, %d), want (0, 20)", gotOffset, gotLimit)
	}
	if got.Total != 2 || len(got.Posts) != 2 {
		t.Errorf("ListPosts() total = %d, posts = %d", got.Total, len(got.Posts))
	}
}
