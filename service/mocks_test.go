package service

import (
	"context"
	"testing"

	sharedConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"gorm.io/gorm"

	"github.com/Xushengqwer/content_service/models/entities"
	"github.com/Xushengqwer/content_service/models/enums"
)

// newTestLogger 构造一个使用默认配置的 logger，测试专用。
func newTestLogger(t *testing.T) *core.ZapLogger {
	t.Helper()
	logger, err := core.NewZapLogger(sharedConfig.ZapConfig{})
	if err != nil {
		t.Fatalf("初始化测试 logger 失败: %v", err)
	}
	return logger
}

// 以下是各仓库接口的手写 mock，用函数字段注入每个用例的行为。
// 用例没有设置的方法被调用时会 panic，正好暴露预期外的调用。

type mockLikeRepo struct {
	createIfAbsentFn      func(ctx context.Context, db *gorm.DB, postID, userID uint64) (*entities.Like, bool, error)
	getByPostAndUserFn    func(ctx context.Context, postID, userID uint64) (*entities.Like, error)
	deleteByPostAndUserFn func(ctx context.Context, db *gorm.DB, postID, userID uint64) error
	deleteByPostIDFn      func(ctx context.Context, db *gorm.DB, postID uint64) error
	deleteByUserIDFn      func(ctx context.Context, db *gorm.DB, userID uint64) error
	countByPostIDFn       func(ctx context.Context, postID uint64) (int64, error)
	countByPostIDsFn      func(ctx context.Context, postIDs []uint64) (map[uint64]int64, error)
	countReceivedFn       func(ctx context.Context, authorID uint64) (int64, error)
	listPostIDsByUserFn   func(ctx context.Context, userID uint64) ([]uint64, error)
}

func (m *mockLikeRepo) CreateIfAbsent(ctx context.Context, db *gorm.DB, postID, userID uint64) (*entities.Like, bool, error) {
	return m.createIfAbsentFn(ctx, db, postID, userID)
}
func (m *mockLikeRepo) GetByPostAndUser(ctx context.Context, postID, userID uint64) (*entities.Like, error) {
	return m.getByPostAndUserFn(ctx, postID, userID)
}
func (m *mockLikeRepo) DeleteByPostAndUser(ctx context.Context, db *gorm.DB, postID, userID uint64) error {
	return m.deleteByPostAndUserFn(ctx, db, postID, userID)
}
func (m *mockLikeRepo) DeleteByPostID(ctx context.Context, db *gorm.DB, postID uint64) error {
	return m.deleteByPostIDFn(ctx, db, postID)
}
func (m *mockLikeRepo) DeleteByUserID(ctx context.Context, db *gorm.DB, userID uint64) error {
	return m.deleteByUserIDFn(ctx, db, userID)
}
func (m *mockLikeRepo) CountByPostID(ctx context.Context, postID uint64) (int64, error) {
	return m.countByPostIDFn(ctx, postID)
}
func (m *mockLikeRepo) CountByPostIDs(ctx context.Context, postIDs []uint64) (map[uint64]int64, error) {
	return m.countByPostIDsFn(ctx, postIDs)
}
func (m *mockLikeRepo) CountReceivedByAuthorID(ctx context.Context, authorID uint64) (int64, error) {
	return m.countReceivedFn(ctx, authorID)
}
func (m *mockLikeRepo) ListPostIDsByUserID(ctx context.Context, userID uint64) ([]uint64, error) {
	return m.listPostIDsByUserFn(ctx, userID)
}

type mockPostTagRepo struct {
	createIfAbsentFn     func(ctx context.Context, db *gorm.DB, postID, tagID uint64) error
	replaceForPostFn     func(ctx context.Context, db *gorm.DB, postID uint64, tagIDs []uint64) error
	deleteByPostIDFn     func(ctx context.Context, db *gorm.DB, postID uint64) error
	getTagIDsByPostIDsFn func(ctx context.Context, postIDs []uint64) (map[uint64][]uint64, error)
}

func (m *mockPostTagRepo) CreateIfAbsent(ctx context.Context, db *gorm.DB, postID, tagID uint64) error {
	return m.createIfAbsentFn(ctx, db, postID, tagID)
}
func (m *mockPostTagRepo) ReplaceForPost(ctx context.Context, db *gorm.DB, postID uint64, tagIDs []uint64) error {
	return m.replaceForPostFn(ctx, db, postID, tagIDs)
}
func (m *mockPostTagRepo) DeleteByPostID(ctx context.Context, db *gorm.DB, postID uint64) error {
	return m.deleteByPostIDFn(ctx, db, postID)
}
func (m *mockPostTagRepo) GetTagIDsByPostIDs(ctx context.Context, postIDs []uint64) (map[uint64][]uint64, error) {
	return m.getTagIDsByPostIDsFn(ctx, postIDs)
}

type mockUserTagRepo struct {
	replaceForUserFn    func(ctx context.Context, userID uint64, tagIDs []uint64) error
	getTagIDsByUserIDFn func(ctx context.Context, userID uint64) ([]uint64, error)
}

func (m *mockUserTagRepo) ReplaceForUser(ctx context.Context, userID uint64, tagIDs []uint64) error {
	return m.replaceForUserFn(ctx, userID, tagIDs)
}
func (m *mockUserTagRepo) GetTagIDsByUserID(ctx context.Context, userID uint64) ([]uint64, error) {
	return m.getTagIDsByUserIDFn(ctx, userID)
}

type mockUserTagCache struct {
	getTagIDsFn  func(ctx context.Context, userID uint64) ([]uint64, error)
	setTagIDsFn  func(ctx context.Context, userID uint64, tagIDs []uint64) error
	invalidateFn func(ctx context.Context, userID uint64) error
}

func (m *mockUserTagCache) GetTagIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	return m.getTagIDsFn(ctx, userID)
}
func (m *mockUserTagCache) SetTagIDs(ctx context.Context, userID uint64, tagIDs []uint64) error {
	return m.setTagIDsFn(ctx, userID, tagIDs)
}
func (m *mockUserTagCache) Invalidate(ctx context.Context, userID uint64) error {
	return m.invalidateFn(ctx, userID)
}

type mockPostRepo struct {
	createPostFn           func(ctx context.Context, db *gorm.DB, post *entities.Post) error
	updatePostFn           func(ctx context.Context, db *gorm.DB, postID uint64, content *string, mediaURL *string) error
	getPostByIDFn          func(ctx context.Context, id uint64) (*entities.Post, error)
	listTopLevelPostsFn    func(ctx context.Context, offset, limit int) ([]*entities.Post, int64, error)
	listPostsByAuthorFn    func(ctx context.Context, authorID uint64, offset, limit int) ([]*entities.Post, int64, error)
	listByParentIDsFn      func(ctx context.Context, parentIDs []uint64) ([]*entities.Post, error)
	listCommentsByParentFn func(ctx context.Context, parentID uint64, offset, limit int) ([]*entities.Post, int64, error)
	countPostsByAuthorFn   func(ctx context.Context, authorID uint64) (int64, error)
	listRecentPostsFn      func(ctx context.Context, limit int) ([]*entities.Post, error)
	deletePostFn           func(ctx context.Context, db *gorm.DB, id uint64) error
	deleteCommentsByPostFn func(ctx context.Context, db *gorm.DB, postID uint64) error
}

func (m *mockPostRepo) CreatePost(ctx context.Context, db *gorm.DB, post *entities.Post) error {
	return m.createPostFn(ctx, db, post)
}
func (m *mockPostRepo) UpdatePost(ctx context.Context, db *gorm.DB, postID uint64, content *string, mediaURL *string) error {
	return m.updatePostFn(ctx, db, postID, content, mediaURL)
}
func (m *mockPostRepo) GetPostByID(ctx context.Context, id uint64) (*entities.Post, error) {
	return m.getPostByIDFn(ctx, id)
}
func (m *mockPostRepo) ListTopLevelPosts(ctx context.Context, offset, limit int) ([]*entities.Post, int64, error) {
	return m.listTopLevelPostsFn(ctx, offset, limit)
}
func (m *mockPostRepo) ListPostsByAuthor(ctx context.Context, authorID uint64, offset, limit int) ([]*entities.Post, int64, error) {
	return m.listPostsByAuthorFn(ctx, authorID, offset, limit)
}
func (m *mockPostRepo) ListByParentIDs(ctx context.Context, parentIDs []uint64) ([]*entities.Post, error) {
	return m.listByParentIDsFn(ctx, parentIDs)
}
func (m *mockPostRepo) ListCommentsByParentID(ctx context.Context, parentID uint64, offset, limit int) ([]*entities.Post, int64, error) {
	return m.listCommentsByParentFn(ctx, parentID, offset, limit)
}
func (m *mockPostRepo) CountPostsByAuthor(ctx context.Context, authorID uint64) (int64, error) {
	return m.countPostsByAuthorFn(ctx, authorID)
}
func (m *mockPostRepo) ListRecentPosts(ctx context.Context, limit int) ([]*entities.Post, error) {
	return m.listRecentPostsFn(ctx, limit)
}
func (m *mockPostRepo) DeletePost(ctx context.Context, db *gorm.DB, id uint64) error {
	return m.deletePostFn(ctx, db, id)
}
func (m *mockPostRepo) DeleteCommentsByPostID(ctx context.Context, db *gorm.DB, postID uint64) error {
	return m.deleteCommentsByPostFn(ctx, db, postID)
}

type mockUserRepo struct {
	createUserFn      func(ctx context.Context, db *gorm.DB, user *entities.User) error
	getUserByIDFn     func(ctx context.Context, id uint64) (*entities.User, error)
	getUserByLoginFn  func(ctx context.Context, login string) (*entities.User, error)
	updateProfileFn   func(ctx context.Context, userID uint64, name *string, description *string) error
	updateAvatarURLFn func(ctx context.Context, userID uint64, avatarURL string) error
	updateRatingFn    func(ctx context.Context, userID uint64, rating float64) error
	deleteUserFn      func(ctx context.Context, db *gorm.DB, id uint64) error
	listUserIDsFn     func(ctx context.Context) ([]uint64, error)
}

func (m *mockUserRepo) CreateUser(ctx context.Context, db *gorm.DB, user *entities.User) error {
	return m.createUserFn(ctx, db, user)
}
func (m *mockUserRepo) GetUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	return m.getUserByIDFn(ctx, id)
}
func (m *mockUserRepo) GetUserByLogin(ctx context.Context, login string) (*entities.User, error) {
	return m.getUserByLoginFn(ctx, login)
}
func (m *mockUserRepo) UpdateProfile(ctx context.Context, userID uint64, name *string, description *string) error {
	return m.updateProfileFn(ctx, userID, name, description)
}
func (m *mockUserRepo) UpdateAvatarURL(ctx context.Context, userID uint64, avatarURL string) error {
	return m.updateAvatarURLFn(ctx, userID, avatarURL)
}
func (m *mockUserRepo) UpdateRating(ctx context.Context, userID uint64, rating float64) error {
	return m.updateRatingFn(ctx, userID, rating)
}
func (m *mockUserRepo) DeleteUser(ctx context.Context, db *gorm.DB, id uint64) error {
	return m.deleteUserFn(ctx, db, id)
}
func (m *mockUserRepo) ListUserIDs(ctx context.Context) ([]uint64, error) {
	return m.listUserIDsFn(ctx)
}

type mockRecommendRepo struct {
	listTagMatchedPostsFn func(ctx context.Context, tagIDs []uint64, excludeAuthorID uint64, excludePostIDs []uint64, limit int) ([]*entities.Post, error)
	listPopularPostsFn    func(ctx context.Context, excludeAuthorID uint64, excludePostIDs []uint64, limit int) ([]*entities.Post, error)
	listRandomPostsFn     func(ctx context.Context, excludeAuthorID uint64, excludePostIDs []uint64, limit int) ([]*entities.Post, error)
}

func (m *mockRecommendRepo) ListTagMatchedPosts(ctx context.Context, tagIDs []uint64, excludeAuthorID uint64, excludePostIDs []uint64, limit int) ([]*entities.Post, error) {
	return m.listTagMatchedPostsFn(ctx, tagIDs, excludeAuthorID, excludePostIDs, limit)
}
func (m *mockRecommendRepo) ListPopularPosts(ctx context.Context, excludeAuthorID uint64, excludePostIDs []uint64, limit int) ([]*entities.Post, error) {
	return m.listPopularPostsFn(ctx, excludeAuthorID, excludePostIDs, limit)
}
func (m *mockRecommendRepo) ListRandomPosts(ctx context.Context, excludeAuthorID uint64, excludePostIDs []uint64, limit int) ([]*entities.Post, error) {
	return m.listRandomPostsFn(ctx, excludeAuthorID, excludePostIDs, limit)
}

type mockTagRepo struct {
	getOrCreateByNameFn func(ctx context.Context, db *gorm.DB, name string, category enums.TagCategory) (*entities.Tag, error)
	getByIDFn           func(ctx context.Context, id uint64) (*entities.Tag, error)
	getByIDsFn          func(ctx context.Context, ids []uint64) ([]*entities.Tag, error)
	listByPostIDFn      func(ctx context.Context, postID uint64) ([]*entities.Tag, error)
}

func (m *mockTagRepo) GetOrCreateByName(ctx context.Context, db *gorm.DB, name string, category enums.TagCategory) (*entities.Tag, error) {
	return m.getOrCreateByNameFn(ctx, db, name, category)
}
func (m *mockTagRepo) GetByID(ctx context.Context, id uint64) (*entities.Tag, error) {
	return m.getByIDFn(ctx, id)
}
func (m *mockTagRepo) GetByIDs(ctx context.Context, ids []uint64) ([]*entities.Tag, error) {
	return m.getByIDsFn(ctx, ids)
}
func (m *mockTagRepo) ListByPostID(ctx context.Context, postID uint64) ([]*entities.Tag, error) {
	return m.listByPostIDFn(ctx, postID)
}

type mockAffinityService struct {
	recomputeAffinityFn func(ctx context.Context, userID uint64) error
	getUserTagIDsFn     func(ctx context.Context, userID uint64) ([]uint64, error)
	clearAffinityFn     func(ctx context.Context, userID uint64) error
}

func (m *mockAffinityService) RecomputeAffinity(ctx context.Context, userID uint64) error {
	return m.recomputeAffinityFn(ctx, userID)
}
func (m *mockAffinityService) GetUserTagIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	return m.getUserTagIDsFn(ctx, userID)
}
func (m *mockAffinityService) ClearAffinity(ctx context.Context, userID uint64) error {
	return m.clearAffinityFn(ctx, userID)
}
