package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/Xushengqwer/content_service/myErrors"
)

func TestRankTagsByFrequency(t *testing.T) {
	tests := []struct {
		name      string
		frequency map[uint64]int
		limit     int
		want      []uint64
	}{
		{
			name:      "按出现次数降序",
			frequency: map[uint64]int{1: 2, 2: 5, 3: 3},
			limit:     10,
			want:      []uint64{2, 3, 1},
		},
		{
			name:      "次数相同时按标签ID升序",
			frequency: map[uint64]int{7: 2, 3: 2, 5: 2, 1: 4},
			limit:     10,
			want:      []uint64{1, 3, 5, 7},
		},
		{
			name:      "超出上限被截断",
			frequency: map[uint64]int{1: 1, 2: 2, 3: 3, 4: 4},
			limit:     2,
			want:      []uint64{4, 3},
		},
		{
			name:      "空输入返回空切片",
			frequency: map[uint64]int{},
			limit:     10,
			want:      []uint64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rankTagsByFrequency(tt.frequency, tt.limit)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("rankTagsByFrequency() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecomputeAffinity_NoLikesIsNoOp(t *testing.T) {
	replaceCalled := false

	likeRepo := &mockLikeRepo{
		listPostIDsByUserFn: func(ctx context.Context, userID uint64) ([]uint64, error) {
			return nil, nil
		},
	}
	userTagRepo := &mockUserTagRepo{
		replaceForUserFn: func(ctx context.Context, userID uint64, tagIDs []uint64) error {
			replaceCalled = true
			return nil
		},
	}

	svc := NewAffinityService(likeRepo, &mockPostTagRepo{}, userTagRepo, &mockUserTagCache{}, newTestLogger(t))
	if err := svc.RecomputeAffinity(context.Background(), 42); err != nil {
		t.Fatalf("RecomputeAffinity() error = %v", err)
	}
	if replaceCalled {
		t.Error("没有点赞记录时不应该替换已有的偏好标签")
	}
}

func TestRecomputeAffinity_ReplacesAndInvalidatesCache(t *testing.T) {
	var gotTagIDs []uint64
	invalidated := false

	likeRepo := &mockLikeRepo{
		listPostIDsByUserFn: func(ctx context.Context, userID uint64) ([]uint64, error) {
			return []uint64{10, 11, 12}, nil
		},
	}
	postTagRepo := &mockPostTagRepo{
		getTagIDsByPostIDsFn: func(ctx context.Context, postIDs []uint64) (map[uint64][]uint64, error) {
			// 标签 2 出现 3 次，标签 5 出现 2 次，标签 9 出现 1 次
			return map[uint64][]uint64{
				10: {2, 5},
				11: {2, 9},
				12: {2, 5},
			}, nil
		},
	}
	userTagRepo := &mockUserTagRepo{
		replaceForUserFn: func(ctx context.Context, userID uint64, tagIDs []uint64) error {
			gotTagIDs = tagIDs
			return nil
		},
	}
	cache := &mockUserTagCache{
		invalidateFn: func(ctx context.Context, userID uint64) error {
			invalidated = true
			return nil
		},
	}

	svc := NewAffinityService(likeRepo, postTagRepo, userTagRepo, cache, newTestLogger(t))
	if err := svc.RecomputeAffinity(context.Background(), 42); err != nil {
		t.Fatalf("RecomputeAffinity() error = %v", err)
	}

	want := []uint64{2, 5, 9}
	if !reflect.DeepEqual(gotTagIDs, want) {
		t.Errorf("ReplaceForUser 收到 %v, want %v", gotTagIDs, want)
	}
	if !invalidated {
		t.Error("重算完成后应该使缓存失效")
	}
}

func TestRecomputeAffinity_CacheInvalidateFailureIsSwallowed(t *testing.T) {
	likeRepo := &mockLikeRepo{
		listPostIDsByUserFn: func(ctx context.Context, userID uint64) ([]uint64, error) {
			return []uint64{10}, nil
		},
	}
	postTagRepo := &mockPostTagRepo{
		getTagIDsByPostIDsFn: func(ctx context.Context, postIDs []uint64) (map[uint64][]uint64, error) {
			return map[uint64][]uint64{10: {1}}, nil
		},
	}
	userTagRepo := &mockUserTagRepo{
		replaceForUserFn: func(ctx context.Context, userID uint64, tagIDs []uint64) error {
			return nil
		},
	}
	cache := &mockUserTagCache{
		invalidateFn: func(ctx context.Context, userID uint64) error {
			return errors.New("redis down")
		},
	}

	svc := NewAffinityService(likeRepo, postTagRepo, userTagRepo, cache, newTestLogger(t))
	if err := svc.RecomputeAffinity(context.Background(), 42); err != nil {
		t.Errorf("缓存失效失败不应导致重算整体失败, got %v", err)
	}
}

func TestClearAffinity_EmptiesTagsAndInvalidatesCache(t *testing.T) {
	replaced := false
	userTagRepo := &mockUserTagRepo{
		replaceForUserFn: func(ctx context.Context, userID uint64, tagIDs []uint64) error {
			if len(tagIDs) != 0 {
				t.Errorf("清空时应该传入空标签集合, got %v", tagIDs)
			}
			replaced = true
			return nil
		},
	}
	invalidated := false
	cache := &mockUserTagCache{
		invalidateFn: func(ctx context.Context, userID uint64) error {
			invalidated = true
			return nil
		},
	}

	svc := NewAffinityService(&mockLikeRepo{}, &mockPostTagRepo{}, userTagRepo, cache, newTestLogger(t))
	if err := svc.ClearAffinity(context.Background(), 42); err != nil {
		t.Fatalf("ClearAffinity() error = %v", err)
	}
	if !replaced || !invalidated {
		t.Errorf("清空与缓存失效都应该发生, replaced=%v invalidated=%v", replaced, invalidated)
	}
}

func TestGetUserTagIDs_CacheHit(t *testing.T) {
	cache := &mockUserTagCache{
		getTagIDsFn: func(ctx context.Context, userID uint64) ([]uint64, error) {
			return []uint64{3, 1, 2}, nil
		},
	}
	userTagRepo := &mockUserTagRepo{
		getTagIDsByUserIDFn: func(ctx context.Context, userID uint64) ([]uint64, error) {
			t.Error("缓存命中时不应该回源 MySQL")
			return nil, nil
		},
	}

	svc := NewAffinityService(&mockLikeRepo{}, &mockPostTagRepo{}, userTagRepo, cache, newTestLogger(t))
	got, err := svc.GetUserTagIDs(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetUserTagIDs() error = %v", err)
	}
	if want := []uint64{3, 1, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("GetUserTagIDs() = %v, want %v", got, want)
	}
}

func TestGetUserTagIDs_CacheMissBackfills(t *testing.T) {
	var backfilled []uint64

	cache := &mockUserTagCache{
		getTagIDsFn: func(ctx context.Context, userID uint64) ([]uint64, error) {
			return nil, myErrors.ErrCacheMiss
		},
		setTagIDsFn: func(ctx context.Context, userID uint64, tagIDs []uint64) error {
			backfilled = tagIDs
			return nil
		},
	}
	userTagRepo := &mockUserTagRepo{
		getTagIDsByUserIDFn: func(ctx context.Context, userID uint64) ([]uint64, error) {
			return []uint64{7, 8}, nil
		},
	}

	svc := NewAffinityService(&mockLikeRepo{}, &mockPostTagRepo{}, userTagRepo, cache, newTestLogger(t))
	got, err := svc.GetUserTagIDs(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetUserTagIDs() error = %v", err)
	}
	if want := []uint64{7, 8}; !reflect.DeepEqual(got, want) {
		t.Errorf("GetUserTagIDs() = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(backfilled, []uint64{7, 8}) {
		t.Errorf("缓存未命中后应该回填, got %v", backfilled)
	}
}

func TestGetUserTagIDs_CacheErrorDegradesToDB(t *testing.T) {
	cache := &mockUserTagCache{
		getTagIDsFn: func(ctx context.Context, userID uint64) ([]uint64, error) {
			return nil, errors.New("redis connection refused")
		},
		setTagIDsFn: func(ctx context.Context, userID uint64, tagIDs []uint64) error {
			return errors.New("redis connection refused")
		},
	}
	userTagRepo := &mockUserTagRepo{
		getTagIDsByUserIDFn: func(ctx context.Context, userID uint64) ([]uint64, error) {
			return []uint64{5}, nil
		},
	}

	svc := NewAffinityService(&mockLikeRepo{}, &mockPostTagRepo{}, userTagRepo, cache, newTestLogger(t))
	got, err := svc.GetUserTagIDs(context.Background(), 42)
	if err != nil {
		t.Fatalf("Redis 故障时读取应该降级回源而不是报错, got %v", err)
	}
	if want := []uint64{5}; !reflect.DeepEqual(got, want) {
		t.Errorf("GetUserTagIDs() = %v, want %v", got, want)
	}
}
