package service

import (
	"context"
	"time"

	"github.com/user/filmes/internal/utils"
)

// ReferenceStore 类型与语言查询
type ReferenceStore interface {
	GenreExists(ctx context.Context, id int) (bool, error)
	LanguageExists(ctx context.Context, id int) (bool, error)
}

type refKind uint8

const (
	refGenre refKind = iota + 1
	refLanguage
)

type refKey struct {
	kind refKind
	id   int
}

// ReferenceChecker 带缓存的类型/语言存在性检查
// 只缓存存在的结果
type ReferenceChecker struct {
	store ReferenceStore
	cache *utils.TTLCache[refKey, bool]
}

// NewReferenceChecker 创建检查器
func NewReferenceChecker(store ReferenceStore, size int, ttl time.Duration) (*ReferenceChecker, error) {
	c, err := utils.NewTTLCache[refKey, bool](size, ttl)
	if err != nil {
		return nil, err
	}
	return &ReferenceChecker{store: store, cache: c}, nil
}

// GenreExists 类型是否存在
func (r *ReferenceChecker) GenreExists(ctx context.Context, id int) (bool, error) {
	return r.check(ctx, refKey{kind: refGenre, id: id}, r.store.GenreExists)
}

// LanguageExists 语言是否存在
func (r *ReferenceChecker) LanguageExists(ctx context.Context, id int) (bool, error) {
	return r.check(ctx, refKey{kind: refLanguage, id: id}, r.store.LanguageExists)
}

func (r *ReferenceChecker) check(ctx context.Context, key refKey, lookup func(context.Context, int) (bool, error)) (bool, error) {
	if _, ok := r.cache.Get(key); ok {
		return true, nil
	}

	exists, err := lookup(ctx, key.id)
	if err != nil {
		return false, err
	}
	if exists {
		r.cache.Set(key, true)
	}
	return exists, nil
}
