// Package service 实现业务逻辑层
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/haierkeys/note-revision-service/internal/domain"
	"github.com/haierkeys/note-revision-service/pkg/code"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// AuthorshipService 定义作者归属业务服务接口
// 匿名身份只暴露数量，用户名列表永远不包含匿名作者
type AuthorshipService interface {
	// ResolveAuthor 解析本次编辑的作者身份，uid 为 0 时创建匿名作者
	ResolveAuthor(ctx context.Context, noteID, uid int64) (domain.Author, error)

	// RevisionAuthors 获取修订版本的全部作者（去重）
	RevisionAuthors(ctx context.Context, revisionID int64) ([]domain.Author, error)

	// RevisionAuthorUsernames 获取修订版本关联用户的用户名列表，匿名作者被丢弃
	RevisionAuthorUsernames(ctx context.Context, revisionID int64) ([]string, error)

	// RevisionAnonymousAuthorCount 获取修订版本的匿名作者数量
	RevisionAnonymousAuthorCount(ctx context.Context, revisionID int64) (int64, error)
}

// authorshipService 实现 AuthorshipService 接口
type authorshipService struct {
	authorRepo domain.AuthorRepository
	sf         *singleflight.Group
}

var _ AuthorshipService = (*authorshipService)(nil)

// NewAuthorshipService 创建 AuthorshipService 实例
func NewAuthorshipService(authorRepo domain.AuthorRepository) AuthorshipService {
	return &authorshipService{
		authorRepo: authorRepo,
		sf:         &singleflight.Group{},
	}
}

// ResolveAuthor 解析本次编辑的作者身份，uid 为 0 时创建匿名作者
func (s *authorshipService) ResolveAuthor(ctx context.Context, noteID, uid int64) (domain.Author, error) {
	author, err := s.authorRepo.GetOrCreate(ctx, noteID, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorEditAuthorNotFound
		}
		return nil, code.ErrorDBQuery.Clone().WithDetails(err.Error())
	}
	return author, nil
}

// RevisionAuthors 获取修订版本的全部作者（去重）
// 并发读取同一修订版本时合并为一次查询
func (s *authorshipService) RevisionAuthors(ctx context.Context, revisionID int64) ([]domain.Author, error) {
	v, err, _ := s.sf.Do(fmt.Sprintf("revision_authors_%d", revisionID), func() (interface{}, error) {
		return s.authorRepo.ListByRevisionID(ctx, revisionID)
	})
	if err != nil {
		return nil, code.ErrorDBQuery.Clone().WithDetails(err.Error())
	}
	return v.([]domain.Author), nil
}

// RevisionAuthorUsernames 获取修订版本关联用户的用户名列表，匿名作者被丢弃
func (s *authorshipService) RevisionAuthorUsernames(ctx context.Context, revisionID int64) ([]string, error) {
	authors, err := s.RevisionAuthors(ctx, revisionID)
	if err != nil {
		return nil, err
	}
	usernames := make([]string, 0, len(authors))
	for _, a := range authors {
		if linked, ok := a.(domain.LinkedAuthor); ok {
			usernames = append(usernames, linked.User.Username)
		}
	}
	return usernames, nil
}

// RevisionAnonymousAuthorCount 获取修订版本的匿名作者数量
func (s *authorshipService) RevisionAnonymousAuthorCount(ctx context.Context, revisionID int64) (int64, error) {
	authors, err := s.RevisionAuthors(ctx, revisionID)
	if err != nil {
		return 0, err
	}
	var count int64
	for _, a := range authors {
		if _, ok := a.(domain.AnonymousAuthor); ok {
			count++
		}
	}
	return count, nil
}
