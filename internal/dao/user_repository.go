// Package dao 实现数据访问层
package dao

import (
	"context"

	"github.com/haierkeys/note-revision-service/internal/domain"
	"github.com/haierkeys/note-revision-service/internal/model"
	"github.com/haierkeys/note-revision-service/pkg/convert"
	"github.com/haierkeys/note-revision-service/pkg/timex"
)

// userRepository 实现 domain.UserRepository 接口
type userRepository struct {
	dao *Dao
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(dao *Dao) domain.UserRepository {
	return &userRepository{dao: dao}
}

var _ domain.UserRepository = (*userRepository)(nil)

func (r *userRepository) toDomain(m *model.User) *domain.User {
	if m == nil {
		return nil
	}
	return convert.StructAssign(m, &domain.User{}).(*domain.User)
}

// GetByUID 根据UID获取用户
func (r *userRepository) GetByUID(ctx context.Context, uid int64) (*domain.User, error) {
	var m model.User
	err := r.dao.db.WithContext(ctx).Where("uid = ?", uid).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// GetByUsername 根据用户名获取用户
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var m model.User
	err := r.dao.db.WithContext(ctx).Where("username = ?", username).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// ListByUIDs 根据UID集合批量获取用户
func (r *userRepository) ListByUIDs(ctx context.Context, uids []int64) ([]*domain.User, error) {
	if len(uids) == 0 {
		return nil, nil
	}
	var ms []*model.User
	err := r.dao.db.WithContext(ctx).Where("uid IN ?", uids).Find(&ms).Error
	if err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(ms))
	for _, m := range ms {
		users = append(users, r.toDomain(m))
	}
	return users, nil
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m := &model.User{
		UID:       user.UID,
		Username:  user.Username,
		CreatedAt: timex.Now(),
	}
	if err := r.dao.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}
