package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"user-service/internal/domain"
	"user-service/pkg/utils"
)

// 逻辑字段名 → 列名
var columns = map[string]string{
	"nickname":  "nickname",
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
	"country":   "country",
}

type UserRepo struct{ db *gorm.DB }

var _ domain.UserRepository = (*UserRepo)(nil)

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&domain.User{})
}

func (r *UserRepo) FindByNickname(ctx context.Context, nickname string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where("nickname = ?", nickname).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", nickname, err)
	}
	return &u, nil
}

func (r *UserRepo) scoped(ctx context.Context, q domain.Query) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Model(&domain.User{})
	for _, p := range q.Predicates() {
		col, ok := columns[p.Field]
		if !ok {
			return nil, fmt.Errorf("unknown filter field %q", p.Field)
		}
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: col}, Value: p.Value})
	}
	return tx, nil
}

// Find 按 ID（时间有序）升序返回窗口内记录
func (r *UserRepo) Find(ctx context.Context, q domain.Query, skip, limit int) ([]domain.User, error) {
	tx, err := r.scoped(ctx, q)
	if err != nil {
		return nil, err
	}
	var users []domain.User
	err = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}}).
		Offset(skip).Limit(limit).Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *UserRepo) Count(ctx context.Context, q domain.Query) (int64, error) {
	tx, err := r.scoped(ctx, q)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}

func (r *UserRepo) Save(ctx context.Context, u *domain.User) error {
	db := r.db.WithContext(ctx)
	var err error
	if u.ID == "" {
		u.ID = utils.NewID()
		if err = db.Create(u).Error; err != nil {
			u.ID = ""
		}
	} else {
		err = db.Save(u).Error
	}
	if err != nil {
		if isDupKey(err) {
			return fmt.Errorf("save user %s: %w", u.Nickname, errors.Join(domain.ErrDuplicateKey, err))
		}
		return fmt.Errorf("save user %s: %w", u.Nickname, err)
	}
	return nil
}

func (r *UserRepo) DeleteByID(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{}).Error; err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	return nil
}

func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 未注册 ErrorTranslator 的方言兜底
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
