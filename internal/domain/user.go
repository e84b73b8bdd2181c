package domain

import "context"

// User 持久化的用户记录；Password 只保存哈希
type User struct {
	ID        string `gorm:"primaryKey;size:36" json:"-"`
	Nickname  string `gorm:"uniqueIndex:idx_users_nickname;size:64;not null" json:"nickname"`
	FirstName string `gorm:"size:128" json:"firstName"`
	LastName  string `gorm:"size:128" json:"lastName"`
	Password  string `gorm:"size:100" json:"-"`
	Email     string `gorm:"uniqueIndex:idx_users_email;size:191;not null" json:"email"`
	Country   string `gorm:"size:2" json:"country"`
}

func (User) TableName() string { return "users" }

// UserView 对外传输的用户表示；读路径上 Password 始终为空
type UserView struct {
	Nickname  string `json:"nickname,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Password  string `json:"password,omitempty"`
	Email     string `json:"email,omitempty"`
	Country   string `json:"country,omitempty"`
}

// View 转换为不含密码的视图
func (u *User) View() UserView {
	return UserView{
		Nickname:  u.Nickname,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Country:   u.Country,
	}
}

const (
	DefaultOffset = 0
	DefaultLimit  = 100
)

// Filter 列表查询条件；nil 字段表示不约束
type Filter struct {
	Nickname  *string
	FirstName *string
	LastName  *string
	Email     *string
	Country   *string
	Offset    int
	Limit     int
}

// UserRepository 用户存储网关
type UserRepository interface {
	// FindByNickname 不存在时返回 (nil, nil)
	FindByNickname(ctx context.Context, nickname string) (*User, error)
	Find(ctx context.Context, q Query, skip, limit int) ([]User, error)
	Count(ctx context.Context, q Query) (int64, error)
	// Save 按 ID upsert；ID 为空时由存储分配
	Save(ctx context.Context, u *User) error
	DeleteByID(ctx context.Context, id string) error
}
