package user

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"user-service/internal/core/cache"
	"user-service/internal/core/logger"
	"user-service/internal/domain"
	"user-service/pkg/utils"
)

type Hasher interface {
	Hash(plain string) (string, error)
}

type Notifier interface {
	// Publish 只在序列化失败时返回错误
	Publish(ctx context.Context, v domain.UserView) error
}

type Service struct {
	repo   domain.UserRepository
	cache  cache.Store[domain.UserView]
	notify Notifier
	hasher Hasher
	log    *zap.Logger
}

func NewService(repo domain.UserRepository, c cache.Store[domain.UserView], n Notifier, h Hasher, l *zap.Logger) *Service {
	if c == nil {
		c = cache.Noop[domain.UserView]{}
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{repo: repo, cache: c, notify: n, hasher: h, log: l}
}

// Create 先查重再写入；并发下查重不是原子的，唯一索引兜底
func (s *Service) Create(ctx context.Context, in domain.UserView) (string, error) {
	existing, err := s.repo.FindByNickname(ctx, in.Nickname)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", domain.AlreadyExists(in.Nickname)
	}

	hashed, err := s.hash(in.Password)
	if err != nil {
		return "", err
	}
	u := &domain.User{
		Nickname:  in.Nickname,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  hashed,
		Email:     in.Email,
		Country:   in.Country,
	}
	if err := s.repo.Save(ctx, u); err != nil {
		return "", s.conflict(ctx, u, err)
	}
	logger.FromContext(ctx, s.log).Info("user created", zap.String("nickname", u.Nickname))
	return u.Nickname, nil
}

func (s *Service) GetByNickname(ctx context.Context, nickname string) (*domain.UserView, error) {
	return s.cache.GetOrLoad(ctx, nickname, func(ctx context.Context) (*domain.UserView, error) {
		u, err := s.repo.FindByNickname(ctx, nickname)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, domain.NotFound(nickname)
		}
		v := u.View()
		return &v, nil
	})
}

func (s *Service) List(ctx context.Context, f domain.Filter) (domain.Page[domain.UserView], error) {
	page, err := Paginate(ctx, s.repo, BuildQuery(f), f.Offset, f.Limit)
	if err != nil {
		return domain.Page[domain.UserView]{}, err
	}
	return domain.MapPage(page, func(u domain.User) domain.UserView { return u.View() }), nil
}

// Update 昵称不存在时静默返回：不写库、不清缓存、不通知
func (s *Service) Update(ctx context.Context, nickname string, in domain.UserView) error {
	u, err := s.repo.FindByNickname(ctx, nickname)
	if err != nil {
		return err
	}
	if u == nil {
		return nil
	}

	merge(u, in)
	if in.Password != "" {
		if u.Password, err = s.hash(in.Password); err != nil {
			return err
		}
	}
	if err := s.repo.Save(ctx, u); err != nil {
		return s.conflict(ctx, u, err)
	}

	s.evict(ctx, nickname)
	if u.Nickname != nickname {
		s.evict(ctx, u.Nickname)
	}
	return s.notify.Publish(ctx, u.View())
}

// Delete 昵称不存在时静默返回
func (s *Service) Delete(ctx context.Context, nickname string) error {
	u, err := s.repo.FindByNickname(ctx, nickname)
	if err != nil {
		return err
	}
	if u != nil {
		if err := s.repo.DeleteByID(ctx, u.ID); err != nil {
			return err
		}
		s.evict(ctx, nickname)
	}
	logger.FromContext(ctx, s.log).Info("user " + nickname + " deleted!")
	return nil
}

// hash 超长密码按字段校验失败处理
func (s *Service) hash(plain string) (string, error) {
	h, err := s.hasher.Hash(plain)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		return "", domain.Validation(map[string]string{"password": passwordTooLong})
	}
	return h, err
}

const passwordTooLong = "password must not exceed 72 bytes"

// 缓存只做加速，清除失败不影响主流程
func (s *Service) evict(ctx context.Context, nickname string) {
	if err := s.cache.Evict(ctx, nickname); err != nil {
		logger.FromContext(ctx, s.log).Warn("cache evict failed", zap.String("nickname", nickname), zap.Error(err))
	}
}

// conflict 把唯一索引冲突映射为 AlreadyExists，区分昵称与邮箱
func (s *Service) conflict(ctx context.Context, u *domain.User, err error) error {
	if !errors.Is(err, domain.ErrDuplicateKey) {
		return err
	}
	owner, ferr := s.repo.FindByNickname(ctx, u.Nickname)
	if ferr == nil && owner != nil && owner.ID != u.ID {
		return domain.AlreadyExists(u.Nickname)
	}
	return domain.EmailAlreadyExists(u.Email, err)
}

// merge 只覆盖请求中给出的字段，ID 与密码哈希由调用方处理
func merge(u *domain.User, in domain.UserView) {
	if in.Nickname != "" {
		u.Nickname = in.Nickname
	}
	if in.FirstName != "" {
		u.FirstName = in.FirstName
	}
	if in.LastName != "" {
		u.LastName = in.LastName
	}
	if in.Email != "" {
		u.Email = in.Email
	}
	if in.Country != "" {
		u.Country = in.Country
	}
}
