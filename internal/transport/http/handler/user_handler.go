package handler

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"user-service/internal/domain"
	"user-service/internal/transport/http/response"
)

// UserService 处理器依赖的用户用例
type UserService interface {
	Create(ctx context.Context, in domain.UserView) (string, error)
	GetByNickname(ctx context.Context, nickname string) (*domain.UserView, error)
	List(ctx context.Context, f domain.Filter) (domain.Page[domain.UserView], error)
	Update(ctx context.Context, nickname string, in domain.UserView) error
	Delete(ctx context.Context, nickname string) error
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	setupValidator()
	return &UserHandler{svc: svc}
}

// MountAPI 挂载 /users 路由
func (h *UserHandler) MountAPI(g *gin.RouterGroup) {
	users := g.Group("/users")
	users.POST("", h.Create)
	users.GET("", h.List)
	users.GET("/:nickname", h.Get)
	users.PUT("/:nickname", h.Update)
	users.DELETE("/:nickname", h.Delete)
}

func (h *UserHandler) Priority() int { return 10 }

type createRequest struct {
	Nickname  string `json:"nickname"  binding:"notblank"`
	FirstName string `json:"firstName" binding:"notblank"`
	LastName  string `json:"lastName"  binding:"notblank"`
	Password  string `json:"password"  binding:"notblank,max=72"`
	Email     string `json:"email"     binding:"required,email"`
	Country   string `json:"country"   binding:"omitempty,len=2"`
}

func (r createRequest) view() domain.UserView {
	return domain.UserView(r)
}

// updateRequest 字段均可省略，给出时与创建同样校验格式
type updateRequest struct {
	Nickname  string `json:"nickname"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"  binding:"omitempty,max=72"`
	Email     string `json:"email"     binding:"omitempty,email"`
	Country   string `json:"country"   binding:"omitempty,len=2"`
}

func (r updateRequest) view() domain.UserView {
	return domain.UserView(r)
}

type listQuery struct {
	Nickname  *string `form:"nickname"`
	FirstName *string `form:"firstName"`
	LastName  *string `form:"lastName"`
	Email     *string `form:"email"`
	Country   *string `form:"country"`
	Offset    int     `form:"offset,default=0" binding:"gte=0"`
	Limit     int     `form:"limit,default=100" binding:"gt=0"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var in createRequest
	if !bind(c, c.ShouldBindJSON(&in)) {
		return
	}
	nick, err := h.svc.Create(c.Request.Context(), in.view())
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.Header("Location", "/v1/users/"+url.PathEscape(nick))
	c.Status(http.StatusCreated)
}

func (h *UserHandler) Get(c *gin.Context) {
	v, err := h.svc.GetByNickname(c.Request.Context(), c.Param("nickname"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *UserHandler) List(c *gin.Context) {
	q := listQuery{Offset: domain.DefaultOffset, Limit: domain.DefaultLimit}
	if !bind(c, c.ShouldBindQuery(&q)) {
		return
	}
	// 跳过条数 offset*limit 不能溢出
	if q.Offset > math.MaxInt/q.Limit {
		response.Fail(c, domain.Validation(map[string]string{"offset": "offset*limit is out of range"}))
		return
	}
	page, err := h.svc.List(c.Request.Context(), domain.Filter{
		Nickname:  q.Nickname,
		FirstName: q.FirstName,
		LastName:  q.LastName,
		Email:     q.Email,
		Country:   q.Country,
		Offset:    q.Offset,
		Limit:     q.Limit,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newPageBody(page))
}

// Update 昵称不存在时同样返回 204
func (h *UserHandler) Update(c *gin.Context) {
	var in updateRequest
	if !bind(c, c.ShouldBindJSON(&in)) {
		return
	}
	if err := h.svc.Update(c.Request.Context(), c.Param("nickname"), in.view()); err != nil {
		response.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("nickname")); err != nil {
		response.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// bind 绑定失败时写出 400（请求体超限为 413），返回是否继续
func bind(c *gin.Context, err error) bool {
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Abort(c, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}
	response.Fail(c, bindError(err))
	return false
}
