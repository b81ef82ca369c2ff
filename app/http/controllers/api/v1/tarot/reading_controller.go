// Package tarot 塔罗牌阅读相关接口
package tarot

import (
	"tarot-trader/app/http/middlewares"
	"tarot-trader/app/models/reading"
	"tarot-trader/app/requests"
	service "tarot-trader/app/services/tarot"
	"tarot-trader/pkg/response"

	"github.com/gin-gonic/gin"
)

// ReadingController 阅读会话接口，所有方法需要 AuthJWT
type ReadingController struct {
	manager *service.Manager
}

func NewReadingController(manager *service.Manager) *ReadingController {
	return &ReadingController{manager: manager}
}

// session 取出当前用户的会话，首次访问时从存储加载
func (rc *ReadingController) session(c *gin.Context) (*service.Session, bool) {
	identity, ok := middlewares.CurrentIdentity(c)
	if !ok {
		response.Abort401(c)
		return nil, false
	}

	s, err := rc.manager.Identify(c.Request.Context(), identity)
	if err != nil {
		abortWithError(c, err)
		return nil, false
	}
	return s, true
}

// Index 会话状态：当前阅读、历史与视图
// GET /v1/readings
func (rc *ReadingController) Index(c *gin.Context) {
	s, ok := rc.session(c)
	if !ok {
		return
	}
	response.Data(c, s.State())
}

// Store 开始新的阅读
// POST /v1/readings
func (rc *ReadingController) Store(c *gin.Context) {
	request, err := requests.ValidateStartReading(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	s, ok := rc.session(c)
	if !ok {
		return
	}

	r, err := s.StartNewReading(c.Request.Context(), request.SpreadType, request.Title)
	if err != nil {
		abortWithError(c, err)
		return
	}
	response.Created(c, r, "已开始新的阅读")
}

// Reload 从存储重新加载
// POST /v1/readings/reload
func (rc *ReadingController) Reload(c *gin.Context) {
	s, ok := rc.session(c)
	if !ok {
		return
	}

	state, err := s.Reload(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	response.Data(c, state)
}

// Current 当前进行中的阅读
// GET /v1/readings/current
func (rc *ReadingController) Current(c *gin.Context) {
	s, ok := rc.session(c)
	if !ok {
		return
	}

	state := s.State()
	if state.Current == nil {
		response.Abort404(c, "没有进行中的阅读")
		return
	}
	response.Data(c, state.Current)
}

// Continue 重新打开当前阅读
// POST /v1/readings/current/continue
func (rc *ReadingController) Continue(c *gin.Context) {
	s, ok := rc.session(c)
	if !ok {
		return
	}

	r, found := s.ContinueReading()
	if !found {
		response.Abort404(c, "没有进行中的阅读")
		return
	}
	response.Data(c, r)
}

// Draw 在指定位置抽一张牌
// POST /v1/readings/current/draws
func (rc *ReadingController) Draw(c *gin.Context) {
	request, err := requests.ValidateDrawCard(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	s, ok := rc.session(c)
	if !ok {
		return
	}

	r, err := s.DrawCard(c.Request.Context(), reading.Position(request.Position))
	if err != nil {
		abortWithError(c, err)
		return
	}
	response.Data(c, r)
}

// Complete 立即完成当前阅读
// POST /v1/readings/current/complete
func (rc *ReadingController) Complete(c *gin.Context) {
	s, ok := rc.session(c)
	if !ok {
		return
	}

	r, err := s.CompleteReading(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	response.Data(c, r)
}

// CloseView 关闭视图
// POST /v1/readings/view/close
func (rc *ReadingController) CloseView(c *gin.Context) {
	s, ok := rc.session(c)
	if !ok {
		return
	}

	s.CloseView()
	response.Data(c, s.State())
}

// Show 打开一条阅读
// GET /v1/readings/:id
func (rc *ReadingController) Show(c *gin.Context) {
	s, ok := rc.session(c)
	if !ok {
		return
	}

	r, err := s.OpenReading(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	response.Data(c, r)
}

// Destroy 删除一条阅读
// DELETE /v1/readings/:id
func (rc *ReadingController) Destroy(c *gin.Context) {
	s, ok := rc.session(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := s.DeleteReading(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	response.Data(c, gin.H{
		"id":      id,
		"deleted": true,
	})
}

// SignOut 结束当前用户的会话，进行中的存储调用结果会被丢弃
// DELETE /v1/session
func (rc *ReadingController) SignOut(c *gin.Context) {
	identity, ok := middlewares.CurrentIdentity(c)
	if !ok {
		response.Abort401(c)
		return
	}

	rc.manager.SignOut(identity.ID)
	response.Data(c, gin.H{"signed_out": true})
}
