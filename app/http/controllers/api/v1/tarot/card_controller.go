package tarot

import (
	service "tarot-trader/app/services/tarot"
	"tarot-trader/pkg/response"

	"github.com/gin-gonic/gin"
)

// CardController 卡牌目录
type CardController struct {
	catalog *service.Catalog
}

func NewCardController(catalog *service.Catalog) *CardController {
	return &CardController{catalog: catalog}
}

// Index 完整的卡牌目录
// GET /v1/cards
func (cc *CardController) Index(c *gin.Context) {
	cards, err := cc.catalog.ListCards(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	response.Data(c, gin.H{
		"data":  cards,
		"total": len(cards),
	})
}
