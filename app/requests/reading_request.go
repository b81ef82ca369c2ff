package requests

import (
	"github.com/gin-gonic/gin"
	"github.com/thedevsaddam/govalidator"
)

// StartReadingRequest 开始新的阅读
type StartReadingRequest struct {
	SpreadType string `json:"spread_type"`
	Title      string `json:"title"`
}

// ValidateStartReading 验证开始阅读请求，spread_type 为空时使用三张牌阵
func ValidateStartReading(c *gin.Context) (StartReadingRequest, error) {
	rules := govalidator.MapData{
		"spread_type": []string{"in:three_card"},
		"title":       []string{"max:100"},
	}
	messages := govalidator.MapData{
		"spread_type": []string{
			"in:牌阵类型必须是 three_card",
		},
		"title": []string{
			"max:标题长度不能超过 100 个字符",
		},
	}
	return ValidateRequest[StartReadingRequest](c, rules, messages)
}

// DrawCardRequest 在指定位置抽牌
type DrawCardRequest struct {
	Position string `json:"position"`
}

// ValidateDrawCard 验证抽牌请求
func ValidateDrawCard(c *gin.Context) (DrawCardRequest, error) {
	rules := govalidator.MapData{
		"position": []string{"required", "in:past,present,future"},
	}
	messages := govalidator.MapData{
		"position": []string{
			"required:位置不能为空",
			"in:位置必须是 past、present 或 future",
		},
	}
	return ValidateRequest[DrawCardRequest](c, rules, messages)
}
