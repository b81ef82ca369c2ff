// Package interpret 由过去/现在/未来三张牌生成确定性的文字解读
package interpret

import (
	"fmt"
	"strings"

	"tarot-trader/app/models/reading"
)

type clause struct {
	label    string
	upright  string
	reversed string
}

var clauses = map[reading.Position]clause{
	reading.PositionPast: {
		label:    "Past",
		upright:  "This foundation has shaped your current path.",
		reversed: "The reversed position suggests you may have struggled with or avoided these energies in your past.",
	},
	reading.PositionPresent: {
		label:    "Present",
		upright:  "This is where you find yourself now, with these energies actively influencing your life.",
		reversed: "Currently, you may be experiencing blockages or need to approach this differently.",
	},
	reading.PositionFuture: {
		label:    "Future",
		upright:  "This represents the potential outcome if you continue on your current path.",
		reversed: "Be mindful of potential challenges or the need to transform your approach to achieve this outcome.",
	},
}

// Synthesize 生成三张牌的解读。纯函数，相同输入总是得到相同输出
func Synthesize(past, present, future reading.DrawnCard) string {
	var b strings.Builder
	b.WriteString("Your three-card reading reveals a powerful narrative:\n\n")

	b.WriteString(paragraph(reading.PositionPast, past))
	b.WriteString("\n\n")
	b.WriteString(paragraph(reading.PositionPresent, present))
	b.WriteString("\n\n")
	b.WriteString(paragraph(reading.PositionFuture, future))
	b.WriteString("\n\n")

	fmt.Fprintf(&b,
		"The cards suggest a journey from %s through %s toward %s. "+
			"Trust in the wisdom these cards offer and consider how their messages resonate with your current life situation.",
		strings.ToLower(past.Name), strings.ToLower(present.Name), strings.ToLower(future.Name))

	return b.String()
}

// ForCards 按位置取出三张牌后生成解读，位置不全时返回 false
func ForCards(cards reading.DrawnCards) (string, bool) {
	if len(cards) != reading.CardCount {
		return "", false
	}
	past, ok1 := cards.At(reading.PositionPast)
	present, ok2 := cards.At(reading.PositionPresent)
	future, ok3 := cards.At(reading.PositionFuture)
	if !ok1 || !ok2 || !ok3 {
		return "", false
	}
	return Synthesize(past, present, future), true
}

func paragraph(position reading.Position, c reading.DrawnCard) string {
	cl := clauses[position]

	title := c.Name
	detail := cl.upright
	if c.Reversed {
		title += " - Reversed"
		detail = cl.reversed
	}

	return fmt.Sprintf("**%s (%s)**: %s %s", cl.label, title, c.Meaning, detail)
}
