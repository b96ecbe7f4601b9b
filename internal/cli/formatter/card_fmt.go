package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/cardcal/internal/calendar"
	"github.com/alexanderramin/cardcal/internal/domain"
)

// summaryWidth caps the summary column of card lists.
const summaryWidth = 40

// FormatCardList renders cards as a table with a colored deadline column.
func FormatCardList(cards []*domain.ControlCard, today calendar.Date) string {
	headers := []string{"НОМЕР", "ИСПОЛНИТЕЛЬ", "СОДЕРЖАНИЕ", "СРОК", "", "ID"}
	rows := make([][]string, 0, len(cards))
	for _, c := range cards {
		status := StatusOf(c, today)
		deadline := FormatDate(c.EffectiveDeadline())
		if dl := c.EffectiveDeadline(); dl != nil {
			deadline += " " + Dim("("+RelativeDay(calendar.DateOf(*dl), today)+")")
		}
		rows = append(rows, []string{
			Bold(c.DisplayNumber()),
			c.Executor,
			Truncate(c.Summary, summaryWidth),
			StatusStyle(status).Render(deadline),
			StatusIndicator(status),
			Dim(TruncID(c.ID)),
		})
	}
	return RenderTable(headers, rows)
}

// FormatCard renders every field of one card inside a box.
func FormatCard(c *domain.ControlCard, today calendar.Date) string {
	period := "—"
	if c.ExecutionPeriodType != nil {
		period = domain.PeriodLabels[*c.ExecutionPeriodType]
	}

	fields := [][2]string{
		{"Исполнитель", c.Executor},
		{"Докладчик", c.Reporter},
		{"Содержание", c.Summary},
		{"Документ", orDash(c.DocumentReference)},
		{"Выдана", c.IssuedOn.Format(dateLayout)},
		{"Вернуть в", Opt(c.ReturnTo)},
		{"Срок исполнения", FormatDate(c.ExecutionDeadline)},
		{"Периодичность", period},
		{"Продлено до", FormatDate(c.ExtendedDeadline)},
		{"Резолюция", Opt(c.Resolution)},
		{"Подразделение", Opt(c.Department)},
		{"Контролёр", Opt(c.Controller)},
	}

	labelWidth := 0
	for _, f := range fields {
		labelWidth = max(labelWidth, len([]rune(f[0])))
	}

	var b strings.Builder
	b.WriteString(StatusIndicator(StatusOf(c, today)))
	b.WriteString("\n\n")
	for _, f := range fields {
		pad := strings.Repeat(" ", labelWidth-len([]rune(f[0])))
		fmt.Fprintf(&b, "%s%s  %s\n", Dim(f[0]), pad, f[1])
	}
	b.WriteString("\n" + Dim("ID "+c.ID))

	return RenderBox("Карточка "+c.DisplayNumber(), b.String())
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
