package formatter

import (
	"github.com/alexanderramin/cardcal/internal/domain"
)

var roleLabels = map[domain.Role]string{
	domain.RoleAdmin:      "администратор",
	domain.RoleController: "контролёр",
	domain.RoleUser:       "исполнитель",
}

// RoleBadge renders a role in its own color.
func RoleBadge(r domain.Role) string {
	label, ok := roleLabels[r]
	if !ok {
		label = string(r)
	}
	switch r {
	case domain.RoleAdmin:
		return StylePurple.Render(label)
	case domain.RoleController:
		return StyleBlue.Render(label)
	default:
		return StyleFg.Render(label)
	}
}

// FormatUserList renders users as a table.
func FormatUserList(users []*domain.User) string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			Bold(u.Username),
			RoleBadge(u.Role),
			u.CreatedAt.Local().Format(dateLayout),
			Dim(u.ID),
		})
	}
	return RenderTable([]string{"ИМЯ", "РОЛЬ", "СОЗДАН", "ID"}, rows)
}
