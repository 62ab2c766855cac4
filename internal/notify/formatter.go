package notify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zvitly/gradewatch-backend/internal/model"
)

// FormatGradeMessage renders a grade event as the Telegram message sent to
// every recipient. Deterministic and pure.
//
// The grade clause is chosen in strict priority order:
//  1. new value empty  → the grade was removed
//  2. old value present and different → "was OLD → now NEW"
//  3. otherwise → just the new value
func FormatGradeMessage(e *model.GradeEvent) string {
	var b strings.Builder

	b.WriteString("📚 *Нова оцінка!*\n")

	subject := e.Subject
	if subject == "" {
		subject = "Невідомий предмет"
	}
	fmt.Fprintf(&b, "\n📖 Предмет: *%s*", subject)

	if e.LessonDate != nil && *e.LessonDate != "" {
		fmt.Fprintf(&b, "\n📅 Дата: %s", *e.LessonDate)
	}
	if e.LessonType != nil && *e.LessonType != "" {
		fmt.Fprintf(&b, "\n📝 Тип заняття: %s", *e.LessonType)
	}

	oldValue := trimmed(e.OldValue)
	newValue := trimmed(e.NewValue)

	switch {
	case newValue == "":
		b.WriteString("\n\n❌ Оцінку видалено")
	case oldValue != "" && oldValue != newValue:
		fmt.Fprintf(&b, "\n\n%s Було: *%s* → Стало: *%s*", gradeEmoji(newValue), oldValue, newValue)
	default:
		fmt.Fprintf(&b, "\n\n%s Оцінка: *%s*", gradeEmoji(newValue), newValue)
	}

	return b.String()
}

// gradeEmoji picks an emoji for a grade value. Non-numeric marks
// ("н/а", "+" etc) get a neutral pin.
func gradeEmoji(grade string) string {
	if grade == "" {
		return "❓"
	}
	n, err := strconv.Atoi(grade)
	if err != nil {
		return "📌"
	}
	switch {
	case n >= 10:
		return "🌟"
	case n >= 8:
		return "✅"
	case n >= 6:
		return "📊"
	default:
		return "⚠️"
	}
}

func trimmed(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}
