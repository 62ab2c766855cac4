package notify

import (
	"strings"
	"testing"

	"github.com/zvitly/gradewatch-backend/internal/model"
)

func strptr(s string) *string { return &s }

func TestFormatGradeMessage_RemovedClause(t *testing.T) {
	cases := []struct {
		name string
		old  *string
		new  *string
	}{
		{"nil new value", strptr("7"), nil},
		{"empty new value", strptr("7"), strptr("")},
		{"whitespace new value", strptr("7"), strptr("   ")},
		{"both empty", nil, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := FormatGradeMessage(&model.GradeEvent{
				Subject:  "Математика",
				OldValue: tc.old,
				NewValue: tc.new,
			})
			if !strings.Contains(msg, "Оцінку видалено") {
				t.Errorf("expected removed clause, got:\n%s", msg)
			}
			if strings.Contains(msg, "Було:") || strings.Contains(msg, "Оцінка:") {
				t.Errorf("removed clause must exclude change/value clauses, got:\n%s", msg)
			}
		})
	}
}

func TestFormatGradeMessage_ChangedClause(t *testing.T) {
	msg := FormatGradeMessage(&model.GradeEvent{
		Subject:  "Математика",
		OldValue: strptr("7"),
		NewValue: strptr("9"),
	})
	if !strings.Contains(msg, "Було: *7*") || !strings.Contains(msg, "Стало: *9*") {
		t.Errorf("expected transition clause with both values, got:\n%s", msg)
	}
	if strings.Contains(msg, "видалено") {
		t.Errorf("changed clause must exclude removed clause, got:\n%s", msg)
	}
}

func TestFormatGradeMessage_ValueClause(t *testing.T) {
	cases := []struct {
		name string
		old  *string
	}{
		{"no old value", nil},
		{"empty old value", strptr("")},
		{"equal old value", strptr("9")},
		{"equal after trimming", strptr(" 9 ")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := FormatGradeMessage(&model.GradeEvent{
				Subject:  "Фізика",
				OldValue: tc.old,
				NewValue: strptr("9"),
			})
			if !strings.Contains(msg, "Оцінка: *9*") {
				t.Errorf("expected plain value clause, got:\n%s", msg)
			}
			if strings.Contains(msg, "Було:") || strings.Contains(msg, "видалено") {
				t.Errorf("value clause must exclude change/removed clauses, got:\n%s", msg)
			}
		})
	}
}

func TestFormatGradeMessage_OptionalLines(t *testing.T) {
	msg := FormatGradeMessage(&model.GradeEvent{
		Subject:    "Історія",
		LessonType: strptr("Лекція"),
		LessonDate: strptr("12.04"),
		NewValue:   strptr("11"),
	})
	for _, want := range []string{"Предмет: *Історія*", "Дата: 12.04", "Тип заняття: Лекція"} {
		if !strings.Contains(msg, want) {
			t.Errorf("missing %q in:\n%s", want, msg)
		}
	}

	bare := FormatGradeMessage(&model.GradeEvent{Subject: "Історія", NewValue: strptr("11")})
	if strings.Contains(bare, "Дата:") || strings.Contains(bare, "Тип заняття:") {
		t.Errorf("absent optional fields must not render lines, got:\n%s", bare)
	}
}

func TestGradeEmoji(t *testing.T) {
	cases := []struct {
		grade string
		want  string
	}{
		{"12", "🌟"},
		{"10", "🌟"},
		{"9", "✅"},
		{"8", "✅"},
		{"7", "📊"},
		{"6", "📊"},
		{"5", "⚠️"},
		{"1", "⚠️"},
		{"н/а", "📌"},
		{"+", "📌"},
		{"", "❓"},
	}
	for _, tc := range cases {
		if got := gradeEmoji(tc.grade); got != tc.want {
			t.Errorf("gradeEmoji(%q) = %q, want %q", tc.grade, got, tc.want)
		}
	}
}

func TestFormatGradeMessage_Deterministic(t *testing.T) {
	e := &model.GradeEvent{
		Subject:    "Хімія",
		LessonType: strptr("Практика"),
		LessonDate: strptr("01.09"),
		OldValue:   strptr("4"),
		NewValue:   strptr("10"),
	}
	if FormatGradeMessage(e) != FormatGradeMessage(e) {
		t.Error("formatter must be deterministic")
	}
}
