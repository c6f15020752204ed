package models

import "testing"

func TestValidRepeat(t *testing.T) {
	for _, repeat := range []string{RepeatNever, RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatCustom} {
		if !ValidRepeat(repeat) {
			t.Fatalf("expected %q to be valid", repeat)
		}
	}
	for _, repeat := range []string{"", "yearly", "Never", "NEVER"} {
		if ValidRepeat(repeat) {
			t.Fatalf("expected %q to be invalid", repeat)
		}
	}
}

func TestCreateTaskToTask(t *testing.T) {
	task := CreateTask{Title: "Buy milk"}.ToTask()
	if task.ID == "" {
		t.Fatal("expected a generated id")
	}
	if task.CreatedAt == 0 || task.CreatedAt != task.UpdatedAt {
		t.Fatalf("expected fresh equal timestamps, got %d / %d", task.CreatedAt, task.UpdatedAt)
	}
	if task.Repeat != RepeatNever {
		t.Fatalf("expected repeat to default to %q, got %q", RepeatNever, task.Repeat)
	}

	other := CreateTask{Title: "Other", Repeat: RepeatWeekly}.ToTask()
	if other.Repeat != RepeatWeekly {
		t.Fatalf("expected explicit repeat preserved, got %q", other.Repeat)
	}
	if other.ID == task.ID {
		t.Fatal("expected unique ids per task")
	}
}
