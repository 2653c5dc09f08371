package services

import (
	"testing"

	"dailymillions/internal/models"
)

func TestClassifier_Classify(t *testing.T) {
	afternoon := []models.DrawRecord{draw("2025-04-11T13:00:00Z", "afternoon")}

	t.Run("Test pending before the draw hour", func(t *testing.T) {
		cl := Classifier{Clock: testClock(t, "2025-04-11T12:30:00Z")} // 13:30 IST
		if got := cl.Classify("2025-04-11", 14, nil); got != Pending {
			t.Errorf("Expected pending, but got %s", got)
		}
	})

	t.Run("Test unscheduled once the hour passes without a record", func(t *testing.T) {
		cl := Classifier{Clock: testClock(t, "2025-04-11T13:05:00Z")} // 14:05 IST
		if got := cl.Classify("2025-04-11", 14, nil); got != Unscheduled {
			t.Errorf("Expected unscheduled, but got %s", got)
		}
	})

	t.Run("Test published when the record exists", func(t *testing.T) {
		cl := Classifier{Clock: testClock(t, "2025-04-11T13:05:00Z")}
		if got := cl.Classify("2025-04-11", 14, afternoon); got != Published {
			t.Errorf("Expected published, but got %s", got)
		}
		if got := cl.Classify("2025-04-11", 21, afternoon); got != Pending {
			t.Errorf("Expected the evening slot to be pending, but got %s", got)
		}
	})

	t.Run("Test other dates are unscheduled", func(t *testing.T) {
		cl := Classifier{Clock: testClock(t, "2025-04-11T12:30:00Z")}
		if got := cl.Classify("2025-04-12", 14, nil); got != Unscheduled {
			t.Errorf("Expected unscheduled for tomorrow, but got %s", got)
		}
	})

	t.Run("Test forcing coming soon ignores records", func(t *testing.T) {
		cl := Classifier{Clock: testClock(t, "2025-04-11T12:30:00Z"), ForceComingSoon: true}
		if got := cl.Classify("2025-04-11", 14, afternoon); got != Pending {
			t.Errorf("Expected pending, but got %s", got)
		}
	})
}
