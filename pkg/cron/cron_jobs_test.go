package cron

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeReminders(n int) []debtReminder {
	reminders := make([]debtReminder, n)
	for i := range reminders {
		reminders[i] = debtReminder{
			Email:       fmt.Sprintf("debtor%d@example.com", i),
			FirstName:   "Debtor",
			Amount:      "25.00",
			Description: "Lunch",
		}
	}
	return reminders
}

func TestSendRemindersCountsFailures(t *testing.T) {
	var sent int32
	failed := sendReminders(makeReminders(8), func(rem debtReminder) error {
		if rem.Email == "debtor3@example.com" {
			return errors.New("smtp down")
		}
		atomic.AddInt32(&sent, 1)
		return nil
	})

	assert.Equal(t, 1, failed)
	assert.Equal(t, int32(7), atomic.LoadInt32(&sent))
}

// Every send failing must still complete: failures are drained while the
// workers run, so no worker ever blocks on reporting its error.
func TestSendRemindersManyFailuresDoNotBlock(t *testing.T) {
	const n = 50

	done := make(chan int, 1)
	go func() {
		done <- sendReminders(makeReminders(n), func(debtReminder) error {
			return errors.New("smtp down")
		})
	}()

	select {
	case failed := <-done:
		assert.Equal(t, n, failed)
	case <-time.After(5 * time.Second):
		t.Fatal("reminder fan-out did not finish with all sends failing")
	}
}

func TestSendRemindersEmptyList(t *testing.T) {
	failed := sendReminders(nil, func(debtReminder) error {
		t.Fatal("send must not be called")
		return nil
	})
	require.Equal(t, 0, failed)
}
