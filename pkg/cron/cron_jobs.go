package cron

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"pocketsplit/pkg/utils"
)

func StartCronJob(db *sql.DB) *cron.Cron {
	c := cron.New()

	// Runs daily at midnight — remind debtors with overdue pending debts
	_, err := c.AddFunc("0 0 * * *", func() {
		err := SendOverdueDebtReminders(db)
		if err != nil {
			utils.Logger.Errorf("Cron job failed to send reminder emails: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule debt reminder job: %v", err)
	}

	// Runs daily at 1am — purge old read notifications
	_, err = c.AddFunc("0 1 * * *", func() {
		err := PurgeReadNotifications(db)
		if err != nil {
			utils.Logger.Errorf("Cron job failed to purge notifications: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule notification purge job: %v", err)
	}

	c.Start()
	utils.Logger.Info("Cron jobs started (debt reminders daily at midnight, notification purge daily at 1am)")
	return c
}

// debtReminder is one overdue reminder to send.
type debtReminder struct {
	Email        string
	FirstName    string
	CreditorName string
	Amount       string
	Description  string
	DueDate      time.Time
}

// sendReminders fans reminder sends out concurrently. Failures are drained
// and logged while the workers run, so the error channel never fills up and
// blocks a sender no matter how many fail. Returns the failure count.
func sendReminders(reminders []debtReminder, send func(debtReminder) error) int {
	var wg sync.WaitGroup
	errChan := make(chan error)
	done := make(chan struct{})

	failed := 0
	go func() {
		for e := range errChan {
			utils.Logger.Error(e)
			failed++
		}
		close(done)
	}()

	for _, rem := range reminders {
		wg.Add(1)
		go func(rem debtReminder) {
			defer wg.Done()

			if err := send(rem); err != nil {
				errChan <- fmt.Errorf("failed to send reminder email to %s: %v", rem.Email, err)
				return
			}

			utils.Logger.Infof("Sent overdue debt reminder to %s (%s) for '%s'", rem.FirstName, rem.Email, rem.Description)
		}(rem)
	}

	wg.Wait()
	close(errChan)
	<-done
	return failed
}

// -------------------------------------------------------------
// Send daily reminders for pending debts past their due date
// -------------------------------------------------------------
func SendOverdueDebtReminders(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, `
		SELECT
			debtor.email,
			debtor.first_name,
			CONCAT(creditor.first_name, ' ', creditor.last_name) AS creditor_name,
			d.amount,
			d.description,
			d.due_date
		FROM debts d
		JOIN users debtor ON d.debtor_id = debtor.id
		JOIN users creditor ON d.creditor_id = creditor.id
		WHERE d.status = 'pending'
		AND d.due_date IS NOT NULL
		AND d.due_date < ?
	`, time.Now().UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return err
	}
	defer rows.Close()

	var reminders []debtReminder
	for rows.Next() {
		var rem debtReminder
		var dueDateRaw sql.NullString

		if err := rows.Scan(&rem.Email, &rem.FirstName, &rem.CreditorName, &rem.Amount, &rem.Description, &dueDateRaw); err != nil {
			utils.Logger.Errorf("Failed to scan overdue debt row: %v", err)
			continue
		}

		if dueDateRaw.Valid {
			rem.DueDate, err = time.Parse("2006-01-02 15:04:05", dueDateRaw.String)
			if err != nil {
				utils.Logger.Errorf("Failed to parse due_date for %s: %v", rem.Email, err)
				continue
			}
		}

		reminders = append(reminders, rem)
	}

	if err := rows.Err(); err != nil {
		utils.Logger.Errorf("Error iterating overdue debt rows: %v", err)
		return err
	}

	sendReminders(reminders, func(rem debtReminder) error {
		return utils.SendDebtReminderEmail(rem.Email, rem.FirstName, rem.Amount, rem.CreditorName, rem.Description, rem.DueDate)
	})

	utils.Logger.Info("Finished sending overdue debt reminder emails.")
	return nil
}

// -------------------------------------------------------------
// Purge read notifications older than 30 days
// -------------------------------------------------------------
func PurgeReadNotifications(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cutoff := time.Now().UTC().AddDate(0, 0, -30).Format("2006-01-02 15:04:05")

	result, err := db.ExecContext(ctx, `
		DELETE FROM notifications
		WHERE is_read = TRUE AND created_at < ?
	`, cutoff)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected > 0 {
		utils.Logger.Infof("Purged %d read notifications older than 30 days", rowsAffected)
	}
	return nil
}
