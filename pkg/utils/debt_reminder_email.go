package utils

import (
	"fmt"
	"time"
)

func SendDebtReminderEmail(to, firstName, amount, creditorName, description string, dueDate time.Time) error {
	subject := fmt.Sprintf("💰 Reminder: you still owe %s for '%s'", amount, description)

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f6f8f7; margin: 0; padding: 0; color: #333; }
		.container { max-width: 480px; margin: 25px auto; background: #ffffff; border-radius: 12px; overflow: hidden; border-top: 5px solid #d9534f; }
		.header { background-color: #d9534f; color: #ffffff; text-align: center; padding: 18px 12px; }
		.content { padding: 22px; }
		.amount { font-size: 26px; font-weight: bold; color: #d9534f; text-align: center; margin: 16px 0; }
		.footer { background: #f6f8f7; text-align: center; font-size: 12px; color: #888; padding: 14px; }
	</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h2>Payment reminder</h2></div>
			<div class="content">
				<p>Hi %s,</p>
				<p>This is a friendly reminder that you still owe <b>%s</b> for
				<b>'%s'</b>, due %s.</p>
				<div class="amount">%s</div>
				<p>Open PocketSplit to mark it as paid once you've settled up.</p>
			</div>
			<div class="footer">&copy; %d PocketSplit — Spend together, settle simply.</div>
		</div>
	</body>
	</html>
	`, firstName, creditorName, description, dueDate.Format("Jan 2, 2006"), amount, time.Now().Year())

	return SendEmail(to, subject, body)
}
