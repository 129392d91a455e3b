package utils

import (
	"fmt"
	"time"
)

func SendWelcomeEmail(to, firstName string) error {
	subject := "Welcome to PocketSplit 🎉"

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f4f6f8; margin: 0; padding: 0; color: #333; }
		.container { max-width: 520px; margin: 30px auto; background: #ffffff; border-radius: 12px; overflow: hidden; border-top: 5px solid #2d6a4f; }
		.header { background-color: #2d6a4f; color: #ffffff; text-align: center; padding: 20px 12px; }
		.content { padding: 24px; }
		.footer { background: #f4f6f8; text-align: center; font-size: 12px; color: #888; padding: 14px; }
	</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h2>Welcome aboard, %s!</h2></div>
			<div class="content">
				<p>Your PocketSplit account is ready. Track your spending, set category budgets,
				split expenses with friends and keep every debt in one place.</p>
				<ul>
					<li>💸 Record expenses and watch your budgets in real time.</li>
					<li>🤝 Split shared costs and let us work out who owes whom.</li>
					<li>🔔 Get notified the moment a debt is created or settled.</li>
				</ul>
				<p>Need help? Just reply to this email.</p>
			</div>
			<div class="footer">&copy; %d PocketSplit — Spend together, settle simply.</div>
		</div>
	</body>
	</html>
	`, firstName, time.Now().Year())

	return SendEmail(to, subject, body)
}
