package utils

import (
	"fmt"
	"os"
	"time"
)

func SendFriendInviteEmail(to, inviterName, token string) error {
	subject := fmt.Sprintf("🤝 %s wants to split expenses with you on PocketSplit", inviterName)

	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "https://pocketsplit.app"
	}
	inviteURL := fmt.Sprintf("%s/friends/accept/%s", baseURL, token)

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
		.cta { text-align: center; margin: 24px 0; }
		.cta a { background: #2d6a4f; color: #ffffff; padding: 12px 28px; border-radius: 8px; text-decoration: none; }
		.footer { background: #f4f6f8; text-align: center; font-size: 12px; color: #888; padding: 14px; }
	</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h2>You have a new connection request</h2></div>
			<div class="content">
				<p><b>%s</b> wants to add you as a friend on PocketSplit so you can
				split shared expenses and keep track of who owes whom.</p>
				<div class="cta"><a href="%s" target="_blank">Accept invitation</a></div>
				<p>If you don't know this person, you can safely ignore this email.</p>
			</div>
			<div class="footer">&copy; %d PocketSplit — Spend together, settle simply.</div>
		</div>
	</body>
	</html>
	`, inviterName, inviteURL, time.Now().Year())

	return SendEmail(to, subject, body)
}
