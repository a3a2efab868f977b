package services

import (
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

func SendBackupEmail(toEmail string, archiveName string, sizeBytes int) error {
	from := mail.NewEmail("RSquared Portfolio", os.Getenv("BACKUP_SENDER_EMAIL"))
	subject := "Your portfolio backup is ready"
	to := mail.NewEmail("Portfolio Admin", toEmail)

	htmlContent := fmt.Sprintf(`
        <div style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
			<h1 style="color: #2c3e50;">Backup complete</h1>
			<p>Hello,</p>
			<p>A full backup of your portfolio data has been generated.</p>
			<p><strong>Archive:</strong> %s<br><strong>Size:</strong> %d bytes</p>
			<p>The archive contains funds, companies, rounds and the master transaction ledger as CSV files.</p>
		</div>
        `, archiveName, sizeBytes)

	plainTextContent := fmt.Sprintf("Your portfolio backup %s (%d bytes) has been generated.", archiveName, sizeBytes)

	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	_, err := client.Send(message)
	if err != nil {
		return err
	}
	return nil
}
