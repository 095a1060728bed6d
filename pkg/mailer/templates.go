package mailer

import "fmt"

// ConductReportEmail notifies a student that a merit or demerit record was
// logged against them. Merits get the green treatment, everything else red.
func ConductReportEmail(studentName, category, description, date, facultyName, portalURL string) (subject, body string) {
	color := "#DC2626"
	title := "New Conduct Record Logged"
	if category == "merit" {
		color = "#059669"
		title = "New Merit Record Received"
	}

	subject = title
	body = fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; color: #333;">
      <h2 style="color: %s;">%s</h2>
      <p>Hello %s,</p>
      <p>A new %s record has been logged in your file by <strong>%s</strong>.</p>
      <div style="background-color: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">
        <p style="margin: 0 0 10px 0;"><strong>Date:</strong> %s</p>
        <p style="margin: 0 0 10px 0;"><strong>Description:</strong></p>
        <p style="margin: 0; font-style: italic;">"%s"</p>
      </div>
      <p>You can view your full record history by logging into the portal.</p>
      <a href="%s/auth/login" style="background-color: %s; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; display: inline-block; margin-top: 10px;">View My Portal</a>
    </div>`,
		color, title, studentName, category, facultyName, date, description, portalURL, color)
	return subject, body
}

// ServiceLogEmail notifies a student that extension duty was recorded and
// days were deducted from their outstanding balance.
func ServiceLogEmail(studentName string, daysDeducted int, description, date, facultyName, portalURL string) (subject, body string) {
	if description == "" {
		description = "Extension duty served"
	}

	subject = "Service Record Logged"
	body = fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; color: #333;">
      <h2 style="color: #3B82F6;">Sanction Cleared</h2>
      <p>Hello <strong>%s</strong>,</p>
      <p>A new service record has been logged, clearing part of your sanction balance.</p>
      <div style="background-color: #ffffff; padding: 20px; border-radius: 6px; border-left: 4px solid #3B82F6; margin: 20px 0;">
        <p style="margin: 0 0 10px 0;"><strong>Days Deducted:</strong> -%d Days</p>
        <p style="margin: 0 0 10px 0;"><strong>Description:</strong> %s</p>
        <p style="margin: 0 0 10px 0;"><strong>Date Logged:</strong> %s</p>
        <p style="margin: 0;"><strong>Logged By:</strong> %s</p>
      </div>
      <p>You can view your updated balance and full history in your dashboard.</p>
      <a href="%s/auth/login" style="background-color: #3B82F6; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">View Service History</a>
    </div>`,
		studentName, daysDeducted, description, date, facultyName, portalURL)
	return subject, body
}

// ResolutionEmailForStudent informs a student of the final decision on their
// serious infraction case.
func ResolutionEmailForStudent(studentName, dateFiled, finalSanction, adminNotes, portalURL string) (subject, body string) {
	subject = "Serious Infraction Case Update"
	body = fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; color: #333;">
      <h2 style="color: #0F172A;">Serious Infraction Case Update</h2>
      <p>Hello %s,</p>
      <p>The administration has completed the review of your serious infraction case filed on <strong>%s</strong>.</p>
      <div style="background-color: #F8FAFC; border: 1px solid #E2E8F0; padding: 20px; border-radius: 8px; margin: 20px 0;">
        <h3 style="margin-top: 0; color: #DC2626;">Final Decision</h3>
        <p style="margin: 0 0 5px 0; font-size: 14px; color: #64748B;">Sanction Imposed:</p>
        <p style="margin: 0 0 15px 0; font-weight: bold; font-size: 16px;">%s</p>
        <p style="margin: 0 0 5px 0; font-size: 14px; color: #64748B;">Administrative Notes:</p>
        <p style="margin: 0; font-style: italic;">"%s"</p>
      </div>
      <p>This decision is final and has been recorded in your permanent file.</p>
      <a href="%s/auth/login" style="background-color: #0F172A; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; display: inline-block; margin-top: 10px;">View Case Details</a>
    </div>`,
		studentName, dateFiled, finalSanction, adminNotes, portalURL)
	return subject, body
}

// ResolutionEmailForReporter informs the filing faculty member that the case
// they reported has been closed.
func ResolutionEmailForReporter(facultyName, studentName, dateFiled, finalSanction, adminNotes, portalURL string) (subject, body string) {
	subject = "Case Resolved: Serious Infraction"
	body = fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; color: #333;">
      <h2 style="color: #0F172A;">Case Resolved: Serious Infraction</h2>
      <p>Hello %s,</p>
      <p>The administration has completed the review of the serious infraction you reported against <strong>%s</strong> on %s.</p>
      <div style="background-color: #F0FDF4; border: 1px solid #BBF7D0; padding: 20px; border-radius: 8px; margin: 20px 0;">
        <h3 style="margin-top: 0; color: #15803D;">Resolution Details</h3>
        <p style="margin: 0 0 5px 0; font-size: 14px; color: #64748B;">Final Sanction Imposed:</p>
        <p style="margin: 0 0 15px 0; font-weight: bold; font-size: 16px;">%s</p>
        <p style="margin: 0 0 5px 0; font-size: 14px; color: #64748B;">Admin Remarks:</p>
        <p style="margin: 0; font-style: italic;">"%s"</p>
      </div>
      <p>The case is now closed and the record has been updated.</p>
      <a href="%s/auth/login" style="background-color: #059669; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; display: inline-block; margin-top: 10px;">View Logged Records</a>
    </div>`,
		facultyName, studentName, dateFiled, finalSanction, adminNotes, portalURL)
	return subject, body
}
