package email

// Template types understood by the Sender.
const (
	TemplateNeedRequest     = "need_request"
	TemplateRequestReminder = "request_reminder"
	TemplatePositionFilled  = "position_filled"
)

type templateDef struct {
	Subject string
	Body    string
}

var defaultTemplates = map[string]templateDef{
	TemplateNeedRequest: {
		Subject: "Engagement request",
		Body: `Dear {{.name}},

You have been asked to fill the {{.position}} position for {{.project}}.
Please respond within {{.response_hours}} hours.

Kind regards,
The staffing office`,
	},
	TemplateRequestReminder: {
		Subject: "Reminder: engagement request awaiting your response",
		Body: `Dear {{.name}},

This is a reminder that your request for the {{.position}} position for
{{.project}} is still awaiting a response.

Kind regards,
The staffing office`,
	},
	TemplatePositionFilled: {
		Subject: "Position filled",
		Body: `Dear {{.name}},

The {{.position}} position for {{.project}} has been filled in the meantime.
Thank you for your availability.

Kind regards,
The staffing office`,
	},
}
