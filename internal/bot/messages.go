package bot

// Fixed user-facing replies reused across handlers.
const (
	msgWelcome       = "Welcome! Use the buttons below to browse lectures, important links, or reach the admins."
	msgChooseService = "Choose a service:"
	msgMaintenance   = "The bot is under maintenance. Please try again later."
	msgRateLimited   = "Too many requests. Please slow down and try again in a few seconds."
	msgGone          = "This item is no longer available."
	msgInternal      = "Something went wrong. Please try again later."
	msgRootOnly      = "Only the root admin can manage the admin list."
	msgCancelled     = "Cancelled."
	msgSkipKeyword   = "skip"
)
