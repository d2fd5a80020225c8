package model

// Events shipped with the app so a fresh install shows something.
// Ids and timestamps are left to the store.
func SampleEvents() []Event {
	return []Event{
		{Date: "2025-11-03", Title: "Team Meeting", Time: "09:00", Duration: "1 hour", Description: "Weekly sync"},
		{Date: "2025-11-12", Title: "Dentist Appointment", Time: "15:30", Duration: "45 minutes"},
		{Date: "2025-11-18", Title: "Code Review", Time: "10:00", Duration: "1 hour"},
		{Date: "2025-11-18", Title: "One-on-One", Time: "16:00", Duration: "30 minutes"},
		{Date: "2025-11-25", Title: "Sprint Planning", Time: "10:00", Duration: "1 hour", Description: "Plan the next sprint"},
		{Date: "2025-11-25", Title: "Design Review", Time: "11:00", Duration: "1 hour"},
		{Date: "2025-11-25", Title: "Client Call", Time: "14:00", Duration: "30 minutes"},
		{Date: "2025-12-05", Title: "Project Deadline", Description: "Ship the release"},
		{Date: "2025-12-24", Title: "Holiday Party", Time: "18:00", Duration: "3 hours", Description: "Office holiday celebration"},
	}
}
