package services

import "context"

// ReminderSvc triggers due-payment reminders for loans approaching their due
// date. Delivery happens behind the Notifier port.
type ReminderSvc interface {
	// SendDueReminders notifies borrowers of loans due within the given
	// number of days. It returns how many reminders were emitted.
	SendDueReminders(ctx context.Context, withinDays int) (int, error)
}
