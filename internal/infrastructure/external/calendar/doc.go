// Package calendar schedules connect chats on Google Calendar through its REST API.
package calendar
