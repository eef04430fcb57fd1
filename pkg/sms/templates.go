package sms

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/sangkips/stewardpro-api/pkg/utils"
)

// MaxLength keeps messages within a single SMS segment
const MaxLength = 140

// WelcomeMessage greets a newly registered member
func WelcomeMessage(name string) string {
	full := fmt.Sprintf("Welcome %s! Your membership is registered. We're excited to have you join us. God bless! - Church Admin", name)
	if utf8.RuneCountInString(full) <= MaxLength {
		return full
	}
	return fitName(name, func(n string) string {
		return fmt.Sprintf("Welcome %s! Membership registered. God bless! - Church", n)
	})
}

// ReceiptMessage confirms a tithe and offering receipt
func ReceiptMessage(name, receiptNo string, date time.Time, total string) string {
	full := fmt.Sprintf("Thank you %s! Receipt #%s %s Total: %s. God bless! - Church",
		name, receiptNo, date.Format("02/01/2006"), total)
	if utf8.RuneCountInString(full) <= MaxLength {
		return full
	}
	return fitName(name, func(n string) string {
		return fmt.Sprintf("Thank you %s! Receipt #%s Total: %s. God bless!", n, receiptNo, total)
	})
}

// WeeklyMessage is the Saturday giving summary sent to active members
func WeeklyMessage(name, churchName, weekTotal string) string {
	full := fmt.Sprintf("Dear %s, thank you for your faithfulness. %s received %s in tithes and offerings this week. Happy Sabbath!",
		name, churchName, weekTotal)
	if utf8.RuneCountInString(full) <= MaxLength {
		return full
	}
	return fitName(name, func(n string) string {
		return fmt.Sprintf("Dear %s, thank you for your faithfulness. Happy Sabbath! - %s", n, churchName)
	})
}

// fitName renders the message with name, truncating the name with "..."
// until the message fits MaxLength
func fitName(name string, render func(name string) string) string {
	msg := render(name)
	if utf8.RuneCountInString(msg) <= MaxLength {
		return msg
	}

	room := MaxLength - utf8.RuneCountInString(render(""))
	if room < 4 {
		return utils.Truncate(msg, MaxLength)
	}
	return render(utils.Truncate(name, room))
}
