// Package bugreport builds the messaging deep link players use to report bugs.
// Nothing is sent from the server; the client opens the returned URL.
package bugreport

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrEmptyDescription = errors.New("bug description is required")

// Report is the free text a player fills in.
type Report struct {
	Description string `json:"description"`
	Steps       string `json:"steps"`
}

// Message formats the report for a chat message.
func (r Report) Message() string {
	return fmt.Sprintf("*Bug Report from Bossdle*\n\n*Description:*\n%s\n\n*Steps to Reproduce:*\n%s",
		strings.TrimSpace(r.Description), strings.TrimSpace(r.Steps))
}

// URL returns a wa.me link for phone carrying the formatted message.
func URL(phone string, r Report) (string, error) {
	if strings.TrimSpace(r.Description) == "" {
		return "", ErrEmptyDescription
	}
	u := url.URL{
		Scheme: "https",
		Host:   "wa.me",
		Path:   "/" + phone,
	}
	return u.String() + "?text=" + url.QueryEscape(r.Message()), nil
}
