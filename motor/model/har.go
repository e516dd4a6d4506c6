package model

import (
	"time"

	"github.com/pb33f/harhar"
)

// HAR represents the root of an HTTP Archive document.
//
// W3C Spec: https://w3c.github.io/web-performance/specs/HAR/Overview.html
type HAR struct {
	Log Log `json:"log"`
}

// NewHAR creates an empty HTTP Archive document for the named creator.
func NewHAR(creatorName, creatorVersion string) *HAR {
	if creatorVersion == "" {
		creatorVersion = time.Now().Format("20060102150405")
	}
	return &HAR{
		Log: Log{
			Version: "1.2",
			Creator: harhar.Creator{
				Name:    creatorName,
				Version: creatorVersion,
			},
			Entries: []harhar.Entry{},
		},
	}
}

// Log holds the recorded request/response entries.
type Log struct {
	// Version of the HAR format, "1.2"
	Version string `json:"version"`

	// Creator of this set of Log entries.
	Creator harhar.Creator `json:"creator"`

	// Browser that produced the entries, if any.
	Browser *harhar.Creator `json:"browser,omitempty"`

	// Pages group entries, such as a document and its resources.
	Pages []harhar.Page `json:"pages,omitempty"`

	// Entries recorded, in capture order.
	Entries []harhar.Entry `json:"entries"`

	// Comment can be added to the log to describe the particulars of this data.
	Comment string `json:"comment,omitempty"`
}

// AddEntry appends an entry to the log.
func (h *HAR) AddEntry(e harhar.Entry) {
	h.Log.Entries = append(h.Log.Entries, e)
}
