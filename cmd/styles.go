package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/v2"
)

var (
	RGBBlue   = lipgloss.Color("45")
	RGBPink   = lipgloss.Color("201")
	RGBRed    = lipgloss.Color("196")
	RGBYellow = lipgloss.Color("220")
	RGBGreen  = lipgloss.Color("46")
	RGBGrey   = lipgloss.Color("246")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(RGBPink)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(RGBGrey)

	StatusOKStyle = lipgloss.NewStyle().
			Foreground(RGBGreen)

	StatusRedirectStyle = lipgloss.NewStyle().
				Foreground(RGBBlue)

	StatusWarningStyle = lipgloss.NewStyle().
				Foreground(RGBYellow)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(RGBRed)
)

const bannerASCII = `  _                                   _    _ _
 | |__  _ __ _____      _____  ___ _ __| | _(_) |_
 | '_ \| '__/ _ \ \ /\ / / __|/ _ \ '__| |/ / | __|
 | |_) | | | (_) \ V  V /\__ \  __/ |  |   <| | |_
 |_.__/|_|  \___/ \_/\_/ |___/\___|_|  |_|\_\_|\__|`

// RenderBanner returns the styled banner for the help screen
func RenderBanner() string {
	banner := TitleStyle.Render(bannerASCII)
	subtitle := SubtitleStyle.Italic(true).Render("recorded responses, made repeatable")
	return lipgloss.NewStyle().MarginBottom(1).Render(banner + "\n" + subtitle)
}

func statusStyle(code int) lipgloss.Style {
	switch {
	case code >= 500:
		return StatusErrorStyle
	case code >= 400:
		return StatusWarningStyle
	case code >= 300:
		return StatusRedirectStyle
	default:
		return StatusOKStyle
	}
}

// entryTitle renders the "#index METHOD url -> status" line above each response.
func entryTitle(index int, method, url string, status int, color bool) string {
	statusText := fmt.Sprintf("%d", status)
	if !color {
		return fmt.Sprintf("### #%d %s %s -> %s", index, method, url, statusText)
	}
	return fmt.Sprintf("%s %s %s -> %s",
		TitleStyle.Render(fmt.Sprintf("### #%d", index)),
		method,
		SubtitleStyle.Render(url),
		statusStyle(status).Render(statusText))
}
