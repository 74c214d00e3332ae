package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorWarning   = lipgloss.Color("214") // Orange
	colorError     = lipgloss.Color("196") // Red
	colorGold      = lipgloss.Color("220")
)

// TitleStyle for the header line.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// PageStyle for the page counter next to the title.
var PageStyle = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// CardLabel style for an idle card on the orbit.
var CardLabel = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252"))

// HoveredCard style for the card under the cursor.
var HoveredCard = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary)

// SelectedCard style for the card whose detail is shown.
var SelectedCard = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorGold)

// FarCard style for cards on the far side of the circle.
var FarCard = lipgloss.NewStyle().
	Foreground(colorMuted)

// PanelStyle frames the detail panel.
var PanelStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(0, 1)

// PanelHeader style for the name line of the detail panel.
var PanelHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255"))

// PanelMuted style for secondary detail text.
var PanelMuted = lipgloss.NewStyle().
	Foreground(colorSecondary)

// TypeBadge style for type names; the background is set per type.
var TypeBadge = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Bold(true).
	Padding(0, 1).
	MarginRight(1)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(colorError).
	Bold(true).
	Padding(0, 1)

// HelpStyle for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)

// GotoBar style for the go-to-page prompt.
var GotoBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("240")).
	Padding(0, 1)

// Toast styles by notice kind.
var (
	ToastError   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(colorError).Bold(true).Padding(0, 1)
	ToastWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(colorWarning).Padding(0, 1)
	ToastSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(colorSuccess).Padding(0, 1)
)

// DebugPanel frames the debug overlay.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder()).
	BorderForeground(colorHighlight).
	Padding(1, 2)

// DebugHeaderStyle for section headers inside the debug overlay.
var DebugHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)
